package crystal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MRIIOT/crystal-mcp-server-public/internal/library"
	"github.com/MRIIOT/crystal-mcp-server-public/pkg/types"
)

const (
	// DefaultSpecVersion is stamped on crystals created without an
	// explicit spec_version
	DefaultSpecVersion = "3.0"

	// DefaultTitle is used when a create request carries no title
	DefaultTitle = "Untitled Crystal"

	// MalformedTitle is the sentinel marker listed for records that
	// fail to parse
	MalformedTitle = "[unreadable crystal]"

	// recordExt is the on-disk record filename extension
	recordExt = ".json"

	// cacheSize bounds the immutable-record read cache
	cacheSize = 256

	// listParallelism bounds concurrent record parsing during List
	listParallelism = 8
)

// CreateRequest contains parameters for creating a crystal
type CreateRequest struct {
	// Content is the artifact body. When empty, the store falls back
	// to the injected context scanner.
	Content string

	// Title is optional; DefaultTitle is used when empty.
	Title string

	// SpecVersion is optional; DefaultSpecVersion is used when empty.
	SpecVersion string
}

// Store owns the mapping from crystal ID to persisted record. No other
// component writes to the crystal directory.
type Store struct {
	dir     string
	scanner ContextScanner
	cache   *lru.Cache[string, *types.Crystal]
	logger  *zap.Logger
}

// NewStore creates a Store rooted at dir (resolved against root, must
// stay inside it). The directory is created idempotently.
func NewStore(root, dir string, scanner ContextScanner, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scanner == nil {
		scanner = NullScanner()
	}

	resolved, err := library.ContainedPath(root, dir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(resolved, 0755); err != nil {
		return nil, fmt.Errorf("creating crystal directory: %w", err)
	}

	cache, err := lru.New[string, *types.Crystal](cacheSize)
	if err != nil {
		// Only possible with a non-positive size
		panic(fmt.Sprintf("failed to create record cache: %v", err))
	}

	return &Store{
		dir:     resolved,
		scanner: scanner,
		cache:   cache,
		logger:  logger,
	}, nil
}

// Dir returns the absolute crystal directory
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the on-disk location for a crystal ID. The resolved path
// must stay inside the store directory.
func (s *Store) Path(id string) (string, error) {
	return library.ContainedPath(s.dir, id+recordExt)
}

// Create generates a fresh ID, stamps the current time, and persists
// the record. An empty Content falls back to the context scanner; if
// that also yields nothing, Create fails with types.ErrNoContent.
func (s *Store) Create(ctx context.Context, req CreateRequest) (*types.Crystal, error) {
	content := req.Content
	autoDetected := false

	if content == "" {
		if detected, ok := s.scanner.DetectContent(ctx); ok && detected != "" {
			content = detected
			autoDetected = true
		}
	}
	if content == "" {
		return nil, types.ErrNoContent
	}

	title := req.Title
	if title == "" {
		title = DefaultTitle
	}
	specVersion := req.SpecVersion
	if specVersion == "" {
		specVersion = DefaultSpecVersion
	}

	c := &types.Crystal{
		ID:           "crystal-" + uuid.NewString(),
		Title:        title,
		SpecVersion:  specVersion,
		CreatedAt:    time.Now().UTC().Format(types.TimestampLayout),
		AutoDetected: autoDetected,
		Content:      content,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	path, err := s.Path(c.ID)
	if err != nil {
		return nil, err
	}

	if err := s.writeRecord(path, c); err != nil {
		return nil, err
	}

	s.cache.Add(c.ID, c)
	s.logger.Info("crystal created",
		zap.String("id", c.ID),
		zap.String("spec_version", c.SpecVersion),
		zap.Bool("auto_detected", c.AutoDetected),
		zap.Int("content_bytes", len(c.Content)))

	return c, nil
}

// Get retrieves a crystal by ID. Returns types.ErrNotFound when no
// record exists; callers pair that with IDs() per the recovery
// contract.
func (s *Store) Get(ctx context.Context, id string) (*types.Crystal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c, ok := s.cache.Get(id); ok {
		return c, nil
	}

	path, err := s.Path(id)
	if err != nil {
		return nil, err
	}

	c, err := s.readRecord(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrNotFound, id)
		}
		return nil, err
	}

	s.cache.Add(id, c)
	return c, nil
}

// IDs enumerates the IDs of all stored crystals, in directory order
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	entries, err := s.recordEntries(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, strings.TrimSuffix(entry.Name(), recordExt))
	}
	return ids, nil
}

// List enumerates summaries of all stored crystals, in directory order.
// Records that fail to parse are still listed, flagged with the
// MalformedTitle sentinel and a ParseError, so partial corruption never
// hides the existence of a file.
func (s *Store) List(ctx context.Context) ([]types.CrystalSummary, error) {
	entries, err := s.recordEntries(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]types.CrystalSummary, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listParallelism)
	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			summaries[i] = s.summarize(entry)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// summarize builds the enumeration view of a single record file
func (s *Store) summarize(entry os.DirEntry) types.CrystalSummary {
	id := strings.TrimSuffix(entry.Name(), recordExt)

	summary := types.CrystalSummary{ID: id}
	if info, err := entry.Info(); err == nil {
		summary.SizeBytes = info.Size()
	}

	c, err := s.readRecord(filepath.Join(s.dir, entry.Name()))
	if err != nil {
		s.logger.Warn("malformed crystal record",
			zap.String("id", id),
			zap.Error(err))
		summary.Title = MalformedTitle
		summary.ParseError = err.Error()
		return summary
	}

	summary.Title = c.Title
	summary.SpecVersion = c.SpecVersion
	summary.CreatedAt = c.CreatedAt
	return summary
}

// recordEntries lists the record files in the store directory, skipping
// subdirectories, temp files, and anything without the record extension
func (s *Store) recordEntries(ctx context.Context) ([]os.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing crystal directory: %w", err)
	}

	records := make([]os.DirEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, recordExt) {
			continue
		}
		records = append(records, entry)
	}

	return records, nil
}

// writeRecord persists a record atomically: write to a temp file in the
// same directory, then rename over the final path. Records are
// create-only, so there is no partial-write recovery beyond this.
func (s *Store) writeRecord(path string, c *types.Crystal) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding crystal %s: %w", c.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".crystal-*")
	if err != nil {
		return fmt.Errorf("creating temp record: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing crystal %s: %w", c.ID, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing crystal %s: %w", c.ID, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("persisting crystal %s: %w", c.ID, err)
	}

	return nil
}

// readRecord loads and decodes one record file. Decode failures wrap
// types.ErrMalformedRecord; missing files surface the raw os error for
// the caller to classify.
func (s *Store) readRecord(path string) (*types.Crystal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c types.Crystal
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedRecord, filepath.Base(path), err)
	}

	return &c, nil
}
