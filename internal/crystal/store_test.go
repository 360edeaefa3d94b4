package crystal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRIIOT/crystal-mcp-server-public/pkg/types"
)

// mockScanner implements ContextScanner for tests
type mockScanner struct {
	detectFunc func(ctx context.Context) (string, bool)
}

func (m *mockScanner) DetectContent(ctx context.Context) (string, bool) {
	if m.detectFunc != nil {
		return m.detectFunc(ctx)
	}
	return "", false
}

func newTestStore(t *testing.T, scanner ContextScanner) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "crystals", scanner, nil)
	require.NoError(t, err)
	return store
}

func TestCreateRoundTrip(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	created, err := store.Create(ctx, CreateRequest{
		Content: "crystallized insight",
		Title:   "Insight",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(created.ID, "crystal-"))
	assert.Equal(t, DefaultSpecVersion, created.SpecVersion)
	assert.False(t, created.AutoDetected)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "crystallized insight", got.Content)
	assert.Equal(t, "Insight", got.Title)
}

func TestCreateDefaults(t *testing.T) {
	store := newTestStore(t, nil)

	created, err := store.Create(context.Background(), CreateRequest{Content: "x"})
	require.NoError(t, err)

	assert.Equal(t, DefaultTitle, created.Title)
	assert.Equal(t, DefaultSpecVersion, created.SpecVersion)
	assert.NotEmpty(t, created.CreatedAt)
}

func TestCreateGeneratesUniqueIDs(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		c, err := store.Create(ctx, CreateRequest{Content: "x"})
		require.NoError(t, err)
		assert.False(t, seen[c.ID], "duplicate ID %s", c.ID)
		seen[c.ID] = true
	}
}

func TestCreateNoContentNoScanner(t *testing.T) {
	store := newTestStore(t, NullScanner())

	_, err := store.Create(context.Background(), CreateRequest{Title: "empty"})
	assert.ErrorIs(t, err, types.ErrNoContent)
}

func TestCreateAutoDetectedContent(t *testing.T) {
	scanner := &mockScanner{
		detectFunc: func(context.Context) (string, bool) {
			return "scanned content", true
		},
	}
	store := newTestStore(t, scanner)

	created, err := store.Create(context.Background(), CreateRequest{})
	require.NoError(t, err)

	assert.True(t, created.AutoDetected)
	assert.Equal(t, "scanned content", created.Content)
}

func TestCreateExplicitContentSkipsScanner(t *testing.T) {
	called := false
	scanner := &mockScanner{
		detectFunc: func(context.Context) (string, bool) {
			called = true
			return "scanned", true
		},
	}
	store := newTestStore(t, scanner)

	created, err := store.Create(context.Background(), CreateRequest{Content: "explicit"})
	require.NoError(t, err)

	assert.False(t, called, "scanner must not run when content is supplied")
	assert.False(t, created.AutoDetected)
	assert.Equal(t, "explicit", created.Content)
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t, nil)

	_, err := store.Get(context.Background(), "crystal-nonexistent")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestGetRejectsTraversalID(t *testing.T) {
	store := newTestStore(t, nil)

	_, err := store.Get(context.Background(), filepath.Join("..", "escape"))
	assert.ErrorIs(t, err, types.ErrPathEscape)
}

func TestIDsNeverIncludeMissingID(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	c, err := store.Create(ctx, CreateRequest{Content: "x"})
	require.NoError(t, err)

	ids, err := store.IDs(ctx)
	require.NoError(t, err)

	assert.Contains(t, ids, c.ID)
	assert.NotContains(t, ids, "crystal-nonexistent")
}

func TestListIdempotent(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		_, err := store.Create(ctx, CreateRequest{Content: content, Title: content})
		require.NoError(t, err)
	}

	first, err := store.List(ctx)
	require.NoError(t, err)
	second, err := store.List(ctx)
	require.NoError(t, err)

	require.Len(t, first, 3)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("list not idempotent (-first +second):\n%s", diff)
	}
}

func TestListFlagsMalformedRecord(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	good, err := store.Create(ctx, CreateRequest{Content: "fine", Title: "Good"})
	require.NoError(t, err)

	// Drop a corrupt record next to the good one.
	corrupt := filepath.Join(store.Dir(), "crystal-corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0644))

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2, "corruption must not hide the file")

	byID := make(map[string]types.CrystalSummary)
	for _, s := range summaries {
		byID[s.ID] = s
	}

	assert.Equal(t, "Good", byID[good.ID].Title)
	assert.Empty(t, byID[good.ID].ParseError)

	bad := byID["crystal-corrupt"]
	assert.Equal(t, MalformedTitle, bad.Title)
	assert.NotEmpty(t, bad.ParseError)
	assert.Greater(t, bad.SizeBytes, int64(0))
}

func TestListSkipsTempFiles(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), ".crystal-123"), []byte("partial"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "README"), []byte("notes"), 0644))

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestRecordLayoutOnDisk(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	created, err := store.Create(ctx, CreateRequest{
		Content:     "body",
		Title:       "Layout",
		SpecVersion: "2.1",
	})
	require.NoError(t, err)

	path, err := store.Path(created.ID)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Whole-record JSON with the documented field names.
	for _, field := range []string{`"id"`, `"title"`, `"spec_version"`, `"created_at"`, `"auto_detected"`, `"content"`} {
		assert.Contains(t, string(data), field)
	}
}
