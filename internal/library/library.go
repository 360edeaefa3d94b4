// Package library serves the static reference documents: protocol
// specifications and codices. Each class lives in its own directory
// under the server root and is re-listed on every query, so documents
// dropped in while the server is running are picked up immediately.
package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/MRIIOT/crystal-mcp-server-public/internal/matcher"
	"github.com/MRIIOT/crystal-mcp-server-public/pkg/types"
)

// Library provides query access to one class of reference documents
type Library struct {
	root   string
	dir    string
	class  matcher.Class
	logger *zap.Logger
}

// New creates a Library for a document class. dir may be relative to
// root; either way it must resolve inside root.
func New(root, dir string, class matcher.Class, logger *zap.Logger) (*Library, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	resolved, err := ContainedPath(root, dir)
	if err != nil {
		return nil, err
	}

	return &Library{
		root:   root,
		dir:    resolved,
		class:  class,
		logger: logger,
	}, nil
}

// Class returns the document class served by this library
func (l *Library) Class() matcher.Class {
	return l.class
}

// List enumerates candidate filenames for this class, in directory
// order. No index is cached between calls.
func (l *Library) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s documents: %w", l.class.Name, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), l.class.Extension) {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

// Read returns the content of a named document. The resolved path must
// stay inside the class directory; a name that escapes it is a fatal
// precondition failure, not a lookup miss.
func (l *Library) Read(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := ContainedPath(l.dir, filepath.Clean(name))
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", types.ErrNotFound, name)
		}
		return "", fmt.Errorf("reading %s document %s: %w", l.class.Name, name, err)
	}

	return string(data), nil
}

// Query matches a free-text query against the class documents and
// returns the match result plus the matched document's content when a
// candidate cleared the threshold.
func (l *Library) Query(ctx context.Context, query string) (types.MatchResult, string, error) {
	candidates, err := l.List(ctx)
	if err != nil {
		return types.MatchResult{}, "", err
	}

	result := matcher.Match(query, candidates, l.class)
	l.logger.Debug("document query",
		zap.String("class", l.class.Name),
		zap.String("query", query),
		zap.Bool("matched", result.Matched),
		zap.Float64("score", result.Score))

	if !result.Matched {
		return result, "", nil
	}

	content, err := l.Read(ctx, result.Match)
	if err != nil {
		return result, "", err
	}

	return result, content, nil
}
