package library

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MRIIOT/crystal-mcp-server-public/pkg/types"
)

// ContainedPath resolves target against root and verifies the result is
// a descendant of root. The check compares path segments via
// filepath.Rel rather than raw string prefixes, so a sibling directory
// sharing a name prefix (root "/data" vs "/data-evil") cannot slip
// through. Violations return types.ErrPathEscape.
func ContainedPath(root, target string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", root, err)
	}

	abs := target
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(absRoot, target)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(absRoot, abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrPathEscape, target)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", types.ErrPathEscape, target)
	}

	return abs, nil
}
