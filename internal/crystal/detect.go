package crystal

import "context"

// ContextScanner is the injected capability behind auto-detection:
// "scan the calling agent's active context for the most recent
// artifact-worthy content." The store never implements the scan itself,
// so the heuristic stays replaceable without touching storage logic.
type ContextScanner interface {
	// DetectContent returns candidate content and whether anything
	// artifact-worthy was found.
	DetectContent(ctx context.Context) (string, bool)
}

// ScannerFunc adapts a plain function to the ContextScanner interface
type ScannerFunc func(ctx context.Context) (string, bool)

// DetectContent implements ContextScanner
func (f ScannerFunc) DetectContent(ctx context.Context) (string, bool) {
	return f(ctx)
}

// NullScanner returns the default scanner, which always reports that no
// content is available
func NullScanner() ContextScanner {
	return ScannerFunc(func(context.Context) (string, bool) {
		return "", false
	})
}
