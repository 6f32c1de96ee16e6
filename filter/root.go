package filter

import "path/filepath"

// ResolveRoot returns the absolute walk root with symlinks evaluated.
// filepath.WalkDir does not follow a symlinked root, so every walk starts
// from the resolved path. Errors are the raw os errors for callers to classify.
func ResolveRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(absRoot)
}
