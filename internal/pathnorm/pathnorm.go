// Package pathnorm canonicalizes paths and formats them for banner display
// (spec §3 "CanonicalPath", §4.6 "Path normalization and banner emission").
package pathnorm

import (
	"path/filepath"
	"strings"
)

// Canonicalize resolves path to a fully-resolved absolute path, following
// symlinks, and strips the platform-specific long-path prefixes so the
// result is stable as a FileMap key across the life of the process.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The path may not exist yet (e.g. a rename target seen before the
		// corresponding stat); fall back to the absolute form.
		resolved = abs
	}
	return StripLongPathPrefix(resolved), nil
}

// StripLongPathPrefix removes the Windows `\\?\` and `\\?\UNC\` long-path
// prefixes, a no-op on platforms that never add them. It runs
// unconditionally (not behind a build tag) so the same logic is testable
// everywhere and defensively normalizes any stray prefix an event source
// hands back.
func StripLongPathPrefix(path string) string {
	const prefix = `\\?\`
	const uncPrefix = `\\?\UNC\`
	if strings.HasPrefix(path, uncPrefix) {
		return `\\` + path[len(uncPrefix):]
	}
	if strings.HasPrefix(path, prefix) {
		return path[len(prefix):]
	}
	return path
}

// DisplayPath renders a canonical path for a banner: relative to
// currentDir when that succeeds, else the normalized absolute form, with
// any leading "./" trimmed (spec §4.6 banner rules).
func DisplayPath(canonicalPath, currentDir string) string {
	display := canonicalPath
	if currentDir != "" {
		if rel, err := filepath.Rel(currentDir, canonicalPath); err == nil {
			display = rel
		}
	}
	return strings.TrimPrefix(display, "."+string(filepath.Separator))
}
