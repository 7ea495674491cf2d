// Package pathfilter implements the directory-traversal, regex-matching,
// and binary-detection collaborator spec.md treats as external to the
// core (§1, §4.6 "filter"): Matches, FilteredFiles, and (in color.go)
// colorized banner printing.
package pathfilter

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// maxBinarySniffBytes is how much of a file's head is inspected to decide
// whether it's text, per spec §4.6 ("binary-content detection").
const maxBinarySniffBytes = 1024

// Filter bundles the regex path predicate and the show-binary policy.
type Filter struct {
	regex        *regexp.Regexp
	filterBinary bool
}

// New compiles pattern (default ".*" when empty) into a Filter. showBinary
// disables the binary-content filter when true.
func New(pattern string, showBinary bool) (*Filter, error) {
	if pattern == "" {
		pattern = ".*"
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Filter{regex: re, filterBinary: !showBinary}, nil
}

// Matches reports whether path's string form matches the configured
// regex.
func (f *Filter) Matches(path string) bool {
	return f.regex.MatchString(path)
}

// Regexp exposes the compiled pattern.
func (f *Filter) Regexp() *regexp.Regexp { return f.regex }

// FilteredFiles walks root (to depth, recursive or not) and returns the
// sorted list of regular file paths that match the regex and, unless
// showBinary was set, pass the binary-content sniff. Sorting matches the
// original Rust implementation's lexical WalkDir ordering so bootstrap
// output is deterministic.
func (f *Filter) FilteredFiles(root string, recursive bool, depth int) ([]string, error) {
	maxDepth := depth
	if !recursive {
		maxDepth = 1
	}

	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // ignore unreadable entries; walking continues
		}
		entryDepth := relDepth(root, path)
		if d.IsDir() {
			if maxDepth > 0 && path != root && entryDepth >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if maxDepth > 0 && entryDepth > maxDepth {
			return nil
		}
		if !f.Matches(path) {
			return nil
		}
		if f.filterBinary && !IsText(path) {
			return nil
		}
		matches = append(matches, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// relDepth returns how many path components separate path from root (the
// immediate children of root are at depth 1).
func relDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// IsText classifies a file as text by sniffing its first
// maxBinarySniffBytes bytes for a NUL byte, the same heuristic GNU grep
// (and this pack's gogrep IsBinary) uses: a NUL byte in that window is
// treated as a reliable binary marker. Unreadable files are treated as
// not text.
func IsText(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, maxBinarySniffBytes)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	for _, b := range buf[:n] {
		if b == 0 {
			return false
		}
	}
	return true
}
