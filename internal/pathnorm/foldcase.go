package pathnorm

import (
	"runtime"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// CanonicalKey returns the FileMap lookup key for a canonical path. On
// case-insensitive filesystems (Windows, and Darwin's default HFS+/APFS
// configuration) two differently-cased canonical strings can refer to the
// same file; folding them here keeps FileMap's "at-most-one entry per
// canonical path" invariant (spec §3) from being violated by a cosmetic
// case difference between an initial-scan path and a later watch event for
// the same file.
func CanonicalKey(path string) string {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		return path
	}
	return folder.String(path)
}
