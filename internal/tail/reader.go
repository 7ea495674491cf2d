// Package tail implements the offset-based reverse scan that locates the
// start of the last N lines of a file, and the streaming dumper that copies
// from a known offset to EOF.
package tail

import (
	"io"
	"os"

	"github.com/dottail/rwail/internal/filesystem"
)

// ReadSeekerLength is the capability bundle the locator and dumper need:
// read, absolute/relative seek, current offset, and total length. An
// opened file handle satisfies it via osFile below; tests satisfy it with
// an in-memory buffer.
type ReadSeekerLength interface {
	io.Reader
	io.Seeker
	// CurrentOffset returns the current read position without consuming
	// any bytes.
	CurrentOffset() (int64, error)
	// Length returns the total length in bytes.
	Length() (int64, error)
}

// osFile adapts a filesystem.ReadSeekCloser (opened with platform-correct
// share modes) to ReadSeekerLength. Length is stat'd by path rather than
// through the handle, since the Windows share-mode opener's
// ReadSeekCloser doesn't expose Stat.
type osFile struct {
	filesystem.ReadSeekCloser
	path string
}

// NewOSFile wraps an already-open handle for use with the locator and
// dumper.
func NewOSFile(f filesystem.ReadSeekCloser, path string) ReadSeekerLength {
	return &osFile{ReadSeekCloser: f, path: path}
}

func (f *osFile) CurrentOffset() (int64, error) {
	return f.Seek(0, io.SeekCurrent)
}

func (f *osFile) Length() (int64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
