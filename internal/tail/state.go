package tail

import (
	"bufio"
	"io"
	"os"

	"github.com/dottail/rwail/internal/filesystem"
)

var opener = filesystem.NewFileOpener()

// State bundles a reader capability, an output sink, and whether the last
// byte ever written for this file was a line terminator (spec §3
// TailState). It is the unit of per-file bookkeeping the directory
// watcher's dispatcher maintains in its file map.
type State struct {
	Reader     ReadSeekerLength
	Writer     io.Writer
	printedEOL bool

	// closer, if non-nil, is invoked by Close to release the underlying
	// handle (e.g. a pooled handlepool.Slot's release, or *os.File.Close).
	closer func() error
}

// NewFromPath opens path directly (bypassing any handle pool) and pairs it
// with w as the output sink. Used for bootstrap and for paths the handle
// pool doesn't own.
func NewFromPath(path string, w io.Writer) (*State, error) {
	f, err := opener.Open(path)
	if err != nil {
		return nil, err
	}
	return &State{
		Reader: NewOSFile(f, path),
		Writer: w,
		closer: f.Close,
	}, nil
}

// NewFromReader builds a State directly from a capability bundle and
// writer, with no close action (used when the reader's lifecycle is owned
// elsewhere, e.g. the handle pool).
func NewFromReader(r ReadSeekerLength, w io.Writer) *State {
	return &State{Reader: r, Writer: w}
}

// NewFromReaderWithCloser is NewFromReader plus an explicit release action,
// for readers backed by a shared resource (e.g. a handlepool.Slot) that
// must be released from the pool rather than merely left to the garbage
// collector when this State is discarded.
func NewFromReaderWithCloser(r ReadSeekerLength, w io.Writer, closer func() error) *State {
	return &State{Reader: r, Writer: w, closer: closer}
}

// PrintedEOL reports whether the last byte this state has ever written was
// '\n'.
func (s *State) PrintedEOL() bool { return s.printedEOL }

// CurrentSeek returns the reader's current offset.
func (s *State) CurrentSeek() (int64, error) {
	return s.Reader.CurrentOffset()
}

// Length returns the reader's total length.
func (s *State) Length() (int64, error) {
	return s.Reader.Length()
}

// HandleShrink resets the reader to offset 0 if the file has shrunk below
// offset, per spec §4.3.
func (s *State) HandleShrink(offset int64) (bool, error) {
	return HandleShrink(s.Reader, offset)
}

// DumpToTail streams from the reader's current offset to EOF, per spec
// §4.2.
func (s *State) DumpToTail() (int64, error) {
	return DumpToTail(s.Reader, s.Writer, &s.printedEOL)
}

// Tail is the composite operation: locate the start of the last n lines,
// apply shrink handling against the result, then dump to the end. It is
// the bootstrap entry point (spec §4.4).
func (s *State) Tail(n int) error {
	offset, err := TailStartPosition(s.Reader, n)
	if err != nil {
		return err
	}
	shrunk, err := s.HandleShrink(offset)
	if err != nil {
		return err
	}
	if !shrunk {
		if _, err := s.Reader.Seek(offset, io.SeekStart); err != nil {
			return err
		}
	}
	_, err = s.DumpToTail()
	return err
}

// Close releases the underlying handle if this State owns one.
func (s *State) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}

// LineBufferedStdout wraps os.Stdout in a bufio.Writer. Output reaches
// stdout when the buffer fills or on Flush (DumpToTail flushes after each
// call), not at every line end.
func LineBufferedStdout() *bufio.Writer {
	return bufio.NewWriter(os.Stdout)
}
