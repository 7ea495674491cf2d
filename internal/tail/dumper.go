package tail

import "io"

// HandleShrink detects external truncation: if the file's current length is
// less than offset (the position we last read up to), the file has shrunk
// out from under us. On detection it seeks the reader back to 0 and returns
// true. Otherwise it returns false without any side effect.
func HandleShrink(r ReadSeekerLength, offset int64) (bool, error) {
	length, err := r.Length()
	if err != nil {
		return false, err
	}
	if length < offset {
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// DumpToTail reads from the reader's current offset to EOF and writes
// everything to w, in BufferSize chunks aligned so that every read after
// the first lands on a BufferSize boundary. It reports whether the last
// byte written was a line terminator ('\n'), flushing w when that
// interface is supported. It returns the offset after the final (empty)
// read, i.e. the file length at the time reading stopped.
//
// If the very first read returns zero bytes, DumpToTail returns
// immediately without writing, flushing, or touching printedEOL.
func DumpToTail(r ReadSeekerLength, w io.Writer, printedEOL *bool) (int64, error) {
	offset, err := r.CurrentOffset()
	if err != nil {
		return 0, err
	}

	buf := make([]byte, BufferSize)
	firstLen := BufferSize - int(offset%BufferSize)
	n, err := r.Read(buf[:firstLen])
	if err != nil && err != io.EOF {
		return 0, err
	}
	if n == 0 {
		return offset, nil
	}
	offset += int64(n)

	for {
		chunk := buf[:n]
		if _, werr := w.Write(chunk); werr != nil {
			return 0, werr
		}
		if len(chunk) > 0 {
			*printedEOL = chunk[len(chunk)-1] == '\n'
		}

		n, err = r.Read(buf)
		if err != nil && err != io.EOF {
			return 0, err
		}
		offset += int64(n)
		if n == 0 {
			break
		}
	}

	if f, ok := w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return 0, err
		}
	}

	return offset, nil
}

// flusher is satisfied by *bufio.Writer (such as LineBufferedStdout's
// result); sinks without a Flush method, such as *os.File or bytes.Buffer,
// are written directly and not flushed.
type flusher interface {
	Flush() error
}
