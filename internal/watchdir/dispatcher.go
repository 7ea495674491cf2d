// Package watchdir implements the directory watcher / event dispatcher
// state machine (spec §4.6): bootstrap, the event loop, rename-cookie
// pairing, macOS coalescing, the Windows pending-delete sweep, and banner
// emission.
package watchdir

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/dottail/rwail/internal/fsevents"
	"github.com/dottail/rwail/internal/handlepool"
	"github.com/dottail/rwail/internal/pathfilter"
	"github.com/dottail/rwail/internal/pathnorm"
	"github.com/dottail/rwail/internal/rwailerr"
	"github.com/dottail/rwail/internal/tail"
)

// eventTimeout bounds how long the event loop waits between source events
// before re-running the Windows pending-delete sweep (spec §5).
const eventTimeout = 1 * time.Second

// Options configures a Dispatcher's bootstrap and ongoing behavior.
type Options struct {
	Path       string
	Recursive  bool
	Depth      int
	Lines      int
	Colorize   bool
	ShowBinary bool
}

// Dispatcher holds the watcher's whole mutable state: the per-path
// TailState map, the in-flight rename-cookie pairing map, which file is
// currently selected for banner purposes, and its collaborators.
type Dispatcher struct {
	opts       Options
	filter     *pathfilter.Filter
	pool       *handlepool.Pool
	out        io.Writer
	currentDir string

	fileMap         map[string]*tail.State
	renamingMap     map[uint32]*tail.State // nil value == tombstone
	selectedFile    string
	firstBannerSeen bool

	source fsevents.Source
}

// New builds a Dispatcher. filter has already been constructed from the
// --regex/--show-binary flags.
func New(opts Options, filter *pathfilter.Filter, out io.Writer) (*Dispatcher, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	return &Dispatcher{
		opts:        opts,
		filter:      filter,
		pool:        handlepool.New(handlepool.Capacity),
		out:         out,
		currentDir:  cwd,
		fileMap:     make(map[string]*tail.State),
		renamingMap: make(map[uint32]*tail.State),
	}, nil
}

// Bootstrap performs spec §4.6's initial scan: when Lines == 0, every
// matched file is seeked to EOF with no banner; when Lines > 0, each file
// is bannered and tailed for its last N lines in filter order.
func (d *Dispatcher) Bootstrap() error {
	paths, err := d.filter.FilteredFiles(d.opts.Path, d.opts.Recursive, d.opts.Depth)
	if err != nil {
		return rwailerr.Wrap(rwailerr.ErrIO, "list watched files", err)
	}

	for _, p := range paths {
		canon, err := pathnorm.Canonicalize(p)
		if err != nil {
			continue
		}
		key := pathnorm.CanonicalKey(canon)

		if d.opts.Lines == 0 {
			st, err := tail.NewFromPath(p, d.out)
			if err != nil {
				continue
			}
			length, err := st.Length()
			if err != nil {
				st.Close()
				continue
			}
			if _, err := st.Reader.Seek(length, io.SeekStart); err != nil {
				st.Close()
				continue
			}
			d.fileMap[key] = st
			continue
		}

		d.emitBannerTransition(key, canon)

		st, err := tail.NewFromPath(p, d.out)
		if err != nil {
			return rwailerr.Wrap(rwailerr.ErrIO, fmt.Sprintf("open %s", p), err)
		}
		if err := st.Tail(d.opts.Lines); err != nil {
			return rwailerr.Wrap(rwailerr.ErrIO, fmt.Sprintf("tail %s", p), err)
		}
		d.fileMap[key] = st
	}
	return nil
}

// Run subscribes to the configured tree and drives the event loop until
// the source's event channel closes (a fatal condition per spec §5) or
// ctx-style cancellation isn't needed: the process exits via signal.
func (d *Dispatcher) Run() error {
	source, err := fsevents.New(d.opts.Path, d.opts.Recursive)
	if err != nil {
		return classifySourceErr(err)
	}
	d.source = source
	defer source.Close()

	for {
		select {
		case ev, ok := <-source.Events():
			if !ok {
				return fmt.Errorf("event source: event channel disconnected")
			}
			d.dispatch(ev)
			d.pendingDeleteSweep()
		case err, ok := <-source.Errors():
			if !ok {
				return fmt.Errorf("event source: error channel disconnected")
			}
			return classifySourceErr(err)
		case <-time.After(eventTimeout):
			d.pendingDeleteSweep()
		}
	}
}

// classifySourceErr maps a fatal event-source error onto spec §7's
// taxonomy: PathNotFound and WatchNotFound get their own exit codes;
// everything else (fsevents.ErrGeneric, or an error that isn't even a
// *fsevents.SourceError) falls through to the generic exit code.
func classifySourceErr(err error) error {
	var se *fsevents.SourceError
	if asSourceError(err, &se) {
		switch se.Kind {
		case fsevents.ErrPathNotFound:
			return rwailerr.Wrap(rwailerr.ErrPathNotFound, "watch source", se.Err)
		case fsevents.ErrWatchNotFound:
			return rwailerr.Wrap(rwailerr.ErrWatchNotFound, "watch source", se.Err)
		}
	}
	return fmt.Errorf("watch source: %w", err)
}

func asSourceError(err error, target **fsevents.SourceError) bool {
	se, ok := err.(*fsevents.SourceError)
	if ok {
		*target = se
	}
	return ok
}

// dispatch applies spec §4.6's platform-specific flag interpretation to a
// single event, then routes to the write/remove/rename handlers.
func (d *Dispatcher) dispatch(ev fsevents.Event) {
	path := pathnorm.StripLongPathPrefix(ev.Path)

	if runtime.GOOS == "darwin" {
		if ev.Op.Has(fsevents.Rename) && ev.Cookie != nil {
			d.handleRename(path, *ev.Cookie)
			return
		}
		if ev.Op.Has(fsevents.Remove) && !ev.Op.Has(fsevents.Rename) {
			d.handleRemove(path)
		}
		if ev.Op.Has(fsevents.Write) {
			d.handleWrite(path)
		}
		return
	}

	switch {
	case ev.Op.Has(fsevents.Write):
		d.handleWrite(path)
	case ev.Op.Has(fsevents.Remove):
		d.handleRemove(path)
	case ev.Op.Has(fsevents.Rename):
		if ev.Cookie != nil {
			d.handleRename(path, *ev.Cookie)
		}
	}
}

// handleWrite implements spec §4.6 handle_write.
func (d *Dispatcher) handleWrite(path string) {
	if !d.filter.Matches(path) {
		return
	}

	canon, err := pathnorm.Canonicalize(path)
	if err != nil {
		canon = path
	}
	key := pathnorm.CanonicalKey(canon)
	d.emitBannerTransition(key, canon)

	if st, ok := d.fileMap[key]; ok {
		offset, err := st.CurrentSeek()
		if err != nil {
			return
		}
		if _, err := st.HandleShrink(offset); err != nil {
			return
		}
		st.DumpToTail()
		return
	}

	if _, err := os.Stat(path); err != nil {
		return
	}

	handle := handlepool.NewHandle(d.pool, key)
	st := tail.NewFromReaderWithCloser(handle, d.out, func() error {
		d.pool.Drop(key)
		return nil
	})
	st.DumpToTail()
	d.fileMap[key] = st
}

// handleRemove implements spec §4.6 handle_remove.
func (d *Dispatcher) handleRemove(path string) {
	canon, err := pathnorm.Canonicalize(path)
	if err != nil {
		canon = path
	}
	key := pathnorm.CanonicalKey(canon)
	st, ok := d.fileMap[key]
	if !ok {
		return
	}
	delete(d.fileMap, key)
	d.unsubscribeSelectFile(key, st)
	st.Close()
}

// handleRename implements spec §4.6 handle_rename's symmetric cookie
// pairing: whichever half of the rename arrives first inserts a
// renamingMap entry (or tombstone); the second half consumes it.
func (d *Dispatcher) handleRename(path string, cookie uint32) {
	st, present := d.renamingMap[cookie]
	if present {
		delete(d.renamingMap, cookie)
		if st == nil {
			// Tombstone: the source half wasn't tailed. Nothing to do.
			return
		}
		// This is the target-in half.
		canon, err := pathnorm.Canonicalize(path)
		if err != nil {
			canon = path
		}
		key := pathnorm.CanonicalKey(canon)
		if d.filter.Matches(path) {
			d.fileMap[key] = st
		} else {
			// Released, not just forgotten: if st is pool-backed, Close
			// drops its slot too (see the closer installed in handleWrite).
			st.Close()
		}
		return
	}

	// This is the source-out half.
	canon, err := pathnorm.Canonicalize(path)
	if err != nil {
		canon = path
	}
	key := pathnorm.CanonicalKey(canon)
	if existing, ok := d.fileMap[key]; ok {
		delete(d.fileMap, key)
		d.unsubscribeSelectFile(key, existing)
		d.renamingMap[cookie] = existing
	} else {
		d.renamingMap[cookie] = nil
	}
}

// pendingDeleteSweep is a no-op off Windows; see sweep_windows.go.
func (d *Dispatcher) pendingDeleteSweep() {
	d.platformPendingDeleteSweep()
}
