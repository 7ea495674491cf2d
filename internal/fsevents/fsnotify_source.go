package fsevents

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FsnotifySource is the default, cross-platform Source, grounded in the
// teacher's internal/watcher (which opened its own os.Stat poll loop) but
// replacing that poll with fsnotify's native OS backend (inotify, FSEvents,
// ReadDirectoryChangesW) — promoting fsnotify from an unused indirect
// teacher dependency to the watcher's actual transport.
//
// fsnotify has no recursive-watch mode, so recursive trees are handled by
// adding every subdirectory individually at construction time and again
// whenever a CREATE event reports a new directory.
type FsnotifySource struct {
	watcher   *fsnotify.Watcher
	recursive bool
	events    chan Event
	errs      chan error
	done      chan struct{}
}

// NewFsnotifySource starts watching root (and, if recursive, every
// subdirectory beneath it) for filesystem events.
func NewFsnotifySource(root string, recursive bool) (*FsnotifySource, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsevents: create watcher: %w", err)
	}

	s := &FsnotifySource{
		watcher:   w,
		recursive: recursive,
		events:    make(chan Event, 64),
		errs:      make(chan error, 4),
		done:      make(chan struct{}),
	}

	if err := s.addTree(root); err != nil {
		w.Close()
		return nil, err
	}

	go s.run()
	return s, nil
}

func (s *FsnotifySource) addTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &SourceError{Kind: ErrPathNotFound, Err: err}
	}
	if !info.IsDir() {
		return s.watcher.Add(root)
	}
	if err := s.watcher.Add(root); err != nil {
		return fmt.Errorf("fsevents: watch %s: %w", root, err)
	}
	if !s.recursive {
		return nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("fsevents: read %s: %w", root, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := s.addTree(filepath.Join(root, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *FsnotifySource) run() {
	defer close(s.events)
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			translated := translateOp(ev.Op)
			if translated == 0 {
				continue
			}
			if s.recursive && translated.Has(Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					s.addTree(ev.Name)
				}
			}
			select {
			case s.events <- Event{Path: ev.Name, Op: translated}:
			case <-s.done:
				return
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			select {
			case s.errs <- err:
			case <-s.done:
				return
			}
		case <-s.done:
			return
		}
	}
}

// translateOp maps fsnotify's bitset onto the package's own Op bitset. No
// RENAME cookie is available here: fsnotify reports the two halves of a
// rename as independent RENAME/CREATE events with no shared identifier,
// which is why this source always leaves Event.Cookie nil (spec §3's
// cookie field is populated only by a platform-specific raw source).
func translateOp(op fsnotify.Op) Op {
	var out Op
	if op&fsnotify.Write != 0 {
		out |= Write
	}
	if op&fsnotify.Create != 0 {
		out |= Create
	}
	if op&fsnotify.Remove != 0 {
		out |= Remove
	}
	if op&fsnotify.Rename != 0 {
		out |= Rename
	}
	return out
}

func (s *FsnotifySource) Events() <-chan Event { return s.events }
func (s *FsnotifySource) Errors() <-chan error { return s.errs }

func (s *FsnotifySource) Close() error {
	close(s.done)
	return s.watcher.Close()
}
