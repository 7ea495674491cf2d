//go:build linux

package fsevents

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// inotifyEventSize is the fixed-size prefix of struct inotify_event:
// int32 wd, uint32 mask, uint32 cookie, uint32 len, followed by a
// variable-length, NUL-padded name.
const inotifyEventSize = 16

// InotifySource is a Linux-specific raw inotify+epoll Source that, unlike
// FsnotifySource, surfaces the kernel's IN_MOVED_FROM/IN_MOVED_TO rename
// cookie (spec §3 "RenameCookie", needed to pair the two halves of a
// rename in internal/watchdir's RenamingMap). Grounded in gogrep's
// internal/watch.Watcher, which already parses this same header layout
// (it just discards the cookie field; this source keeps it).
type InotifySource struct {
	inotifyFd int
	epollFd   int
	watches   map[int32]string
	recursive bool
	events    chan Event
	errs      chan error
	done      chan struct{}
}

// NewInotifySource starts watching root (and, if recursive, every
// subdirectory beneath it).
func NewInotifySource(root string, recursive bool) (*InotifySource, error) {
	ifd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("fsevents: inotify_init1: %w", err)
	}
	efd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		unix.Close(ifd)
		return nil, fmt.Errorf("fsevents: epoll_create1: %w", err)
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(ifd)}
	if err := unix.EpollCtl(efd, unix.EPOLL_CTL_ADD, ifd, &ev); err != nil {
		unix.Close(efd)
		unix.Close(ifd)
		return nil, fmt.Errorf("fsevents: epoll_ctl: %w", err)
	}

	s := &InotifySource{
		inotifyFd: ifd,
		epollFd:   efd,
		watches:   make(map[int32]string),
		recursive: recursive,
		events:    make(chan Event, 64),
		errs:      make(chan error, 4),
		done:      make(chan struct{}),
	}

	if err := s.addTree(root); err != nil {
		s.Close()
		return nil, err
	}

	go s.run()
	return s, nil
}

const watchMask = unix.IN_MODIFY | unix.IN_CREATE | unix.IN_DELETE |
	unix.IN_MOVED_FROM | unix.IN_MOVED_TO | unix.IN_MOVE_SELF | unix.IN_DELETE_SELF

func (s *InotifySource) addWatch(path string) error {
	wd, err := unix.InotifyAddWatch(s.inotifyFd, path, watchMask)
	if err != nil {
		return &SourceError{Kind: ErrPathNotFound, Err: fmt.Errorf("fsevents: inotify_add_watch %s: %w", path, err)}
	}
	s.watches[int32(wd)] = path
	return nil
}

func (s *InotifySource) addTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &SourceError{Kind: ErrPathNotFound, Err: err}
	}
	if err := s.addWatch(root); err != nil {
		return err
	}
	if !info.IsDir() || !s.recursive {
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

func (s *InotifySource) run() {
	defer close(s.events)
	buf := make([]byte, 64*1024)
	epollEvents := make([]unix.EpollEvent, 1)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		n, err := unix.EpollWait(s.epollFd, epollEvents, 200)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			s.sendErr(fmt.Errorf("fsevents: epoll_wait: %w", err))
			return
		}
		if n == 0 {
			continue
		}

		nbytes, err := unix.Read(s.inotifyFd, buf)
		if err != nil {
			if err == unix.EAGAIN {
				continue
			}
			s.sendErr(fmt.Errorf("fsevents: read inotify: %w", err))
			return
		}

		if !s.parseAndDispatch(buf[:nbytes]) {
			return
		}
	}
}

func (s *InotifySource) sendErr(err error) {
	select {
	case s.errs <- err:
	case <-s.done:
	}
}

// parseAndDispatch decodes one or more inotify_event records from raw and
// sends translated Events. Returns false if the source was told to stop
// mid-dispatch.
func (s *InotifySource) parseAndDispatch(raw []byte) bool {
	offset := 0
	for offset+inotifyEventSize <= len(raw) {
		wd := int32(binary.LittleEndian.Uint32(raw[offset:]))
		mask := binary.LittleEndian.Uint32(raw[offset+4:])
		cookie := binary.LittleEndian.Uint32(raw[offset+8:])
		nameLen := int(binary.LittleEndian.Uint32(raw[offset+12:]))

		var name string
		if nameLen > 0 {
			start := offset + inotifyEventSize
			end := start + nameLen
			if end > len(raw) {
				break
			}
			nameBytes := raw[start:end]
			for i, b := range nameBytes {
				if b == 0 {
					nameBytes = nameBytes[:i]
					break
				}
			}
			name = string(nameBytes)
		}
		offset += inotifyEventSize + nameLen

		dirPath, known := s.watches[wd]
		if !known {
			continue
		}
		path := dirPath
		if name != "" {
			path = filepath.Join(dirPath, name)
		}

		op := translateInotifyMask(mask)
		if op == 0 {
			continue
		}
		if s.recursive && op.Has(Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				s.addTree(path)
			}
		}

		var cookiePtr *uint32
		if mask&(unix.IN_MOVED_FROM|unix.IN_MOVED_TO) != 0 && cookie != 0 {
			c := cookie
			cookiePtr = &c
		}

		select {
		case s.events <- Event{Path: path, Op: op, Cookie: cookiePtr}:
		case <-s.done:
			return false
		}
	}
	return true
}

func translateInotifyMask(mask uint32) Op {
	var out Op
	switch {
	case mask&unix.IN_MODIFY != 0:
		out |= Write
	case mask&unix.IN_CREATE != 0:
		out |= Create
	case mask&unix.IN_DELETE != 0 || mask&unix.IN_DELETE_SELF != 0:
		out |= Remove
	case mask&(unix.IN_MOVED_FROM|unix.IN_MOVED_TO|unix.IN_MOVE_SELF) != 0:
		out |= Rename
	}
	return out
}

func (s *InotifySource) Events() <-chan Event { return s.events }
func (s *InotifySource) Errors() <-chan error { return s.errs }

func (s *InotifySource) Close() error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	unix.Close(s.epollFd)
	return unix.Close(s.inotifyFd)
}
