// Package handlepool implements the bounded file-handle LRU pool (spec
// §4.5): a canonical-path keyed mapping to a shared open file handle,
// capped at 512 concurrently open handles regardless of how many paths
// are being tailed.
package handlepool

import (
	"io"
	"os"
	"weak"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dottail/rwail/internal/filesystem"
)

// Capacity is the maximum number of open file handles the pool holds at
// once (spec §3 "LRU pool").
const Capacity = 512

// opener is platform-selected: on Windows it opens with
// FILE_SHARE_READ|FILE_SHARE_WRITE|FILE_SHARE_DELETE so a file another
// process still has open (or is about to delete) can still be tailed;
// elsewhere it's a thin os.Open wrapper.
var opener = filesystem.NewFileOpener()

// Slot is a shared open handle held by the pool. Multiple logical readers
// (Handle values) may observe the same Slot; each tracks its own logical
// offset and re-seeks before every read, so aliasing is safe as long as
// access is single-threaded, which the directory watcher's event loop
// guarantees (spec §5).
type Slot struct {
	path string
	file filesystem.ReadSeekCloser
}

// File exposes the underlying handle for reads/seeks.
func (s *Slot) File() filesystem.ReadSeekCloser { return s.file }

func (s *Slot) close() error { return s.file.Close() }

// Pool is the bounded LRU pool of open file handles.
type Pool struct {
	cache *lru.Cache[string, *Slot]
}

// New creates a Pool with the given capacity. Evicted slots have their
// underlying file handle closed via the cache's eviction callback.
func New(capacity int) *Pool {
	cache, err := lru.NewWithEvict(capacity, func(_ string, slot *Slot) {
		slot.close()
	})
	if err != nil {
		// Only returned for capacity <= 0, which callers never pass.
		panic(err)
	}
	return &Pool{cache: cache}
}

// Acquire looks up path in the pool; on a hit it promotes the entry to
// most-recently-used and returns the shared Slot. On a miss it opens a new
// read-only handle, inserts it (evicting the LRU entry if at capacity),
// and returns it.
func (p *Pool) Acquire(path string) (*Slot, error) {
	if slot, ok := p.cache.Get(path); ok {
		return slot, nil
	}
	f, err := opener.Open(path)
	if err != nil {
		return nil, err
	}
	slot := &Slot{path: path, file: f}
	p.cache.Add(path, slot)
	return slot, nil
}

// Drop removes path from the pool if present. Removal runs the eviction
// callback, so the underlying handle is closed immediately, even if a
// Handle still references the Slot.
func (p *Pool) Drop(path string) {
	p.cache.Remove(path)
}

// Len reports the current number of pooled handles.
func (p *Pool) Len() int { return p.cache.Len() }

// Handle is a logical reader backed by a pooled Slot. It caches a weak
// reference to its slot as a fast path: when the weak pointer still
// resolves, Handle skips the pool lookup entirely; on a miss (the slot was
// evicted and collected, or this is the first access) it falls back to
// Pool.Acquire, which may reopen the file.
//
// A Handle's stored offset is authoritative: Read re-seeks the underlying
// file to that offset before every read, since the Slot may be shared with
// other Handles for the same canonical path.
type Handle struct {
	pool   *Pool
	path   string
	weak   weak.Pointer[Slot]
	offset int64
}

// NewHandle creates a logical reader bound to path, backed by pool.
func NewHandle(pool *Pool, path string) *Handle {
	return &Handle{pool: pool, path: path}
}

// slot resolves the backing Slot, using the weak-reference fast path
// before falling back to the pool.
func (h *Handle) slot() (*Slot, error) {
	if s := h.weak.Value(); s != nil {
		return s, nil
	}
	s, err := h.pool.Acquire(h.path)
	if err != nil {
		return nil, err
	}
	h.weak = weak.Make(s)
	return s, nil
}

// Read implements io.Reader by re-seeking the shared handle to this
// Handle's logical offset before reading, then advancing that offset by
// the bytes returned.
func (h *Handle) Read(p []byte) (int, error) {
	s, err := h.slot()
	if err != nil {
		return 0, err
	}
	if _, err := s.file.Seek(h.offset, 0); err != nil {
		return 0, err
	}
	n, err := s.file.Read(p)
	h.offset += int64(n)
	return n, err
}

// Seek implements io.Seeker against this Handle's logical offset.
func (h *Handle) Seek(offset int64, whence int) (int64, error) {
	s, err := h.slot()
	if err != nil {
		return 0, err
	}
	if whence == io.SeekCurrent {
		offset, whence = h.offset+offset, io.SeekStart
	}
	pos, err := s.file.Seek(offset, whence)
	if err != nil {
		return 0, err
	}
	h.offset = pos
	return pos, nil
}

// CurrentOffset returns the logical offset without touching the file.
func (h *Handle) CurrentOffset() (int64, error) {
	return h.offset, nil
}

// Length returns the underlying file's current length. It stats by path
// rather than through the Slot's handle, since the Windows share-mode
// opener's ReadSeekCloser doesn't expose Stat.
func (h *Handle) Length() (int64, error) {
	info, err := os.Stat(h.path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
