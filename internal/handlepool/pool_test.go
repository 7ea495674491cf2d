package handlepool

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestPool_AcquireReturnsSharedSlot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	pool := New(2)
	s1, err := pool.Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	s2, err := pool.Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if s1 != s2 {
		t.Error("expected the same shared Slot on repeated Acquire")
	}
}

func TestPool_EvictsAtCapacity(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 3; i++ {
		p := filepath.Join(dir, string(rune('a'+i))+".log")
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		paths = append(paths, p)
	}

	pool := New(2)
	for _, p := range paths {
		if _, err := pool.Acquire(p); err != nil {
			t.Fatalf("Acquire(%s): %v", p, err)
		}
	}

	if got := pool.Len(); got > 2 {
		t.Errorf("pool.Len() = %d, want <= 2", got)
	}
}

func TestPool_DropClosesHandle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	pool := New(2)
	slot, err := pool.Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	pool.Drop(path)

	// The underlying file should now be closed; reading from it must fail.
	buf := make([]byte, 1)
	if _, err := slot.File().Read(buf); err == nil {
		t.Error("expected read on closed handle to fail")
	}
}

func TestHandle_ReadTracksLogicalOffset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	if err := os.WriteFile(path, []byte("0123456789"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	pool := New(4)
	h1 := NewHandle(pool, path)
	h2 := NewHandle(pool, path)

	buf := make([]byte, 3)
	if _, err := h1.Read(buf); err != nil {
		t.Fatalf("h1.Read: %v", err)
	}
	if string(buf) != "012" {
		t.Errorf("h1 got %q", buf)
	}

	if _, err := h2.Read(buf); err != nil {
		t.Fatalf("h2.Read: %v", err)
	}
	if string(buf) != "012" {
		t.Errorf("h2 got %q, want independent offset starting at 0", buf)
	}

	if _, err := h1.Read(buf); err != nil {
		t.Fatalf("h1.Read #2: %v", err)
	}
	if string(buf) != "345" {
		t.Errorf("h1 second read got %q, want %q", buf, "345")
	}
}

func TestHandle_LengthAndSeek(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	if err := os.WriteFile(path, []byte("0123456789"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	pool := New(4)
	h := NewHandle(pool, path)

	length, err := h.Length()
	if err != nil {
		t.Fatalf("Length: %v", err)
	}
	if length != 10 {
		t.Errorf("Length() = %d, want 10", length)
	}

	pos, err := h.Seek(5, io.SeekStart)
	if err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if pos != 5 {
		t.Errorf("Seek returned %d, want 5", pos)
	}

	off, err := h.CurrentOffset()
	if err != nil {
		t.Fatalf("CurrentOffset: %v", err)
	}
	if off != 5 {
		t.Errorf("CurrentOffset() = %d, want 5", off)
	}
}
