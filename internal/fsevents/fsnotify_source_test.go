package fsevents

import (
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestTranslateOp(t *testing.T) {
	cases := []struct {
		in   fsnotify.Op
		want Op
	}{
		{fsnotify.Write, Write},
		{fsnotify.Create, Create},
		{fsnotify.Remove, Remove},
		{fsnotify.Rename, Rename},
		{fsnotify.Write | fsnotify.Chmod, Write},
		{fsnotify.Chmod, 0},
	}
	for _, c := range cases {
		if got := translateOp(c.in); got != c.want {
			t.Errorf("translateOp(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNewFsnotifySource_NonexistentPathFails(t *testing.T) {
	_, err := NewFsnotifySource("/this/path/does/not/exist/ever", false)
	if err == nil {
		t.Fatal("expected error for nonexistent path")
	}
}
