//go:build !linux

package fsevents

// New opens the best available Source for root. Outside Linux this is
// always the fsnotify-backed source, whose Events never carry a rename
// cookie (spec §3's documented macOS/Windows limitation).
func New(root string, recursive bool) (Source, error) {
	return NewFsnotifySource(root, recursive)
}
