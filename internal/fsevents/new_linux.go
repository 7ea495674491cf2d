//go:build linux

package fsevents

// New opens the best available Source for root: raw inotify on Linux,
// which is the only platform where the kernel hands back a usable rename
// cookie.
func New(root string, recursive bool) (Source, error) {
	return NewInotifySource(root, recursive)
}
