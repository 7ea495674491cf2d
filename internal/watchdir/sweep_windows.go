//go:build windows

package watchdir

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

// platformPendingDeleteSweep implements spec §4.6/§7's Windows-only
// quirk: ReadDirectoryChangesW can report a delete before the OS has
// actually released the handle, which shows up as a permission-denied
// open on the path that's really a pending delete. For every currently
// tailed path, attempt to open it; on permission-denied, drop it from
// the LRU pool and file map (and clear the selection if it was current)
// so the OS can finish the delete.
func (d *Dispatcher) platformPendingDeleteSweep() {
	for key, st := range d.fileMap {
		if !isPendingDelete(key) {
			continue
		}
		delete(d.fileMap, key)
		d.unsubscribeSelectFile(key, st)
		// Close releases the pool slot too when st is pool-backed (see the
		// closer installed in handleWrite).
		st.Close()
	}
}

func isPendingDelete(path string) bool {
	f, err := os.Open(path)
	if err == nil {
		f.Close()
		return false
	}
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION) || errors.Is(err, os.ErrPermission)
}
