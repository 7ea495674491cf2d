//go:build !windows

package watchdir

// platformPendingDeleteSweep is a no-op outside Windows: only
// ReadDirectoryChangesW's delete semantics produce the lingering
// permission-denied-on-open state this sweep exists to unstick (spec §4.6,
// §7 "Platform quirks").
func (d *Dispatcher) platformPendingDeleteSweep() {}
