package watchdir

import (
	"fmt"

	"github.com/dottail/rwail/internal/pathnorm"
)

// emitBannerTransition implements spec §4.6's change_selected_file: when
// key differs from the currently selected file, print a separator (a
// trailing newline if the previous file didn't end on one, plus a blank
// line) followed by the banner for canon — unless no file is selected
// (the very first banner of the program, or the first one after
// unsubscribeSelectFile already printed the separator), in which case the
// banner prints with no leading blank line.
//
// key is the case-folded FileMap/selection key (pathnorm.CanonicalKey);
// canon is the unfolded canonical path used for display, so a banner keeps
// the on-disk casing even on a case-insensitive filesystem.
func (d *Dispatcher) emitBannerTransition(key, canon string) {
	if key == d.selectedFile && d.firstBannerSeen {
		return
	}

	if d.selectedFile != "" {
		if prev, ok := d.fileMap[d.selectedFile]; ok && !prev.PrintedEOL() {
			fmt.Fprint(d.out, "\n")
		}
		fmt.Fprint(d.out, "\n")
	}

	display := pathnorm.DisplayPath(canon, d.currentDir)
	d.filter.PrintBanner(d.out, display, d.opts.Colorize)

	d.selectedFile = key
	d.firstBannerSeen = true
}

// unsubscribeSelectFile implements spec §4.6's unsubscribe_select_file:
// when the removed file's key was the selected file, flush a trailing
// newline (unless already printedEOL) and a blank separator line, then
// clear the selection so the next banner prints without a second
// separator.
func (d *Dispatcher) unsubscribeSelectFile(key string, st interface{ PrintedEOL() bool }) {
	if key != d.selectedFile {
		return
	}
	if !st.PrintedEOL() {
		fmt.Fprint(d.out, "\n")
	}
	fmt.Fprint(d.out, "\n")
	d.selectedFile = ""
}
