package pathfilter

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// bannerArrowStyle, pathStyle and matchStyle mirror the original
// implementation's layering:
// unmatched path runs are blue-bold, and the regex-matched span is
// green-bold so it "pops" against the surrounding blue.
var (
	bannerArrowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	pathStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	matchStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
)

// PrintBanner writes "==> path <==\n" to w, with optional coloring: when
// colorize is true, "==> "/" <==" and the unmatched path runs are
// blue-bold and any substring of path matching f's regex is green-bold
// (spec §4.6).
func (f *Filter) PrintBanner(w io.Writer, path string, colorize bool) {
	if !colorize {
		fmt.Fprintf(w, "==> %s <==\n", path)
		return
	}
	fmt.Fprint(w, bannerArrowStyle.Render("==> "))
	f.printPathWithColor(w, path)
	fmt.Fprint(w, bannerArrowStyle.Render(" <=="))
	fmt.Fprint(w, "\n")
}

// printPathWithColor renders path with every regex match highlighted in
// green-bold against the blue-bold unmatched runs, matching the original
// implementation's print_path_with_color layering.
func (f *Filter) printPathWithColor(w io.Writer, path string) {
	matches := f.regex.FindAllStringIndex(path, -1)
	prevEnd := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > prevEnd {
			fmt.Fprint(w, pathStyle.Render(path[prevEnd:start]))
		}
		fmt.Fprint(w, matchStyle.Render(path[start:end]))
		prevEnd = end
	}
	if prevEnd < len(path) {
		fmt.Fprint(w, pathStyle.Render(path[prevEnd:]))
	}
}
