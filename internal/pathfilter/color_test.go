package pathfilter

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintBanner_Uncolored(t *testing.T) {
	f, err := New("file", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	f.PrintBanner(&buf, "file1.log", false)
	if buf.String() != "==> file1.log <==\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestPrintBanner_ColoredContainsPlainText(t *testing.T) {
	f, err := New("file", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	f.PrintBanner(&buf, "file1.log", true)

	// lipgloss emits ANSI escapes when colorizing, but the plain text must
	// still be present somewhere in the output.
	got := buf.String()
	if !strings.Contains(got, "file1.log") {
		t.Errorf("expected banner to contain path text, got %q", got)
	}
	if !strings.Contains(got, "==>") || !strings.Contains(got, "<==") {
		t.Errorf("expected banner arrows, got %q", got)
	}
}
