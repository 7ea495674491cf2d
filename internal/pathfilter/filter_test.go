package pathfilter

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFilter_Matches(t *testing.T) {
	f, err := New(`\.log$`, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !f.Matches("/var/log/app.log") {
		t.Error("expected match")
	}
	if f.Matches("/var/log/app.txt") {
		t.Error("expected no match")
	}
}

func TestFilter_DefaultPatternMatchesEverything(t *testing.T) {
	f, err := New("", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !f.Matches("anything") {
		t.Error("expected default pattern to match")
	}
}

func TestFilter_FilteredFiles_NonRecursive(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.log"), "a")
	mustWrite(t, filepath.Join(dir, "b.log"), "b")
	sub := filepath.Join(dir, "sub")
	os.Mkdir(sub, 0755)
	mustWrite(t, filepath.Join(sub, "c.log"), "c")

	f, err := New("", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := f.FilteredFiles(dir, false, 0)
	if err != nil {
		t.Fatalf("FilteredFiles: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %v, want 2 entries (a.log, b.log)", got)
	}
}

func TestFilter_FilteredFiles_Recursive(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.log"), "a")
	sub := filepath.Join(dir, "sub")
	os.Mkdir(sub, 0755)
	mustWrite(t, filepath.Join(sub, "b.log"), "b")

	f, err := New("", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := f.FilteredFiles(dir, true, 0)
	if err != nil {
		t.Fatalf("FilteredFiles: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %v, want 2 entries", got)
	}
}

func TestFilter_FilteredFiles_SkipsBinaryByDefault(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "text.log"), "hello\n")
	mustWriteBytes(t, filepath.Join(dir, "bin.log"), []byte{0x00, 0x01, 0x02})

	f, err := New("", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := f.FilteredFiles(dir, false, 0)
	if err != nil {
		t.Fatalf("FilteredFiles: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "text.log" {
		t.Errorf("got %v, want only text.log", got)
	}
}

func TestFilter_FilteredFiles_ShowBinary(t *testing.T) {
	dir := t.TempDir()
	mustWriteBytes(t, filepath.Join(dir, "bin.log"), []byte{0x00, 0x01, 0x02})

	f, err := New("", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := f.FilteredFiles(dir, false, 0)
	if err != nil {
		t.Fatalf("FilteredFiles: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %v, want bin.log included", got)
	}
}

func TestIsText(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "a.txt")
	binPath := filepath.Join(dir, "b.bin")
	mustWrite(t, textPath, "hello world\n")
	mustWriteBytes(t, binPath, []byte{'a', 0x00, 'b'})

	if !IsText(textPath) {
		t.Error("expected text file to be classified as text")
	}
	if IsText(binPath) {
		t.Error("expected NUL-containing file to be classified as binary")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

func mustWriteBytes(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}
