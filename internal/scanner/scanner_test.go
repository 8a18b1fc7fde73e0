package scanner

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/MattiaPT/displayer/pkg/types"
)

func writeTree(t *testing.T, root string, names []string) {
	t.Helper()

	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("fake"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanner_IsCandidate(t *testing.T) {
	s := New(nil)

	cases := []struct {
		name     string
		expected bool
	}{
		{"photo.jpg", true},
		{"photo.JPG", true},
		{"photo.Jpeg", true},
		{"shot.png", true},
		{"clip.mp4", false},
		{"notes.txt", false},
		{"README", false},
		{"archive.jpg.gz", false},
	}

	for _, c := range cases {
		if got := s.IsCandidate(c.name); got != c.expected {
			t.Errorf("IsCandidate(%q): expected %v, got %v", c.name, c.expected, got)
		}
	}
}

func TestScanner_NewNormalizesConfiguredExtensions(t *testing.T) {
	s := New([]string{".heic", "tiff"})

	if !s.IsCandidate("a.HEIC") || !s.IsCandidate("b.tiff") {
		t.Fatal("expected configured extensions to match case-insensitively")
	}
	if s.IsCandidate("c.jpg") {
		t.Fatal("expected default extensions to be replaced by configured ones")
	}
}

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{
		"photo1.jpg",
		"photo2.JPEG",
		"video1.mp4",
		"document.pdf",
		"subdir/photo3.png",
		"subdir/deeper/still/photo4.JPG",
		"subdir/deeper/noext",
	})

	s := New(nil)
	entries, skipped, err := s.Scan(tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("expected no skip records, got %+v", skipped)
	}

	if len(entries) != 4 {
		t.Fatalf("expected 4 files, got %d", len(entries))
	}

	var names []string
	for _, e := range entries {
		if !filepath.IsAbs(e.Path) {
			t.Errorf("expected absolute path, got %s", e.Path)
		}
		names = append(names, e.Name)
	}
	sort.Strings(names)

	expected := []string{"photo1.jpg", "photo2.JPEG", "photo3.png", "photo4.JPG"}
	for i := range expected {
		if names[i] != expected[i] {
			t.Fatalf("unexpected names: %v", names)
		}
	}
}

func TestScanner_Scan_RelativeRootYieldsAbsolutePaths(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"a/b.jpg"})

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	entries, _, err := New(nil).Scan("a")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 1 || !filepath.IsAbs(entries[0].Path) {
		t.Fatalf("expected one absolute entry, got %+v", entries)
	}
}

func TestScanner_Scan_SkipsUnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"ok/a.jpg", "locked/b.jpg"})

	locked := filepath.Join(tmpDir, "locked")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	entries, skipped, err := New(nil).Scan(tmpDir)
	if err != nil {
		t.Fatalf("walk must not abort on an unreadable subdirectory: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "a.jpg" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if len(skipped) != 1 || skipped[0].Kind != types.FailureDirectoryUnreadable {
		t.Fatalf("expected one directory warning, got %+v", skipped)
	}
}

func TestScanner_Scan_MissingRootFails(t *testing.T) {
	_, _, err := New(nil).Scan(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestScanner_Scan_FollowsSymlinkedRoot(t *testing.T) {
	// A root that is itself a link is walked; links below it are not.
	tmpDir := t.TempDir()
	realDir := filepath.Join(tmpDir, "real")
	other := filepath.Join(tmpDir, "other")
	writeTree(t, realDir, []string{"photo1.jpg", "subdir/photo2.png"})
	writeTree(t, other, []string{"linked.jpg"})

	link := filepath.Join(tmpDir, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink(other, filepath.Join(realDir, "nested")); err != nil {
		t.Fatal(err)
	}

	entries, skipped, err := New(nil).Scan(link)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("expected no skip records, got %+v", skipped)
	}

	var names []string
	for _, e := range entries {
		if !filepath.IsAbs(e.Path) {
			t.Errorf("expected absolute path, got %s", e.Path)
		}
		names = append(names, e.Name)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "photo1.jpg" || names[1] != "photo2.png" {
		t.Fatalf("expected photo1.jpg and photo2.png, got %v", names)
	}
}

func TestCheckRoot(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.jpg")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := CheckRoot(tmpDir); err != nil {
		t.Fatalf("expected readable root, got %v", err)
	}
	if err := CheckRoot(file); err == nil {
		t.Fatal("expected error for a file root")
	}
	if err := CheckRoot(filepath.Join(tmpDir, "missing")); err == nil {
		t.Fatal("expected error for a missing root")
	}
}
