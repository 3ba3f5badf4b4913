package diff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadWorkdirFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "f.txt"), []byte("hello\n"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	side := &FileSide{Path: "f.txt", Size: 6, Mode: ModeFile}
	c, err := loadWorkdir(dir, side)
	if err != nil {
		t.Fatalf("loadWorkdir: %v", err)
	}
	if string(c.data) != "hello\n" {
		t.Errorf("data = %q", c.data)
	}

	c.release()
	if c.data != nil || c.kind != contentUnloaded {
		t.Error("release must clear the buffer and ownership tag")
	}
	c.release() // second release is a no-op
}

func TestLoadWorkdirEmptyFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "empty"), nil, 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	side := &FileSide{Path: "empty", Mode: ModeFile}
	c, err := loadWorkdir(dir, side)
	if err != nil {
		t.Fatalf("loadWorkdir: %v", err)
	}
	defer c.release()
	if len(c.data) != 0 {
		t.Errorf("data = %q, want empty", c.data)
	}
}

func TestLoadWorkdirSymlink(t *testing.T) {
	dir := t.TempDir()
	target := "some/target/path"
	if err := os.Symlink(target, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	side := &FileSide{Path: "link", Size: int64(len(target)), Mode: ModeSymlink}
	c, err := loadWorkdir(dir, side)
	if err != nil {
		t.Fatalf("loadWorkdir: %v", err)
	}
	defer c.release()

	if string(c.data) != target {
		t.Errorf("data = %q, want %q", c.data, target)
	}
	if c.kind != contentHeap {
		t.Errorf("kind = %v, want heap", c.kind)
	}
}

func TestLoadWorkdirSymlinkSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	if err := os.Symlink("target", filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	side := &FileSide{Path: "link", Size: 99, Mode: ModeSymlink}
	_, err := loadWorkdir(dir, side)
	if err == nil {
		t.Fatal("expected a size mismatch error")
	}
	if !strings.Contains(err.Error(), "link") {
		t.Errorf("error should name the path: %v", err)
	}
}

func TestReleaseWithoutAcquisition(t *testing.T) {
	var c content
	c.release()
	c.release()
	if c.kind != contentUnloaded {
		t.Error("release of unloaded content must stay unloaded")
	}
}

func TestLoadBlobAbsentOid(t *testing.T) {
	// No store configured: an absent oid must still load as empty.
	d := New(nil, Options{})
	c, err := d.loadBlob(&FileSide{Path: "f"})
	if err != nil {
		t.Fatalf("loadBlob: %v", err)
	}
	if len(c.data) != 0 {
		t.Errorf("data = %q, want empty", c.data)
	}
}
