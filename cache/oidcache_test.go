package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"diffkit/diff"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func statFile(t *testing.T, path string) os.FileInfo {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	return info
}

func TestGetOrComputeCachesResult(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	path := writeTestFile(t, dir, "file.txt", "contents\n")

	computes := 0
	compute := func() (diff.Oid, error) {
		computes++
		return "abc123", nil
	}

	oid, err := c.GetOrCompute(path, statFile(t, path), compute)
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	if oid != "abc123" {
		t.Errorf("oid = %s, want abc123", oid)
	}

	oid, err = c.GetOrCompute(path, statFile(t, path), compute)
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if oid != "abc123" {
		t.Errorf("cached oid = %s, want abc123", oid)
	}
	if computes != 1 {
		t.Errorf("compute ran %d times, want 1", computes)
	}
}

func TestGetOrComputeRecomputesStaleEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	path := writeTestFile(t, dir, "file.txt", "v1\n")

	computes := 0
	oids := []diff.Oid{"oid-v1", "oid-v2"}
	compute := func() (diff.Oid, error) {
		oid := oids[computes]
		computes++
		return oid, nil
	}

	if _, err := c.GetOrCompute(path, statFile(t, path), compute); err != nil {
		t.Fatalf("first lookup: %v", err)
	}

	// Change both size and mtime so the cached entry is invalid.
	writeTestFile(t, dir, "file.txt", "version two\n")
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	oid, err := c.GetOrCompute(path, statFile(t, path), compute)
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if oid != "oid-v2" {
		t.Errorf("oid after change = %s, want oid-v2", oid)
	}
	if computes != 2 {
		t.Errorf("compute ran %d times, want 2", computes)
	}
}

func TestGetOrComputePersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "file.txt", "stable\n")

	c, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := c.GetOrCompute(path, statFile(t, path), func() (diff.Oid, error) {
		return "persisted", nil
	}); err != nil {
		t.Fatalf("seed lookup: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	c, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()

	oid, err := c.GetOrCompute(path, statFile(t, path), func() (diff.Oid, error) {
		t.Fatal("compute should not run for a persisted entry")
		return "", nil
	})
	if err != nil {
		t.Fatalf("lookup after reopen: %v", err)
	}
	if oid != "persisted" {
		t.Errorf("oid = %s, want persisted", oid)
	}
}
