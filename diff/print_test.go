package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

type printRec struct {
	origins []Origin
	texts   []string
}

func (r *printRec) cb(origin Origin, text string) error {
	r.origins = append(r.origins, origin)
	r.texts = append(r.texts, text)
	return nil
}

func (r *printRec) output() string {
	return strings.Join(r.texts, "")
}

func TestCompactRename(t *testing.T) {
	store := newFakeStore()
	oid := store.add([]byte("same\n"))
	delta := &Delta{
		Status: Renamed,
		Old:    FileSide{Path: "old/path", Oid: oid, Mode: ModeFile},
		New:    FileSide{Path: "new/path", Oid: oid, Mode: ModeFile},
	}

	rec := &printRec{}
	d := New(store, Options{})
	if err := d.PrintCompact(storeList(delta), rec.cb); err != nil {
		t.Fatalf("print: %v", err)
	}

	want := "R\told/path -> new/path\n"
	if rec.output() != want {
		t.Errorf("output = %q, want %q", rec.output(), want)
	}
}

func TestCompactModeChange(t *testing.T) {
	store := newFakeStore()
	delta := &Delta{
		Status: Modified,
		Old:    FileSide{Path: "path", Oid: store.add([]byte("a\n")), Mode: ModeFile},
		New:    FileSide{Path: "path", Oid: store.add([]byte("b\n")), Mode: ModeExec},
	}

	rec := &printRec{}
	d := New(store, Options{})
	if err := d.PrintCompact(storeList(delta), rec.cb); err != nil {
		t.Fatalf("print: %v", err)
	}

	want := "M\tpath* (100644 -> 100755)\n"
	if rec.output() != want {
		t.Errorf("output = %q, want %q", rec.output(), want)
	}
}

func TestCompactUnknownStatusSkipped(t *testing.T) {
	store := newFakeStore()
	delta := &Delta{
		Status: Status(42),
		Old:    FileSide{Path: "f", Oid: store.add([]byte("a\n")), Mode: ModeFile},
		New:    FileSide{Path: "f", Oid: store.add([]byte("b\n")), Mode: ModeFile},
	}

	rec := &printRec{}
	d := New(store, Options{})
	if err := d.PrintCompact(storeList(delta), rec.cb); err != nil {
		t.Fatalf("print: %v", err)
	}
	if len(rec.texts) != 0 {
		t.Errorf("unexpected output for unknown status: %q", rec.texts)
	}
}

func TestPatchModify(t *testing.T) {
	store := newFakeStore()
	oldData := []byte("hello\nworld\n")
	newData := []byte("hello\nthere\n")
	delta := storeDelta(store, "greet.txt", oldData, newData)

	rec := &printRec{}
	d := New(store, Options{})
	if err := d.PrintPatch(storeList(delta), rec.cb); err != nil {
		t.Fatalf("print: %v", err)
	}

	want := fmt.Sprintf(
		"diff --git a/greet.txt b/greet.txt\n"+
			"index %s..%s 100644\n"+
			"--- a/greet.txt\n"+
			"+++ b/greet.txt\n"+
			"@@ -1,2 +1,2 @@\n"+
			" hello\n"+
			"-world\n"+
			"+there\n",
		store.HashOf(oldData).Abbrev(7), store.HashOf(newData).Abbrev(7))
	if rec.output() != want {
		t.Errorf("output = %q, want %q", rec.output(), want)
	}

	wantOrigins := []Origin{OriginFileHeader, OriginHunkHeader, OriginContext, OriginDeletion, OriginAddition}
	if len(rec.origins) != len(wantOrigins) {
		t.Fatalf("origins = %v, want %v", rec.origins, wantOrigins)
	}
	for i := range wantOrigins {
		if rec.origins[i] != wantOrigins[i] {
			t.Errorf("origin %d = %q, want %q", i, rec.origins[i], wantOrigins[i])
		}
	}
}

func TestPatchReverse(t *testing.T) {
	store := newFakeStore()
	oldData := []byte("hello\nworld\n")
	newData := []byte("hello\nthere\n")
	delta := storeDelta(store, "greet.txt", oldData, newData)

	forward := &printRec{}
	if err := New(store, Options{}).PrintPatch(storeList(delta), forward.cb); err != nil {
		t.Fatalf("forward print: %v", err)
	}

	reversed := &printRec{}
	if err := New(store, Options{Reverse: true}).PrintPatch(storeList(delta), reversed.cb); err != nil {
		t.Fatalf("reversed print: %v", err)
	}

	if forward.output() == reversed.output() {
		t.Fatal("reversed patch is identical to the forward patch")
	}

	want := fmt.Sprintf(
		"diff --git a/greet.txt b/greet.txt\n"+
			"index %s..%s 100644\n"+
			"--- a/greet.txt\n"+
			"+++ b/greet.txt\n"+
			"@@ -1,2 +1,2 @@\n"+
			" hello\n"+
			"-there\n"+
			"+world\n",
		store.HashOf(newData).Abbrev(7), store.HashOf(oldData).Abbrev(7))
	if reversed.output() != want {
		t.Errorf("output = %q, want %q", reversed.output(), want)
	}
}

func TestPatchReverseAddedFile(t *testing.T) {
	store := newFakeStore()
	data := []byte("x\n")
	delta := &Delta{
		Status: Added,
		Old:    FileSide{Path: "f"},
		New:    FileSide{Path: "f", Oid: store.add(data), Size: 2, Mode: ModeFile},
	}

	rec := &printRec{}
	d := New(store, Options{Reverse: true})
	if err := d.PrintPatch(storeList(delta), rec.cb); err != nil {
		t.Fatalf("print: %v", err)
	}

	want := fmt.Sprintf(
		"diff --git a/f b/f\n"+
			"deleted file mode 100644\n"+
			"index %s..0000000\n"+
			"--- a/f\n"+
			"+++ /dev/null\n"+
			"@@ -1 +0,0 @@\n"+
			"-x\n",
		store.HashOf(data).Abbrev(7))
	if rec.output() != want {
		t.Errorf("output = %q, want %q", rec.output(), want)
	}
	if delta.Status != Added {
		t.Errorf("caller's delta mutated to %v", delta.Status)
	}
}

func TestPatchRoundTripsThroughParser(t *testing.T) {
	store := newFakeStore()
	delta := storeDelta(store, "greet.txt", []byte("hello\nworld\n"), []byte("hello\nthere\n"))

	rec := &printRec{}
	d := New(store, Options{})
	if err := d.PrintPatch(storeList(delta), rec.cb); err != nil {
		t.Fatalf("print: %v", err)
	}

	files, _, err := gitdiff.Parse(strings.NewReader(rec.output()))
	if err != nil {
		t.Fatalf("parsing rendered patch: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("parsed %d files, want 1", len(files))
	}
	if files[0].OldName != "greet.txt" || files[0].NewName != "greet.txt" {
		t.Errorf("parsed names %q -> %q", files[0].OldName, files[0].NewName)
	}
	if len(files[0].TextFragments) != 1 {
		t.Fatalf("parsed %d fragments, want 1", len(files[0].TextFragments))
	}
	frag := files[0].TextFragments[0]
	if frag.OldPosition != 1 || frag.OldLines != 2 || frag.NewPosition != 1 || frag.NewLines != 2 {
		t.Errorf("fragment coordinates %d,%d %d,%d", frag.OldPosition, frag.OldLines, frag.NewPosition, frag.NewLines)
	}
}

func TestPatchBinaryDelta(t *testing.T) {
	store := newFakeStore()
	delta := storeDelta(store, "blob.bin", []byte("a\x00b"), []byte("a\x00c"))

	rec := &printRec{}
	d := New(store, Options{})
	if err := d.PrintPatch(storeList(delta), rec.cb); err != nil {
		t.Fatalf("print: %v", err)
	}

	if len(rec.origins) != 2 {
		t.Fatalf("expected file header and binary notice only, got %v", rec.origins)
	}
	if rec.origins[0] != OriginFileHeader || rec.origins[1] != OriginBinary {
		t.Errorf("origins = %v", rec.origins)
	}
	if strings.Contains(rec.texts[0], "--- ") || strings.Contains(rec.texts[0], "+++ ") {
		t.Errorf("binary file header must not carry ---/+++ lines: %q", rec.texts[0])
	}
	want := "Binary files a/blob.bin and b/blob.bin differ\n"
	if rec.texts[1] != want {
		t.Errorf("notice = %q, want %q", rec.texts[1], want)
	}
}

func TestPatchAddedFile(t *testing.T) {
	store := newFakeStore()
	newData := []byte("x\n")
	delta := &Delta{
		Status: Added,
		Old:    FileSide{Path: "f"},
		New:    FileSide{Path: "f", Oid: store.add(newData), Size: 2, Mode: ModeFile},
	}

	rec := &printRec{}
	d := New(store, Options{})
	if err := d.PrintPatch(storeList(delta), rec.cb); err != nil {
		t.Fatalf("print: %v", err)
	}

	want := fmt.Sprintf(
		"diff --git a/f b/f\n"+
			"new file mode 100644\n"+
			"index 0000000..%s\n"+
			"--- /dev/null\n"+
			"+++ b/f\n"+
			"@@ -0,0 +1 @@\n"+
			"+x\n",
		store.HashOf(newData).Abbrev(7))
	if rec.output() != want {
		t.Errorf("output = %q, want %q", rec.output(), want)
	}
}

func TestPatchNoNewlineAtEOF(t *testing.T) {
	store := newFakeStore()
	delta := storeDelta(store, "f", []byte("a\nb"), []byte("a\nc"))

	rec := &printRec{}
	d := New(store, Options{})
	if err := d.PrintPatch(storeList(delta), rec.cb); err != nil {
		t.Fatalf("print: %v", err)
	}

	out := rec.output()
	wantTail := "-b\n" +
		"\\ No newline at end of file\n" +
		"+c\n" +
		"\\ No newline at end of file\n"
	if !strings.HasSuffix(out, wantTail) {
		t.Errorf("output = %q, want suffix %q", out, wantTail)
	}
}
