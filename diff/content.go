package diff

import (
	"fmt"
	"os"
	"path/filepath"
)

type contentKind uint8

const (
	contentUnloaded contentKind = iota
	contentHeap
	contentMapped
)

// content is one side's loaded bytes plus the obligation to release
// them. The kind tag dictates the release strategy: heap buffers are
// dropped, mapped buffers are unmapped, blob handles are closed.
type content struct {
	kind contentKind
	data []byte
	blob Blob
}

// release returns the content to the unloaded state. It is safe to
// call any number of times; after the first call it is a no-op.
func (c *content) release() {
	if c.blob != nil {
		c.blob.Close()
		c.blob = nil
	}
	if c.kind == contentMapped {
		unmapBytes(c.data)
	}
	c.data = nil
	c.kind = contentUnloaded
}

func (d *Differ) loadSide(root string, side *FileSide, source SourceKind) (content, error) {
	if source == SourceWorkdir {
		return loadWorkdir(root, side)
	}
	return d.loadBlob(side)
}

// loadBlob fetches a side's content from the object store. An absent
// oid yields an empty buffer, not an error.
func (d *Differ) loadBlob(side *FileSide) (content, error) {
	if side.Oid.IsZero() {
		return content{}, nil
	}
	if d.store == nil {
		return content{}, fmt.Errorf("no object store to load %s", side.Path)
	}
	blob, err := d.store.Blob(side.Oid)
	if err != nil {
		return content{}, fmt.Errorf("loading blob %s for %s: %w", side.Oid.Abbrev(7), side.Path, err)
	}
	return content{data: blob.Data(), blob: blob}, nil
}

// loadWorkdir reads a side's content from the working directory:
// symlinks are read into a heap buffer and checked against the
// recorded length, regular files are memory-mapped read-only.
func loadWorkdir(root string, side *FileSide) (content, error) {
	full := filepath.Join(root, filepath.FromSlash(side.Path))

	if isSymlinkMode(side.Mode) {
		target, err := os.Readlink(full)
		if err != nil {
			return content{}, fmt.Errorf("reading symlink %s: %w", side.Path, err)
		}
		if int64(len(target)) != side.Size {
			return content{}, fmt.Errorf(
				"symlink %s: expected %d bytes, read %d", side.Path, side.Size, len(target))
		}
		return content{kind: contentHeap, data: []byte(target)}, nil
	}

	return mapFile(full)
}
