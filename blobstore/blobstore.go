// Package blobstore provides a directory-backed content-addressed
// blob store keyed by BLAKE3 digests.
package blobstore

import (
	"fmt"
	"os"
	"path/filepath"

	"lukechampine.com/blake3"

	"diffkit/diff"
)

// Dir stores blobs as flat files named by their hex digest.
type Dir struct {
	root string
}

// Open opens or creates a blob store rooted at dir.
func Open(dir string) (*Dir, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating blob store: %w", err)
	}
	return &Dir{root: dir}, nil
}

// HashOf implements diff.ObjectStore.
func (s *Dir) HashOf(data []byte) diff.Oid {
	sum := blake3.Sum256(data)
	return diff.Oid(fmt.Sprintf("%x", sum[:]))
}

// Put writes raw bytes to the store and returns their oid. Writing an
// existing blob is a no-op.
func (s *Dir) Put(data []byte) (diff.Oid, error) {
	oid := s.HashOf(data)
	objPath := filepath.Join(s.root, string(oid))

	if _, err := os.Stat(objPath); err == nil {
		return oid, nil
	}

	if err := os.WriteFile(objPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing object: %w", err)
	}
	return oid, nil
}

// Blob implements diff.ObjectStore.
func (s *Dir) Blob(oid diff.Oid) (diff.Blob, error) {
	data, err := os.ReadFile(filepath.Join(s.root, string(oid)))
	if err != nil {
		return nil, fmt.Errorf("reading object %s: %w", oid.Abbrev(7), err)
	}
	return &blobData{data: data}, nil
}

type blobData struct {
	data []byte
}

func (b *blobData) Data() []byte {
	return b.data
}

func (b *blobData) Close() error {
	b.data = nil
	return nil
}
