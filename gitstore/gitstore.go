// Package gitstore adapts a git repository into an object store and
// delta-list builder for the diff engine, using go-git.
package gitstore

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"diffkit/diff"
)

// Store wraps a go-git repository.
type Store struct {
	repo *git.Repository
	path string
}

// Open opens an existing git repository.
func Open(repoPath string) (*Store, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	return &Store{repo: repo, path: repoPath}, nil
}

// HashOf implements diff.ObjectStore using git blob identity.
func (s *Store) HashOf(data []byte) diff.Oid {
	return diff.Oid(plumbing.ComputeHash(plumbing.BlobObject, data).String())
}

// Blob implements diff.ObjectStore.
func (s *Store) Blob(oid diff.Oid) (diff.Blob, error) {
	blob, err := s.repo.BlobObject(plumbing.NewHash(string(oid)))
	if err != nil {
		return nil, fmt.Errorf("looking up blob %s: %w", oid.Abbrev(7), err)
	}

	r, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", oid.Abbrev(7), err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", oid.Abbrev(7), err)
	}
	return &storeBlob{data: data}, nil
}

type storeBlob struct {
	data []byte
}

func (b *storeBlob) Data() []byte {
	return b.data
}

func (b *storeBlob) Close() error {
	b.data = nil
	return nil
}

// treeEntry is one file in a resolved commit tree.
type treeEntry struct {
	path string
	mode uint32
	oid  diff.Oid
	size int64
}

// treeEntries resolves a revision to its commit tree and returns the
// tree's files sorted by path.
func (s *Store) treeEntries(rev string) ([]treeEntry, error) {
	hash, err := s.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", rev, err)
	}

	commit, err := s.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("getting commit for %q: %w", rev, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting tree for %q: %w", rev, err)
	}

	var entries []treeEntry
	err = tree.Files().ForEach(func(f *object.File) error {
		entries = append(entries, treeEntry{
			path: f.Name,
			mode: uint32(f.Mode),
			oid:  diff.Oid(f.Hash.String()),
			size: f.Size,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking tree for %q: %w", rev, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].path < entries[j].path
	})
	return entries, nil
}
