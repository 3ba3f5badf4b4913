package gitstore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"diffkit/cache"
	"diffkit/diff"
)

// TreeDeltas builds an ordered delta list between two revisions'
// commit trees. Entries identical on both sides are left out.
func (s *Store) TreeDeltas(oldRev, newRev string) (*diff.DeltaList, error) {
	oldEntries, err := s.treeEntries(oldRev)
	if err != nil {
		return nil, err
	}
	newEntries, err := s.treeEntries(newRev)
	if err != nil {
		return nil, err
	}

	list := &diff.DeltaList{
		OldSource: diff.SourceStore,
		NewSource: diff.SourceStore,
	}

	oi, ni := 0, 0
	for oi < len(oldEntries) || ni < len(newEntries) {
		switch {
		case ni >= len(newEntries) || (oi < len(oldEntries) && oldEntries[oi].path < newEntries[ni].path):
			list.Deltas = append(list.Deltas, deletedDelta(oldEntries[oi]))
			oi++
		case oi >= len(oldEntries) || newEntries[ni].path < oldEntries[oi].path:
			list.Deltas = append(list.Deltas, addedDelta(newEntries[ni], diff.Added))
			ni++
		default:
			o, n := oldEntries[oi], newEntries[ni]
			if o.oid != n.oid || o.mode != n.mode {
				list.Deltas = append(list.Deltas, modifiedDelta(o, n))
			}
			oi++
			ni++
		}
	}
	return list, nil
}

// WorkdirOptions configures working directory delta building.
type WorkdirOptions struct {
	// Cache, when set, is used to compute definitive workdir oids so
	// unchanged files are dropped up front. Without it workdir oids are
	// left absent and the diff driver's oid reconciliation decides.
	Cache *cache.OidCache
}

// WorkdirDeltas builds a delta list between a revision's commit tree
// and the working directory.
func (s *Store) WorkdirDeltas(rev string, opts WorkdirOptions) (*diff.DeltaList, error) {
	oldEntries, err := s.treeEntries(rev)
	if err != nil {
		return nil, err
	}

	root, err := s.workdirRoot()
	if err != nil {
		return nil, err
	}

	workEntries, err := s.workdirEntries(root, opts.Cache)
	if err != nil {
		return nil, err
	}

	list := &diff.DeltaList{
		OldSource: diff.SourceStore,
		NewSource: diff.SourceWorkdir,
		Root:      root,
	}

	oi, ni := 0, 0
	for oi < len(oldEntries) || ni < len(workEntries) {
		switch {
		case ni >= len(workEntries) || (oi < len(oldEntries) && oldEntries[oi].path < workEntries[ni].path):
			list.Deltas = append(list.Deltas, deletedDelta(oldEntries[oi]))
			oi++
		case oi >= len(oldEntries) || workEntries[ni].path < oldEntries[oi].path:
			list.Deltas = append(list.Deltas, addedDelta(workEntries[ni], diff.Untracked))
			ni++
		default:
			o, n := oldEntries[oi], workEntries[ni]
			// With a known workdir oid an unchanged pair is dropped here;
			// otherwise the driver hashes the loaded content and
			// reclassifies the delta as unmodified itself.
			if n.oid.IsZero() || o.oid != n.oid || o.mode != n.mode {
				list.Deltas = append(list.Deltas, modifiedDelta(o, n))
			}
			oi++
			ni++
		}
	}
	return list, nil
}

func (s *Store) workdirRoot() (string, error) {
	wt, err := s.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// workdirEntries walks the working directory and returns its files
// sorted by path. With a cache, each file's oid is computed through
// the cache; without one oids are left absent.
func (s *Store) workdirEntries(root string, c *cache.OidCache) ([]treeEntry, error) {
	var entries []treeEntry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == ".diffkit" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := os.Lstat(path)
		if err != nil {
			return err
		}

		entry := treeEntry{
			path: filepath.ToSlash(rel),
			mode: fileMode(info),
			size: info.Size(),
		}

		if c != nil {
			oid, err := c.GetOrCompute(path, info, func() (diff.Oid, error) {
				data, err := readEntry(path, info)
				if err != nil {
					return "", err
				}
				return s.HashOf(data), nil
			})
			if err != nil {
				return fmt.Errorf("hashing %s: %w", entry.path, err)
			}
			entry.oid = oid
		}

		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].path < entries[j].path
	})
	return entries, nil
}

func readEntry(path string, info os.FileInfo) ([]byte, error) {
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return nil, err
		}
		return []byte(target), nil
	}
	return os.ReadFile(path)
}

func fileMode(info os.FileInfo) uint32 {
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return diff.ModeSymlink
	case info.Mode().Perm()&0100 != 0:
		return diff.ModeExec
	}
	return diff.ModeFile
}

func deletedDelta(o treeEntry) *diff.Delta {
	return &diff.Delta{
		Status: diff.Deleted,
		Old:    diff.FileSide{Path: o.path, Oid: o.oid, Size: o.size, Mode: o.mode},
		New:    diff.FileSide{Path: o.path},
	}
}

func addedDelta(n treeEntry, status diff.Status) *diff.Delta {
	return &diff.Delta{
		Status: status,
		Old:    diff.FileSide{Path: n.path},
		New:    diff.FileSide{Path: n.path, Oid: n.oid, Size: n.size, Mode: n.mode},
	}
}

func modifiedDelta(o, n treeEntry) *diff.Delta {
	return &diff.Delta{
		Status: diff.Modified,
		Old:    diff.FileSide{Path: o.path, Oid: o.oid, Size: o.size, Mode: o.mode},
		New:    diff.FileSide{Path: n.path, Oid: n.oid, Size: n.size, Mode: n.mode},
	}
}
