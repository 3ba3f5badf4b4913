package diff

import (
	"github.com/bmatcuk/doublestar/v4"
)

// Foreach walks the delta list in order and streams diff results
// through the supplied callbacks. Any nil callback suppresses that
// level of output. With Reverse set, each delta is processed with its
// sides swapped. The first callback or I/O error aborts the
// traversal; content loaded for the delta in flight is released
// before the error is returned.
func (d *Differ) Foreach(list *DeltaList, fileCb FileFunc, hunkCb HunkFunc, lineCb LineFunc) error {
	oldSrc, newSrc := list.OldSource, list.NewSource
	if d.opts.Reverse {
		oldSrc, newSrc = newSrc, oldSrc
	}

	total := len(list.Deltas)
	for i, delta := range list.Deltas {
		if d.opts.Reverse {
			delta = reverseDelta(delta)
		}
		if d.skipDelta(delta) {
			continue
		}
		if err := d.processDelta(list.Root, oldSrc, newSrc, delta, i, total, fileCb, hunkCb, lineCb); err != nil {
			return err
		}
	}
	return nil
}

// reverseDelta returns a copy of the delta with the two sides swapped.
// Added and deleted trade places; other statuses keep their meaning
// with the sides exchanged.
func reverseDelta(delta *Delta) *Delta {
	rd := *delta
	rd.Old, rd.New = delta.New, delta.Old
	switch delta.Status {
	case Added:
		rd.Status = Deleted
	case Deleted:
		rd.Status = Added
	}
	return &rd
}

func (d *Differ) skipDelta(delta *Delta) bool {
	switch delta.Status {
	case Unmodified:
		return true
	case Ignored:
		if !d.opts.IncludeIgnored {
			return true
		}
	case Untracked:
		if !d.opts.IncludeUntracked {
			return true
		}
	}
	return !d.matchesPaths(delta)
}

func (d *Differ) matchesPaths(delta *Delta) bool {
	if len(d.opts.Paths) == 0 {
		return true
	}
	path := delta.New.Path
	if path == "" {
		path = delta.Old.Path
	}
	for _, pattern := range d.opts.Paths {
		match, err := doublestar.Match(pattern, path)
		if err != nil {
			continue
		}
		if match {
			return true
		}
	}
	return false
}

// processDelta runs the per-delta stages: classify, load, reconcile,
// sniff, file callback, hunk/line diff. Both sides are released
// exactly once on every exit path.
func (d *Differ) processDelta(
	root string,
	oldSrc, newSrc SourceKind,
	delta *Delta,
	index, total int,
	fileCb FileFunc,
	hunkCb HunkFunc,
	lineCb LineFunc,
) error {
	var oldData, newData content
	defer oldData.release()
	defer newData.release()

	if err := d.classifyByAttributes(delta); err != nil {
		return err
	}

	wantContent := hunkCb != nil || lineCb != nil

	if delta.Binary != TristateTrue && wantContent &&
		(delta.Status == Deleted || delta.Status == Modified) {
		c, err := d.loadSide(root, &delta.Old, oldSrc)
		if err != nil {
			return err
		}
		oldData = c
	}

	if delta.Binary != TristateTrue &&
		(wantContent || delta.New.Oid.IsZero()) &&
		(delta.Status == Added || delta.Status == Modified) {
		c, err := d.loadSide(root, &delta.New, newSrc)
		if err != nil {
			return err
		}
		newData = c

		// The delta-list builder may not have had a definitive new-side
		// oid. Compute it now; if it matches the old side the status was
		// a false positive and the delta is really unmodified.
		if delta.New.Oid.IsZero() && d.store != nil {
			delta.New.Oid = d.store.HashOf(newData.data)
			if delta.New.Oid == delta.Old.Oid {
				delta.Status = Unmodified
				return nil
			}
		}
	}

	if delta.Binary == TristateUnset {
		d.classifyByContent(delta, oldData.data, newData.data)
	}

	if fileCb != nil {
		if err := fileCb(delta, float64(index)/float64(total)); err != nil {
			return err
		}
	}

	if delta.Binary == TristateTrue {
		return nil
	}
	if len(oldData.data) == 0 && len(newData.data) == 0 {
		return nil
	}

	return d.runDiff(delta, oldData.data, newData.data, hunkCb, lineCb)
}
