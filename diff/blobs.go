package diff

// Blobs diffs two in-memory buffers directly, bypassing the delta
// driver: no classification, no file callback, and no driver-level
// release; the caller keeps ownership of both buffers. A nil buffer
// means that side is absent and diffs as empty.
func (d *Differ) Blobs(oldData, newData []byte, hunkCb HunkFunc, lineCb LineFunc) error {
	if d.opts.Reverse {
		oldData, newData = newData, oldData
	}

	delta := &Delta{
		// A blob alone can't tell us the true mode.
		Old: FileSide{Mode: ModeFile},
		New: FileSide{Mode: ModeFile},
	}
	switch {
	case oldData != nil && newData != nil:
		delta.Status = Modified
	case oldData != nil:
		delta.Status = Deleted
	case newData != nil:
		delta.Status = Added
	default:
		delta.Status = Untracked
	}

	if d.store != nil {
		if oldData != nil {
			delta.Old.Oid = d.store.HashOf(oldData)
		}
		if newData != nil {
			delta.New.Oid = d.store.HashOf(newData)
		}
	}

	return d.runDiff(delta, oldData, newData, hunkCb, lineCb)
}
