package diff

import (
	"bytes"
	"fmt"
)

// sniffLen bounds how much content is inspected when deciding whether
// a buffer is binary.
const sniffLen = 4000

const maxInt = int64(int(^uint(0) >> 1))

// fitsAddressable reports whether a declared size can be held in the
// platform's addressable-length type. Oversized (or negative) sizes
// force a binary classification without loading content.
func fitsAddressable(n int64) bool {
	return uint64(n) <= uint64(maxInt)
}

// classifyByAttributes resolves as much of the delta's binary state as
// possible without content: the size guard, the force-text override
// and the attribute hint. Content sniffing happens later, once buffers
// are loaded.
func (d *Differ) classifyByAttributes(delta *Delta) error {
	delta.Binary = TristateUnset

	if !fitsAddressable(delta.Old.Size) || !fitsAddressable(delta.New.Size) {
		delta.Old.Binary = TristateTrue
		delta.New.Binary = TristateTrue
		delta.Binary = TristateTrue
		return nil
	}

	if d.opts.ForceText {
		delta.Old.Binary = TristateFalse
		delta.New.Binary = TristateFalse
		delta.Binary = TristateFalse
		return nil
	}

	if d.attrs != nil {
		if err := d.applyAttribute(&delta.Old); err != nil {
			return err
		}
		if delta.New.Path == delta.Old.Path {
			delta.New.Binary = delta.Old.Binary
		} else if err := d.applyAttribute(&delta.New); err != nil {
			return err
		}
	}

	resolveDeltaBinary(delta)
	return nil
}

func (d *Differ) applyAttribute(side *FileSide) error {
	value, err := d.attrs.DiffAttribute(side.Path)
	if err != nil {
		return fmt.Errorf("diff attribute for %s: %w", side.Path, err)
	}
	switch value {
	case TristateFalse:
		side.Binary = TristateTrue
	case TristateTrue:
		side.Binary = TristateFalse
	}
	return nil
}

// classifyByContent sniffs any still-undecided side. A missing buffer
// sniffs as text.
func (d *Differ) classifyByContent(delta *Delta, oldData, newData []byte) {
	if delta.Old.Binary == TristateUnset {
		delta.Old.Binary = sniffContent(oldData)
	}
	if delta.New.Binary == TristateUnset {
		delta.New.Binary = sniffContent(newData)
	}
	resolveDeltaBinary(delta)
}

func sniffContent(data []byte) Tristate {
	n := len(data)
	if n > sniffLen {
		n = sniffLen
	}
	if bytes.IndexByte(data[:n], 0) >= 0 {
		return TristateTrue
	}
	return TristateFalse
}

// resolveDeltaBinary combines the per-side states: binary if either
// side is binary, text if at least one side is explicitly text,
// otherwise left as is.
func resolveDeltaBinary(delta *Delta) {
	switch {
	case delta.Old.Binary == TristateTrue || delta.New.Binary == TristateTrue:
		delta.Binary = TristateTrue
	case delta.Old.Binary == TristateFalse || delta.New.Binary == TristateFalse:
		delta.Binary = TristateFalse
	}
}
