package diff

import (
	"bytes"
	"fmt"
)

// Output renderers built on Foreach: a compact one-line-per-delta
// status listing and a unified patch.

type printState struct {
	opts *Options
	cb   PrintFunc
	buf  bytes.Buffer
}

func statusCode(s Status) byte {
	switch s {
	case Added:
		return 'A'
	case Deleted:
		return 'D'
	case Modified:
		return 'M'
	case Renamed:
		return 'R'
	case Copied:
		return 'C'
	case Ignored:
		return 'I'
	case Untracked:
		return '?'
	}
	return 0
}

func modeSuffix(mode uint32) string {
	switch {
	case mode&0170000 == ModeDir:
		return "/"
	case mode&0100 != 0:
		return "*"
	}
	return ""
}

// PrintCompact renders each delta as a single status line through the
// print callback.
func (d *Differ) PrintCompact(list *DeltaList, print PrintFunc) error {
	p := &printState{opts: &d.opts, cb: print}
	return d.Foreach(list, p.compactFile, nil, nil)
}

func (p *printState) compactFile(delta *Delta, progress float64) error {
	code := statusCode(delta.Status)
	if code == 0 {
		return nil
	}

	oldSuffix := modeSuffix(delta.Old.Mode)
	newSuffix := modeSuffix(delta.New.Mode)

	p.buf.Reset()
	switch {
	case delta.Old.Path != delta.New.Path:
		fmt.Fprintf(&p.buf, "%c\t%s%s -> %s%s\n", code,
			delta.Old.Path, oldSuffix, delta.New.Path, newSuffix)
	case delta.Old.Mode != delta.New.Mode && delta.Old.Mode != 0 && delta.New.Mode != 0:
		fmt.Fprintf(&p.buf, "%c\t%s%s (%o -> %o)\n", code,
			delta.Old.Path, newSuffix, delta.Old.Mode, delta.New.Mode)
	case oldSuffix != "":
		fmt.Fprintf(&p.buf, "%c\t%s%s\n", code, delta.Old.Path, oldSuffix)
	default:
		fmt.Fprintf(&p.buf, "%c\t%s\n", code, delta.Old.Path)
	}

	return p.cb(OriginFileHeader, p.buf.String())
}

// PrintPatch renders the delta list as a unified patch through the
// print callback. Each output unit is tagged with its kind: file
// header, binary notice, hunk header, or the line's origin.
func (d *Differ) PrintPatch(list *DeltaList, print PrintFunc) error {
	p := &printState{opts: &d.opts, cb: print}
	return d.Foreach(list, p.patchFile, p.patchHunk, p.patchLine)
}

func (p *printState) writeOidRange(delta *Delta) {
	oldOid := delta.Old.Oid.Abbrev(7)
	newOid := delta.New.Oid.Abbrev(7)

	if delta.Old.Mode == delta.New.Mode {
		fmt.Fprintf(&p.buf, "index %s..%s %o\n", oldOid, newOid, delta.Old.Mode)
		return
	}
	switch {
	case delta.Old.Mode == 0:
		fmt.Fprintf(&p.buf, "new file mode %o\n", delta.New.Mode)
	case delta.New.Mode == 0:
		fmt.Fprintf(&p.buf, "deleted file mode %o\n", delta.Old.Mode)
	default:
		fmt.Fprintf(&p.buf, "old mode %o\n", delta.Old.Mode)
		fmt.Fprintf(&p.buf, "new mode %o\n", delta.New.Mode)
	}
	fmt.Fprintf(&p.buf, "index %s..%s\n", oldOid, newOid)
}

func (p *printState) patchFile(delta *Delta, progress float64) error {
	oldPfx, newPfx := p.opts.oldPrefix(), p.opts.newPrefix()
	oldPath, newPath := delta.Old.Path, delta.New.Path

	p.buf.Reset()
	fmt.Fprintf(&p.buf, "diff --git %s%s %s%s\n", oldPfx, delta.Old.Path, newPfx, delta.New.Path)
	p.writeOidRange(delta)

	if delta.Old.Oid.IsZero() {
		oldPfx, oldPath = "", "/dev/null"
	}
	if delta.New.Oid.IsZero() {
		newPfx, newPath = "", "/dev/null"
	}

	if delta.Binary != TristateTrue {
		fmt.Fprintf(&p.buf, "--- %s%s\n", oldPfx, oldPath)
		fmt.Fprintf(&p.buf, "+++ %s%s\n", newPfx, newPath)
	}

	if err := p.cb(OriginFileHeader, p.buf.String()); err != nil {
		return err
	}
	if delta.Binary != TristateTrue {
		return nil
	}

	p.buf.Reset()
	fmt.Fprintf(&p.buf, "Binary files %s%s and %s%s differ\n",
		oldPfx, oldPath, newPfx, newPath)
	return p.cb(OriginBinary, p.buf.String())
}

func (p *printState) patchHunk(delta *Delta, r Range, header []byte) error {
	p.buf.Reset()
	p.buf.Write(header)
	p.buf.WriteByte('\n')
	return p.cb(OriginHunkHeader, p.buf.String())
}

func (p *printState) patchLine(delta *Delta, origin Origin, content []byte) error {
	p.buf.Reset()
	switch origin {
	case OriginAddition, OriginDeletion, OriginContext:
		p.buf.WriteByte(byte(origin))
		p.buf.Write(content)
		p.buf.WriteByte('\n')
	default:
		// eof-marker variants carry no prefix character
		if len(content) > 0 {
			p.buf.Write(content)
			p.buf.WriteByte('\n')
		}
	}
	return p.cb(origin, p.buf.String())
}
