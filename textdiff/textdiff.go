// Package textdiff computes byte-oriented line diffs and emits them
// as raw multi-part output groups: a one-part group carries a hunk
// header, a two-part group carries an origin marker plus line
// content, and a three-part group adds a marker for a missing trailing
// newline. The grouping is the wire contract consumed by the diff
// engine's output adapter.
package textdiff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// NoNewlineMarker is the content of the third part of an output group
// when an addition or deletion ends the file without a newline.
const NoNewlineMarker = `\ No newline at end of file`

// Params selects which whitespace differences are ignored when
// comparing lines. Emitted content is always the original text.
type Params struct {
	IgnoreWhitespace       bool
	IgnoreWhitespaceChange bool
	IgnoreWhitespaceEOL    bool
}

// Config controls hunk formation.
type Config struct {
	ContextLines   int
	InterhunkLines int
}

// EmitFunc receives one output group per call. Returning a non-nil
// error aborts the rest of the invocation.
type EmitFunc func(parts [][]byte) error

// Engine is a line-diff engine backed by a Myers diff over interned
// lines.
type Engine struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// New creates an Engine.
func New() *Engine {
	dmp := diffmatchpatch.New()
	// never cut the search short on a timer
	dmp.DiffTimeout = 0
	return &Engine{dmp: dmp}
}

type lineOp struct {
	origin byte // ' ', '+' or '-'
	oldPos int  // old lines consumed before/at this op
	newPos int  // new lines consumed before/at this op
}

// Diff computes the line diff between the two buffers and emits hunk
// headers and lines as output groups.
func (e *Engine) Diff(oldData, newData []byte, params Params, cfg Config, emit EmitFunc) error {
	oldLines, oldEndsNL := splitLines(oldData)
	newLines, newEndsNL := splitLines(newData)

	ops := e.lineOps(oldLines, oldEndsNL, newLines, newEndsNL, params)
	hunks := buildHunks(ops, cfg)

	for _, h := range hunks {
		if err := e.emitHunk(h, ops, oldLines, oldEndsNL, newLines, newEndsNL, emit); err != nil {
			return err
		}
	}
	return nil
}

// lineOps produces one op per diffed line, in output order, by
// interning comparison keys as runes and running a character diff over
// the interned strings.
func (e *Engine) lineOps(oldLines []string, oldEndsNL bool, newLines []string, newEndsNL bool, params Params) []lineOp {
	vocab := make(map[string]rune)
	encOld := internLines(oldLines, oldEndsNL, params, vocab)
	encNew := internLines(newLines, newEndsNL, params, vocab)

	diffs := e.dmp.DiffMain(encOld, encNew, false)

	var ops []lineOp
	oi, ni := 0, 0
	for _, df := range diffs {
		for range df.Text {
			switch df.Type {
			case diffmatchpatch.DiffEqual:
				ops = append(ops, lineOp{origin: ' ', oldPos: oi, newPos: ni})
				oi++
				ni++
			case diffmatchpatch.DiffDelete:
				ops = append(ops, lineOp{origin: '-', oldPos: oi, newPos: ni})
				oi++
			case diffmatchpatch.DiffInsert:
				ops = append(ops, lineOp{origin: '+', oldPos: oi, newPos: ni})
				ni++
			}
		}
	}
	return ops
}

// internLines maps each line's comparison key to a rune from a shared
// vocabulary. The final line of a buffer without a trailing newline
// gets a distinct key so it never compares equal to its
// newline-terminated twin.
func internLines(lines []string, endsNL bool, params Params, vocab map[string]rune) string {
	var sb strings.Builder
	sb.Grow(len(lines))
	for i, line := range lines {
		key := normalizeKey(line, params)
		if i == len(lines)-1 && !endsNL {
			key += "\x00"
		}
		r, ok := vocab[key]
		if !ok {
			r = internRune(len(vocab))
			vocab[key] = r
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// internRune returns the i-th vocabulary rune, skipping the surrogate
// block which cannot round-trip through a string.
func internRune(i int) rune {
	r := rune(i + 1)
	if r >= 0xD800 {
		r += 0x800
	}
	return r
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\v' || b == '\f'
}

func normalizeKey(line string, params Params) string {
	switch {
	case params.IgnoreWhitespace:
		var sb strings.Builder
		for i := 0; i < len(line); i++ {
			if !isSpaceByte(line[i]) {
				sb.WriteByte(line[i])
			}
		}
		return sb.String()
	case params.IgnoreWhitespaceChange:
		var sb strings.Builder
		inRun := false
		for i := 0; i < len(line); i++ {
			if isSpaceByte(line[i]) {
				inRun = true
				continue
			}
			if inRun && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			inRun = false
			sb.WriteByte(line[i])
		}
		return sb.String()
	case params.IgnoreWhitespaceEOL:
		end := len(line)
		for end > 0 && isSpaceByte(line[end-1]) {
			end--
		}
		return line[:end]
	}
	return line
}

// splitLines splits a buffer into lines without their newlines and
// reports whether the buffer ended with one. An empty buffer has no
// lines.
func splitLines(data []byte) ([]string, bool) {
	if len(data) == 0 {
		return nil, true
	}
	endsNL := data[len(data)-1] == '\n'
	s := string(data)
	if endsNL {
		s = s[:len(s)-1]
	}
	return strings.Split(s, "\n"), endsNL
}
