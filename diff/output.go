package diff

// Translation of the algorithm's raw multi-part output groups into
// typed hunk and line callbacks.

type outputState struct {
	delta  *Delta
	hunkCb HunkFunc
	lineCb LineFunc
}

// emit decodes one output group. A malformed hunk header is dropped
// silently rather than reported: the algorithm is trusted to emit
// well-formed headers, so a bad one degrades output instead of
// aborting the traversal.
func (o *outputState) emit(parts [][]byte) error {
	switch {
	case len(parts) == 1 && o.hunkCb != nil:
		header := parts[0]
		if len(header) == 0 || header[0] != '@' {
			return nil
		}
		r, ok := parseHunkHeader(header)
		if !ok || r.OldStart < 0 || r.NewStart < 0 {
			return nil
		}
		return o.hunkCb(o.delta, r, header)

	case (len(parts) == 2 || len(parts) == 3) && o.lineCb != nil:
		origin := OriginContext
		switch parts[0][0] {
		case '+':
			origin = OriginAddition
		case '-':
			origin = OriginDeletion
		}

		if err := o.lineCb(o.delta, origin, parts[1]); err != nil {
			return err
		}

		if len(parts) == 3 {
			if origin == OriginAddition {
				origin = OriginAddEOFNL
			} else {
				origin = OriginDelEOFNL
			}
			return o.lineCb(o.delta, origin, parts[2])
		}
	}

	return nil
}

// parseHunkHeader expects something of the form
// "@@ -old_start[,old_lines] +new_start[,new_lines] @@..." and parses
// the four integers by scanning to each next digit run. Missing
// comma-counts stay 0; a missing start leaves the range unparsed.
func parseHunkHeader(header []byte) (Range, bool) {
	r := Range{OldStart: -1, NewStart: -1}

	pos := 0
	var ok bool
	if r.OldStart, pos, ok = nextInt(header, pos); !ok {
		return r, false
	}
	if pos < len(header) && header[pos] == ',' {
		if r.OldLines, pos, ok = nextInt(header, pos); !ok {
			return r, false
		}
	}
	if r.NewStart, pos, ok = nextInt(header, pos); !ok {
		return r, false
	}
	if pos < len(header) && header[pos] == ',' {
		if r.NewLines, pos, ok = nextInt(header, pos); !ok {
			return r, false
		}
	}
	return r, true
}

// nextInt skips to the next digit run in s starting at pos and parses
// it. It returns the value, the position after the run, and whether
// any digits were found.
func nextInt(s []byte, pos int) (int, int, bool) {
	for pos < len(s) && (s[pos] < '0' || s[pos] > '9') {
		pos++
	}
	v, digits := 0, 0
	for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
		v = v*10 + int(s[pos]-'0')
		pos++
		digits++
	}
	return v, pos, digits > 0
}

// runDiff invokes the algorithm over the two buffers, decoding its
// output into the caller's hunk and line callbacks. Any callback error
// aborts the remaining invocation for this delta.
func (d *Differ) runDiff(delta *Delta, oldData, newData []byte, hunkCb HunkFunc, lineCb LineFunc) error {
	out := &outputState{delta: delta, hunkCb: hunkCb, lineCb: lineCb}
	return d.algo.Diff(oldData, newData, d.params(), d.config(), out.emit)
}
