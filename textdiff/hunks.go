package textdiff

import (
	"fmt"
	"strings"
)

// hunk is an inclusive op-index range covering one output hunk:
// changed lines plus surrounding context.
type hunk struct {
	first, last int
}

// buildHunks groups changed ops into hunks. Two change blocks merge
// into one hunk when the context run between them is no longer than
// twice the context size plus the interhunk size.
func buildHunks(ops []lineOp, cfg Config) []hunk {
	gapLimit := cfg.ContextLines*2 + cfg.InterhunkLines

	var hunks []hunk
	i := 0
	for i < len(ops) {
		if ops[i].origin == ' ' {
			i++
			continue
		}

		first, last := i, i
		j := i + 1
		for j < len(ops) {
			if ops[j].origin != ' ' {
				last = j
				j++
				continue
			}
			k := j
			for k < len(ops) && ops[k].origin == ' ' {
				k++
			}
			if k < len(ops) && k-j <= gapLimit {
				j = k
				continue
			}
			break
		}

		start := first - cfg.ContextLines
		if start < 0 {
			start = 0
		}
		end := last + cfg.ContextLines
		if end > len(ops)-1 {
			end = len(ops) - 1
		}
		hunks = append(hunks, hunk{first: start, last: end})
		i = j
	}
	return hunks
}

func (e *Engine) emitHunk(
	h hunk,
	ops []lineOp,
	oldLines []string, oldEndsNL bool,
	newLines []string, newEndsNL bool,
	emit EmitFunc,
) error {
	oldCount, newCount := 0, 0
	for _, op := range ops[h.first : h.last+1] {
		switch op.origin {
		case ' ':
			oldCount++
			newCount++
		case '-':
			oldCount++
		case '+':
			newCount++
		}
	}

	// A start of 0 with a count of 0 anchors an empty side at the line
	// before the hunk, matching git's header convention.
	oldStart := ops[h.first].oldPos
	if oldCount > 0 {
		oldStart++
	}
	newStart := ops[h.first].newPos
	if newCount > 0 {
		newStart++
	}

	header := formatHeader(oldStart, oldCount, newStart, newCount)
	if err := emit([][]byte{[]byte(header)}); err != nil {
		return err
	}

	for _, op := range ops[h.first : h.last+1] {
		var line string
		var noEOL bool
		switch op.origin {
		case '+':
			line = newLines[op.newPos]
			noEOL = op.newPos == len(newLines)-1 && !newEndsNL
		default:
			line = oldLines[op.oldPos]
			noEOL = op.oldPos == len(oldLines)-1 && !oldEndsNL
		}

		parts := [][]byte{{op.origin}, []byte(line)}
		if noEOL {
			parts = append(parts, []byte(NoNewlineMarker))
		}
		if err := emit(parts); err != nil {
			return err
		}
	}
	return nil
}

// formatHeader renders a git-style hunk header, eliding a line count
// of exactly one.
func formatHeader(oldStart, oldCount, newStart, newCount int) string {
	var sb strings.Builder
	sb.WriteString("@@ -")
	writeCoord(&sb, oldStart, oldCount)
	sb.WriteString(" +")
	writeCoord(&sb, newStart, newCount)
	sb.WriteString(" @@")
	return sb.String()
}

func writeCoord(sb *strings.Builder, start, count int) {
	if count == 1 {
		fmt.Fprintf(sb, "%d", start)
		return
	}
	fmt.Fprintf(sb, "%d,%d", start, count)
}
