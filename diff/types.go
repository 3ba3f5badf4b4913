package diff

import "strings"

// Oid is a content-addressed identity rendered as a hex string.
// The empty string is the absent sentinel: it means "no content on
// this side" (e.g. the old side of an added file).
type Oid string

// IsZero reports whether the oid is the absent sentinel.
func (o Oid) IsZero() bool {
	return o == ""
}

// Abbrev returns the first n hex characters of the oid, zero-padded
// when the oid is absent or shorter than n.
func (o Oid) Abbrev(n int) string {
	if len(o) >= n {
		return string(o[:n])
	}
	return string(o) + strings.Repeat("0", n-len(o))
}

// Status describes what happened to a file between two snapshots.
type Status int

const (
	Unmodified Status = iota
	Added
	Deleted
	Modified
	Renamed
	Copied
	Ignored
	Untracked
)

// Tristate is an optional boolean. The zero value is "unset", so a
// field that still needs resolving is distinguishable from one that
// was resolved to false.
type Tristate int8

const (
	TristateUnset Tristate = iota
	TristateFalse
	TristateTrue
)

// Git-style file modes.
const (
	ModeDir     uint32 = 0040000
	ModeFile    uint32 = 0100644
	ModeExec    uint32 = 0100755
	ModeSymlink uint32 = 0120000
)

func isSymlinkMode(mode uint32) bool {
	return mode&0170000 == ModeSymlink
}

// FileSide describes one side of a delta.
type FileSide struct {
	Path   string
	Oid    Oid
	Size   int64
	Mode   uint32
	Binary Tristate // per-side binary classification, resolved lazily
}

// Delta describes one file's change between two snapshots. Deltas are
// produced by a delta-list builder (e.g. gitstore); the engine only
// mutates the classification fields and, during oid reconciliation,
// the new side's oid and the status.
type Delta struct {
	Status     Status
	Old        FileSide
	New        FileSide
	Binary     Tristate
	Similarity int
}

// SourceKind tells the content loader where a delta side's bytes live.
type SourceKind int

const (
	// SourceStore means content is fetched from the object store by oid.
	SourceStore SourceKind = iota
	// SourceWorkdir means content is read from the working directory.
	SourceWorkdir
)

// DeltaList is an ordered sequence of deltas plus the information the
// engine needs to load content for either side.
type DeltaList struct {
	OldSource SourceKind
	NewSource SourceKind
	Root      string // working directory root, for workdir sources
	Deltas    []*Delta
}

// Range addresses a hunk by its old/new line coordinates. Starts of -1
// mean the hunk header could not be parsed.
type Range struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
}

// Origin tags a diff output unit. Line callbacks receive the first
// five values; print callbacks additionally receive the header and
// binary-notice kinds.
type Origin byte

const (
	OriginContext  Origin = ' '
	OriginAddition Origin = '+'
	OriginDeletion Origin = '-'

	// Synthetic second callback fired after an addition or deletion
	// that ends the file without a trailing newline.
	OriginAddEOFNL Origin = '>'
	OriginDelEOFNL Origin = '<'

	OriginFileHeader Origin = 'F'
	OriginHunkHeader Origin = 'H'
	OriginBinary     Origin = 'B'
)

// FileFunc is invoked once per non-skipped delta with the traversal
// progress as a fraction. Returning a non-nil error aborts the
// traversal.
type FileFunc func(delta *Delta, progress float64) error

// HunkFunc is invoked once per hunk with the parsed range and the raw
// header text.
type HunkFunc func(delta *Delta, r Range, header []byte) error

// LineFunc is invoked once per line, or twice when the line is
// followed by an end-of-file-newline marker. The content slice is only
// valid for the duration of the call.
type LineFunc func(delta *Delta, origin Origin, content []byte) error

// PrintFunc receives rendered output units from the renderers.
type PrintFunc func(origin Origin, text string) error

// Options configures a Differ.
type Options struct {
	ContextLines   int // 0 means the default of 3
	InterhunkLines int // 0 means the default of 3

	IgnoreWhitespace       bool
	IgnoreWhitespaceChange bool
	IgnoreWhitespaceEOL    bool

	ForceText        bool
	IncludeIgnored   bool
	IncludeUntracked bool
	Reverse          bool

	OldPrefix string // defaults to "a/"
	NewPrefix string // defaults to "b/"

	// Paths restricts the traversal to deltas whose path matches at
	// least one doublestar pattern. Empty means no restriction.
	Paths []string
}

func (o *Options) oldPrefix() string {
	if o.OldPrefix == "" {
		return "a/"
	}
	return o.OldPrefix
}

func (o *Options) newPrefix() string {
	if o.NewPrefix == "" {
		return "b/"
	}
	return o.NewPrefix
}

// Blob is a handle to object-store content. Data remains valid until
// Close releases the handle.
type Blob interface {
	Data() []byte
	Close() error
}

// ObjectStore resolves oids to blobs and computes the identity of raw
// bytes.
type ObjectStore interface {
	Blob(oid Oid) (Blob, error)
	HashOf(data []byte) Oid
}

// AttributeSource resolves the per-path "diff" attribute: true-like
// forces text, false-like forces binary, unset falls through to
// content sniffing.
type AttributeSource interface {
	DiffAttribute(path string) (Tristate, error)
}
