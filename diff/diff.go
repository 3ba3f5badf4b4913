// Package diff computes per-file line diffs over a delta list and
// streams the results through file, hunk and line callbacks. It
// decides per delta whether content is binary or text, loads content
// from an object store or the working directory, and guarantees that
// loaded buffers are released before the next delta is processed.
package diff

import (
	"diffkit/textdiff"
)

// Algorithm computes a line diff between two buffers and emits raw
// multi-part output groups: one part is a hunk header, two parts are
// an origin marker plus line content, three parts add an
// end-of-file-newline marker.
type Algorithm interface {
	Diff(oldData, newData []byte, params textdiff.Params, cfg textdiff.Config, emit textdiff.EmitFunc) error
}

// Differ drives diff generation for delta lists and blob pairs.
type Differ struct {
	store ObjectStore
	attrs AttributeSource
	algo  Algorithm
	opts  Options
}

// Option configures a Differ.
type Option func(*Differ)

// WithAttributes sets the attribute source consulted during binary
// classification.
func WithAttributes(a AttributeSource) Option {
	return func(d *Differ) {
		d.attrs = a
	}
}

// WithAlgorithm replaces the default line-diff engine.
func WithAlgorithm(a Algorithm) Option {
	return func(d *Differ) {
		d.algo = a
	}
}

// New creates a Differ. The store may be nil when only working
// directory content is diffed.
func New(store ObjectStore, opts Options, options ...Option) *Differ {
	d := &Differ{
		store: store,
		algo:  textdiff.New(),
		opts:  opts,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *Differ) config() textdiff.Config {
	cfg := textdiff.Config{
		ContextLines:   d.opts.ContextLines,
		InterhunkLines: d.opts.InterhunkLines,
	}
	if cfg.ContextLines == 0 {
		cfg.ContextLines = 3
	}
	if cfg.InterhunkLines == 0 {
		cfg.InterhunkLines = 3
	}
	return cfg
}

func (d *Differ) params() textdiff.Params {
	return textdiff.Params{
		IgnoreWhitespace:       d.opts.IgnoreWhitespace,
		IgnoreWhitespaceChange: d.opts.IgnoreWhitespaceChange,
		IgnoreWhitespaceEOL:    d.opts.IgnoreWhitespaceEOL,
	}
}
