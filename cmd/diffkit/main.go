// Package main provides the diffkit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"diffkit/attr"
	"diffkit/cache"
	"diffkit/diff"
	"diffkit/gitstore"
)

var (
	flagRepo       string
	flagConfig     string
	flagContext    int
	flagInterhunk  int
	flagIgnoreWS   bool
	flagIgnoreWSC  bool
	flagIgnoreEOL  bool
	flagForceText  bool
	flagUntracked  bool
	flagIgnored    bool
	flagReverse    bool
	flagSrcPrefix  string
	flagDstPrefix  string
	flagPaths      []string
	flagAttributes string
	flagUseCache   bool
)

var rootCmd = &cobra.Command{
	Use:   "diffkit",
	Short: "Generate and render file diffs from git history or the working directory",
}

var patchCmd = &cobra.Command{
	Use:   "patch <old-rev> [<new-rev>]",
	Short: "Render a unified patch between two revisions, or a revision and the working directory",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPatch,
}

var statusCmd = &cobra.Command{
	Use:   "status <rev>",
	Short: "List changed files between a revision and the working directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var blobsCmd = &cobra.Command{
	Use:   "blobs <old-file> <new-file>",
	Short: "Diff two files directly, outside any repository",
	Args:  cobra.ExactArgs(2),
	RunE:  runBlobs,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagRepo, "repo", ".", "repository path")
	pf.StringVar(&flagConfig, "config", "", "config file (default .diffkit.yaml when present)")
	pf.IntVarP(&flagContext, "context", "U", 0, "context lines per hunk (default 3)")
	pf.IntVar(&flagInterhunk, "interhunk", 0, "max context lines between merged hunks (default 3)")
	pf.BoolVarP(&flagIgnoreWS, "ignore-all-space", "w", false, "ignore all whitespace when comparing lines")
	pf.BoolVarP(&flagIgnoreWSC, "ignore-space-change", "b", false, "ignore changes in amount of whitespace")
	pf.BoolVar(&flagIgnoreEOL, "ignore-space-at-eol", false, "ignore whitespace at end of line")
	pf.BoolVarP(&flagForceText, "text", "a", false, "treat all files as text")
	pf.BoolVar(&flagUntracked, "untracked", false, "include untracked files")
	pf.BoolVar(&flagIgnored, "ignored", false, "include ignored files")
	pf.BoolVarP(&flagReverse, "reverse", "R", false, "swap the two sides")
	pf.StringVar(&flagSrcPrefix, "src-prefix", "", `old-side path prefix (default "a/")`)
	pf.StringVar(&flagDstPrefix, "dst-prefix", "", `new-side path prefix (default "b/")`)
	pf.StringSliceVar(&flagPaths, "path", nil, "restrict to paths matching a glob pattern (repeatable)")
	pf.StringVar(&flagAttributes, "attributes", "", "diff attribute rules file")
	pf.BoolVar(&flagUseCache, "cache", false, "use the oid cache for working directory diffs")

	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(blobsCmd)
}

func buildOptions() (diff.Options, []diff.Option, error) {
	config, err := loadConfig(flagConfig)
	if err != nil {
		return diff.Options{}, nil, err
	}

	opts := diff.Options{
		ContextLines:           flagContext,
		InterhunkLines:         flagInterhunk,
		IgnoreWhitespace:       flagIgnoreWS,
		IgnoreWhitespaceChange: flagIgnoreWSC,
		IgnoreWhitespaceEOL:    flagIgnoreEOL,
		ForceText:              flagForceText,
		IncludeIgnored:         flagIgnored,
		IncludeUntracked:       flagUntracked,
		Reverse:                flagReverse,
		OldPrefix:              flagSrcPrefix,
		NewPrefix:              flagDstPrefix,
		Paths:                  flagPaths,
	}
	config.apply(&opts)

	var extras []diff.Option
	attrPath := flagAttributes
	if attrPath == "" {
		attrPath = config.Attributes
	}
	if attrPath != "" {
		matcher, err := attr.Load(attrPath)
		if err != nil {
			return diff.Options{}, nil, err
		}
		extras = append(extras, diff.WithAttributes(matcher))
	}

	return opts, extras, nil
}

func openCache() (*cache.OidCache, error) {
	if !flagUseCache {
		return nil, nil
	}
	return cache.Open(flagRepo)
}

func printTo(out *os.File) diff.PrintFunc {
	return func(origin diff.Origin, text string) error {
		_, err := fmt.Fprint(out, text)
		return err
	}
}

func runPatch(cmd *cobra.Command, args []string) error {
	store, err := gitstore.Open(flagRepo)
	if err != nil {
		return err
	}

	opts, extras, err := buildOptions()
	if err != nil {
		return err
	}

	var list *diff.DeltaList
	if len(args) == 2 {
		list, err = store.TreeDeltas(args[0], args[1])
	} else {
		c, cerr := openCache()
		if cerr != nil {
			return cerr
		}
		if c != nil {
			defer c.Close()
		}
		list, err = store.WorkdirDeltas(args[0], gitstore.WorkdirOptions{Cache: c})
	}
	if err != nil {
		return err
	}

	differ := diff.New(store, opts, extras...)
	return differ.PrintPatch(list, printTo(os.Stdout))
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := gitstore.Open(flagRepo)
	if err != nil {
		return err
	}

	opts, extras, err := buildOptions()
	if err != nil {
		return err
	}

	c, err := openCache()
	if err != nil {
		return err
	}
	if c != nil {
		defer c.Close()
	}

	list, err := store.WorkdirDeltas(args[0], gitstore.WorkdirOptions{Cache: c})
	if err != nil {
		return err
	}

	differ := diff.New(store, opts, extras...)
	return differ.PrintCompact(list, printTo(os.Stdout))
}

// runBlobs diffs two loose files. A missing file counts as an absent
// side, so `diffkit blobs old.txt missing.txt` renders a deletion.
func runBlobs(cmd *cobra.Command, args []string) error {
	opts, extras, err := buildOptions()
	if err != nil {
		return err
	}

	oldData, err := readOptional(args[0])
	if err != nil {
		return err
	}
	newData, err := readOptional(args[1])
	if err != nil {
		return err
	}

	differ := diff.New(nil, opts, extras...)
	out := os.Stdout
	return differ.Blobs(oldData, newData,
		func(delta *diff.Delta, r diff.Range, header []byte) error {
			_, err := fmt.Fprintf(out, "%s\n", header)
			return err
		},
		func(delta *diff.Delta, origin diff.Origin, content []byte) error {
			switch origin {
			case diff.OriginAddition, diff.OriginDeletion, diff.OriginContext:
				_, err := fmt.Fprintf(out, "%c%s\n", origin, content)
				return err
			}
			if len(content) > 0 {
				_, err := fmt.Fprintf(out, "%s\n", content)
				return err
			}
			return nil
		})
}

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
