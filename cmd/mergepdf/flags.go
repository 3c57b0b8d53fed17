package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// defaultDebounce delays a watch refresh until editors finish writing.
const defaultDebounce = 200 * time.Millisecond

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags. Margins are nil unless set.
type pageFlags struct {
	size        string
	orientation string
	margin      *float64
	top         *float64
	right       *float64
	bottom      *float64
	left        *float64
}

// numberFlags holds page numbering flags.
type numberFlags struct {
	enabled  bool
	position string
	disabled bool
}

// metadataFlags holds document information flags.
type metadataFlags struct {
	title   string
	author  string
	subject string
	date    string
}

// passwordFlags holds the password pair.
type passwordFlags struct {
	user    string
	confirm string
}

// mergeFlags holds all flags for the merge and watch commands.
type mergeFlags struct {
	common     commonFlags
	output     string
	maxSources int
	page       pageFlags
	numbers    numberFlags
	metadata   metadataFlags
	password   passwordFlags
	debounce   time.Duration // watch only
}

// batchFlags holds flags for the batch command.
type batchFlags struct {
	common     commonFlags
	workers    int
	maxSources int
}

// inspectFlags holds flags for the inspect command.
type inspectFlags struct {
	format string
}

// marginValues collects margin flags before their "set" state is known.
type marginValues struct {
	all, top, right, bottom, left float64
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log assembly stages")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags, m *marginValues) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size for images: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&m.all, "margin", 0, "all margins in inches")
	fs.Float64Var(&m.top, "margin-top", 0, "top margin in inches")
	fs.Float64Var(&m.right, "margin-right", 0, "right margin in inches")
	fs.Float64Var(&m.bottom, "margin-bottom", 0, "bottom margin in inches")
	fs.Float64Var(&m.left, "margin-left", 0, "left margin in inches")
}

// resolveMarginFlags keeps only the margin flags given on the command line,
// so an explicit 0 overrides the config file.
func resolveMarginFlags(fs *flag.FlagSet, f *pageFlags, m *marginValues) {
	pick := func(name string, v float64) *float64 {
		if !fs.Changed(name) {
			return nil
		}
		return &v
	}
	f.margin = pick("margin", m.all)
	f.top = pick("margin-top", m.top)
	f.right = pick("margin-right", m.right)
	f.bottom = pick("margin-bottom", m.bottom)
	f.left = pick("margin-left", m.left)
}

// addNumberFlags adds page numbering flags to a FlagSet.
func addNumberFlags(fs *flag.FlagSet, f *numberFlags) {
	fs.BoolVarP(&f.enabled, "page-numbers", "n", false, "stamp page numbers")
	fs.StringVar(&f.position, "number-position", "", "page number corner: bottom-left, bottom-right")
	fs.BoolVar(&f.disabled, "no-page-numbers", false, "disable page numbers")
}

// addMetadataFlags adds document information flags to a FlagSet.
func addMetadataFlags(fs *flag.FlagSet, f *metadataFlags) {
	fs.StringVar(&f.title, "title", "", "document title")
	fs.StringVar(&f.author, "author", "", "document author")
	fs.StringVar(&f.subject, "subject", "", "document subject")
	fs.StringVar(&f.date, "date", "", "creation date (\"auto\" = today)")
}

// addPasswordFlags adds password flags to a FlagSet.
func addPasswordFlags(fs *flag.FlagSet, f *passwordFlags) {
	fs.StringVar(&f.user, "password", "", "user password (not applied)")
	fs.StringVar(&f.confirm, "password-confirm", "", "repeat the user password")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseError marks flag errors as usage errors. flag.ErrHelp passes through.
func parseError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// parseMergeFlags parses merge and watch flags and returns positional args.
func parseMergeFlags(name string, args []string, stderr io.Writer) (*mergeFlags, []string, error) {
	usage := printMergeUsage
	if name == "watch" {
		usage = printWatchUsage
	}
	fs := newFlagSet(name, stderr, usage)
	f := &mergeFlags{}
	var margins marginValues

	fs.StringVarP(&f.output, "output", "o", "", "output file (default: merged.pdf)")
	fs.IntVar(&f.maxSources, "max-sources", 0, "files per document (0 = default)")
	if name == "watch" {
		fs.DurationVar(&f.debounce, "debounce", defaultDebounce, "wait after a change before rebuilding")
	}

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page, &margins)
	addNumberFlags(fs, &f.numbers)
	addMetadataFlags(fs, &f.metadata)
	addPasswordFlags(fs, &f.password)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	resolveMarginFlags(fs, &f.page, &margins)

	return f, fs.Args(), nil
}

// parseBatchFlags parses batch command flags and returns positional args.
func parseBatchFlags(args []string, stderr io.Writer) (*batchFlags, []string, error) {
	fs := newFlagSet("batch", stderr, printBatchUsage)
	f := &batchFlags{}

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel jobs (0 = auto)")
	fs.IntVar(&f.maxSources, "max-sources", 0, "files per document (0 = default)")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// parseInspectFlags parses inspect command flags and returns positional args.
func parseInspectFlags(args []string, stderr io.Writer) (*inspectFlags, []string, error) {
	fs := newFlagSet("inspect", stderr, printInspectUsage)
	f := &inspectFlags{}

	fs.StringVarP(&f.format, "format", "f", "text", "output format: text, yaml")

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}
