package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agenthands/kinship/internal/core"
	"github.com/agenthands/kinship/internal/core/model"
	"github.com/agenthands/kinship/internal/render"
	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-json"
)

type options struct {
	snapshot      string
	asOf          time.Time
	format        string
	summary       bool
	hubs          int
	introductions int
	watch         bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	var asOf string

	fs := flag.NewFlagSet("kinship", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.snapshot, "snapshot", "", "Snapshot JSON file to analyze (- reads stdin)")
	fs.StringVar(&asOf, "as-of", "", "Reference time for recency windows (RFC 3339, default now)")
	fs.StringVar(&opts.format, "format", "json", "Output format: json or text")
	fs.BoolVar(&opts.summary, "summary", false, "Print only the insights summary")
	fs.IntVar(&opts.hubs, "hubs", 0, "Print the top N hubs")
	fs.IntVar(&opts.introductions, "introductions", 0, "Print the top N introduction suggestions")
	fs.BoolVar(&opts.watch, "watch", false, "Re-run whenever the snapshot file changes")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: kinship -snapshot file.json [-summary|-hubs N|-introductions N] [-as-of RFC3339] [-format json|text] [-watch]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.snapshot == "" {
		fs.Usage()
		return opts, errors.New("-snapshot is required")
	}
	if opts.format != "json" && opts.format != "text" {
		return opts, fmt.Errorf("unknown format %q", opts.format)
	}
	if opts.hubs < 0 || opts.introductions < 0 {
		return opts, errors.New("-hubs and -introductions must not be negative")
	}
	if opts.watch && opts.snapshot == "-" {
		return opts, errors.New("-watch needs a snapshot file, not stdin")
	}
	if asOf != "" {
		t, err := time.Parse(time.RFC3339, asOf)
		if err != nil {
			return opts, fmt.Errorf("invalid -as-of: %w", err)
		}
		opts.asOf = t
	}
	return opts, nil
}

func loadSnapshot(path string, stdin io.Reader) (*model.Snapshot, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snap, nil
}

// run analyzes the snapshot once and writes the selected section to stdout.
func run(opts options, stdin io.Reader, stdout io.Writer) error {
	snap, err := loadSnapshot(opts.snapshot, stdin)
	if err != nil {
		return err
	}

	asOf := opts.asOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	network := core.NewNetwork(nil, nil, opts.hubs, opts.introductions, nil)
	report := network.AnalyzeAt(snap, asOf)

	var value interface{}
	var text string
	switch {
	case opts.summary:
		value, text = report.Summary, render.Summary(report.Summary)
	case opts.hubs > 0:
		value, text = report.Hubs, render.Hubs(report.Hubs)
	case opts.introductions > 0:
		value, text = report.Introductions, render.Introductions(report.Introductions)
	default:
		value, text = report, render.Report(report)
	}

	if opts.format == "text" {
		_, err := fmt.Fprintln(stdout, text)
		return err
	}

	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(out))
	return err
}

// watch re-runs the analysis whenever the snapshot file is written or
// replaced. The parent directory is watched so editors that swap files in
// place are still seen.
func watch(opts options, stdout, stderr io.Writer) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target, err := filepath.Abs(opts.snapshot)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	if err := run(opts, nil, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	for {
		select {
		case evt, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != target || evt.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := run(opts, nil, stdout); err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(stderr, "watch error: %v\n", err)
		}
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if opts.watch {
		err = watch(opts, os.Stdout, os.Stderr)
	} else {
		err = run(opts, os.Stdin, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
