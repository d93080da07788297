package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/schedify/internal/config"
	"github.com/a3tai/schedify/internal/export"
	"github.com/a3tai/schedify/internal/logging"
	"github.com/a3tai/schedify/internal/pdf"
	"github.com/a3tai/schedify/internal/schedule"
)

type options struct {
	format   string
	out      string
	fromJSON bool
	verbose  bool
	input    string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		printUsage(stderr)
		return 2
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	log, err := logging.New(level, logging.FormatText, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	parsed, report, err := load(opts, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.verbose && report != nil {
		printReport(stderr, report)
	}
	if !report.Complete() {
		fmt.Fprintf(stderr, "Warning: text of page(s) %v could not be read; courses on them are missing\n", report.FailedPages)
	}

	if err := write(opts, parsed, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("schedule_extract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.format, "format", "text", "Output format: text, json, xlsx")
	fs.StringVar(&opts.out, "out", "", "Write output to FILE instead of stdout (xlsx defaults to <input>.xlsx)")
	fs.BoolVar(&opts.fromJSON, "from-json", false, "Read a previously exported JSON schedule instead of a PDF")
	fs.BoolVar(&opts.verbose, "verbose", false, "Log extraction details and skipped rows to stderr")
	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch opts.format {
	case "text", "json", "xlsx":
	default:
		return nil, fmt.Errorf("unsupported output format: %s", opts.format)
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("exactly one input file is required")
	}
	opts.input = fs.Arg(0)
	return opts, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  schedule_extract [-format text|json|xlsx] [-out FILE] [-from-json] [-verbose] FILE")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  schedule_extract cor.pdf")
	fmt.Fprintln(w, "  schedule_extract -format json -out cor.json cor.pdf")
	fmt.Fprintln(w, "  schedule_extract -from-json -format xlsx cor.json")
}

// load returns the schedule from a PDF, or from a JSON export when -from-json is set
func load(opts *options, log logrus.FieldLogger) (*schedule.ParsedSchedule, *schedule.Report, error) {
	absPath, err := filepath.Abs(opts.input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if opts.fromJSON {
		data, err := os.ReadFile(absPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", opts.input, err)
		}
		parsed, err := schedule.DecodeJSON(data)
		if err != nil {
			return nil, nil, err
		}
		return parsed, nil, nil
	}

	svc, err := pdf.NewService(pdf.ServiceConfig{
		MaxFileSize: config.DefaultMaxFileSize,
		Directory:   filepath.Dir(absPath),
		PageWorkers: config.DefaultPageWorkers,
		Logger:      log,
	})
	if err != nil {
		return nil, nil, err
	}

	result, err := svc.ExtractSchedule(context.Background(), pdf.ScheduleFileRequest{Path: absPath})
	if err != nil {
		return nil, nil, err
	}
	return result.Schedule, result.Report, nil
}

func write(opts *options, parsed *schedule.ParsedSchedule, stdout io.Writer) error {
	var data []byte
	switch opts.format {
	case "text":
		data = []byte(schedule.Summary(parsed))
	case "json":
		encoded, err := json.MarshalIndent(parsed, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode schedule: %w", err)
		}
		data = append(encoded, '\n')
	case "xlsx":
		book, err := export.WriteXLSX(parsed)
		if err != nil {
			return err
		}
		if opts.out == "" {
			base := filepath.Base(opts.input)
			opts.out = strings.TrimSuffix(base, filepath.Ext(base)) + ".xlsx"
		}
		data = book
	}

	if opts.out == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.out, err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", opts.out)
	return nil
}

func printReport(w io.Writer, report *schedule.Report) {
	fmt.Fprintf(w, "Rows: %d candidate, %d matched, %d merged, %d skipped\n",
		report.CandidateRows, report.MatchedRows, report.MergedRows, len(report.SkippedRows))
	for _, row := range report.SkippedRows {
		fmt.Fprintf(w, "  skipped #%d (%s): %s\n", row.Index, row.Reason, row.Text)
	}
}
