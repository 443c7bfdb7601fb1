// Package cmd implements the CLI command structure for prdscan.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/nibzard/prdscan/internal/config"
	"github.com/nibzard/prdscan/internal/logging"
	"github.com/nibzard/prdscan/internal/report"
	"github.com/nibzard/prdscan/internal/scanner"
	"github.com/nibzard/prdscan/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the prdscan CLI with the process's standard streams.
func Run(ctx context.Context, args []string) error {
	return RunWithIO(ctx, args, os.Stdout, os.Stderr)
}

// RunWithIO executes the prdscan CLI writing the report to stdout and
// diagnostics and logs to stderr.
func RunWithIO(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("prdscan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	// If no args or first arg is a flag, use "scan" as default
	subcommand := "scan"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "scan":
		return scanCommand(cfg, remainingArgs, stdout, stderr)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "validate":
		return validateCommand(cfg, remainingArgs, stdout, stderr)
	case "config":
		return configCommand(cfg, remainingArgs, stdout, stderr)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// scanCommand scans the configured root and writes the report. Per-file
// problems are printed to stderr and never turn into an error, and neither
// does a failed write of the report.
func scanCommand(cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	logger := logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps)
	tasks := newScanner(cfg, logger, scanner.WriterDiagnostics(stderr)).Scan(cfg.Root)
	if err := report.Encode(stdout, tasks, cfg.ReportFormat()); err != nil {
		logger.Error("Failed to write report", "err", err)
	}
	return nil
}

// tuiCommand launches the read-only viewer.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	// The viewer owns the terminal, so traversal logs are dropped.
	logger := log.New(io.Discard)
	return ui.RunTUI(ctx, cfg.Root, func() ui.ScanResult {
		diags := &scanner.DiagnosticList{}
		tasks := newScanner(cfg, logger, diags).Scan(cfg.Root)
		return ui.ScanResult{Tasks: tasks, Diagnostics: diags.Lines()}
	})
}

// validateCommand checks a saved report against the report schema.
func validateCommand(cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("prdscan validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formatFlag := fs.String("format", "", "Report format (json, yaml); default from file extension")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("validate requires exactly one report file")
	}
	path := fs.Arg(0)

	format, err := reportFormatFor(path, *formatFlag, cfg.ReportFormat())
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	result := report.Validate(data, format)
	if !result.Valid {
		fmt.Fprintf(stdout, "%s: invalid\n", path)
		for _, verr := range result.Errors {
			fmt.Fprintf(stdout, "  - %v\n", verr)
		}
		return fmt.Errorf("report %s is invalid (%d errors)", path, len(result.Errors))
	}

	tasks, err := report.Decode(data, format)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: valid (%d pending tasks)\n", path, len(tasks))
	return nil
}

// configCommand prints the effective configuration or an example file.
func configCommand(cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("prdscan config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *example {
		_, err := io.WriteString(stdout, config.Example())
		return err
	}

	if len(cfg.ConfigFiles) == 0 {
		fmt.Fprintln(stdout, "# No config files found; showing defaults")
	}
	for _, path := range cfg.ConfigFiles {
		fmt.Fprintf(stdout, "# Loaded %s\n", path)
	}
	return cfg.Encode(stdout)
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "prdscan version %s\n", Version)
	return nil
}

func newScanner(cfg *config.Config, logger *log.Logger, diags scanner.Diagnostics) *scanner.Scanner {
	opts := append(cfg.ScannerOptions(),
		scanner.WithLogger(logger),
		scanner.WithDiagnostics(diags),
	)
	return scanner.New(afero.NewOsFs(), opts...)
}

// reportFormatFor picks the format of a saved report: an explicit flag
// wins, then the file extension, then the configured format.
func reportFormatFor(path, explicit string, fallback report.Format) (report.Format, error) {
	if explicit != "" {
		return report.ParseFormat(explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return report.FormatJSON, nil
	case ".yaml", ".yml":
		return report.FormatYAML, nil
	default:
		return fallback, nil
	}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "prdscan - report pending work from PRD files and Markdown checklists")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  prdscan [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  scan             Scan and print the pending work report (default command)")
	fmt.Fprintln(w, "  tui              Browse pending work in a terminal UI")
	fmt.Fprintln(w, "  validate <file>  Validate a saved report against the report schema")
	fmt.Fprintln(w, "  config           Show the effective configuration (-example for a sample file)")
	fmt.Fprintln(w, "  version          Show version information")
	fmt.Fprintln(w, "  help             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Per-file problems are written to stderr; the scan itself always succeeds.")
}
