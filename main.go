// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/alexferrari88/pymodernize/config"
	"github.com/alexferrari88/pymodernize/fixer"
	"github.com/alexferrari88/pymodernize/logger"
	"github.com/alexferrari88/pymodernize/report"
	"github.com/alexferrari88/pymodernize/scanner"
)

// Version is injected at build time via -ldflags
var Version = "dev"

type cliOptions struct {
	ext        string
	exclude    []string
	gitignore  bool
	workers    int
	format     string
	colorMode  string
	annotate   bool
	suggest    bool
	strict     bool
	configPath string
	logLevel   string
}

// exitError carries a non-default exit status out of RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &cliOptions{}
	cmd := &cobra.Command{
		Use:   "pymodernize [root]",
		Short: "Report Python 2 idioms left in a source tree",
		Long: `pymodernize walks a directory tree, checks every line of every Python file
against a fixed table of Python 2 detectors (print statements, xrange,
basestring, unicode, raw_input, bare except clauses) and prints the matches
grouped by file.

Findings are informational: the exit status is 0 unless --strict is given.
The root defaults to the current directory.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return run(cmd, root, opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&opts.ext, "ext", scanner.DefaultExtension, "File extension to scan.")
	f.StringSliceVar(&opts.exclude, "exclude", nil, "Directory names to skip (repeatable or comma-separated).")
	f.BoolVar(&opts.gitignore, "gitignore", false, "Skip paths matched by .gitignore files.")
	f.IntVar(&opts.workers, "workers", 0, "Number of files scanned in parallel (0 = one per CPU).")
	f.StringVar(&opts.format, "format", report.FormatText, "Output format: text, json or yaml.")
	f.StringVar(&opts.colorMode, "color", "auto", "Colorize text output: auto, always or never.")
	f.BoolVar(&opts.annotate, "annotate", false, "Label each match as code, string or comment using a Python parser.")
	f.BoolVar(&opts.suggest, "suggest", false, "Show a modernized version of lines that have a known replacement.")
	f.BoolVar(&opts.strict, "strict", false, "Exit with status 1 when any pattern is found.")
	f.StringVar(&opts.configPath, "config", "", "Path to a .toml or .yaml config file.")
	f.StringVar(&opts.logLevel, "log-level", "info", "Diagnostics level on stderr: debug, info, warn or error.")

	return cmd
}

func run(cmd *cobra.Command, root string, opts *cliOptions, stdout, stderr io.Writer) error {
	startTime := time.Now()

	if !logger.ValidLevel(opts.logLevel) {
		return fmt.Errorf("invalid --log-level %q", opts.logLevel)
	}
	switch opts.format {
	case report.FormatText, report.FormatJSON, report.FormatYAML:
	default:
		return fmt.Errorf("invalid --format %q (want text, json or yaml)", opts.format)
	}
	useColor, err := resolveColor(opts.colorMode, stdout)
	if err != nil {
		return err
	}
	if opts.workers < 0 {
		return fmt.Errorf("invalid --workers %d", opts.workers)
	}

	log := logger.NewConsoleLogger(stderr, opts.logLevel)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	scanOpts := scanner.ScanOptions{Logger: log}
	if err := cfg.Apply(&scanOpts); err != nil {
		return fmt.Errorf("applying config: %w", err)
	}

	// Explicit flags win over the config file.
	flags := cmd.Flags()
	if flags.Changed("ext") {
		scanOpts.Extension = opts.ext
	}
	if flags.Changed("exclude") {
		scanOpts.Exclude = opts.exclude
	}
	if flags.Changed("gitignore") {
		scanOpts.UseGitignore = opts.gitignore
	}
	if flags.Changed("workers") {
		scanOpts.Workers = opts.workers
	}
	if flags.Changed("annotate") {
		scanOpts.Annotate = opts.annotate
	}

	s, err := scanner.New(scanOpts)
	if err != nil {
		return fmt.Errorf("initializing scanner: %w", err)
	}

	log.Infof("Scanning local directory: %s", root)
	result, err := s.ScanDirectory(cmd.Context(), root)
	if err != nil {
		return err
	}

	var fx *fixer.Fixer
	if opts.suggest {
		fx = fixer.New(cfg.Replacements)
	}
	textOpts := report.TextOptions{
		Color:       useColor,
		ShowContext: s.Options.Annotate,
		Fixer:       fx,
	}
	if err := report.Write(stdout, opts.format, result, textOpts); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	found := result.MatchCount()
	log.Infof("Scan complete. Found %d matches in %d of %d files in %.2fs.",
		found, len(result.Files), result.FilesScanned, time.Since(startTime).Seconds())

	if opts.strict && found > 0 {
		return &exitError{code: 1, err: fmt.Errorf("strict mode: %d legacy patterns found", found)}
	}
	return nil
}

// resolveColor maps --color to a yes/no for the text report.
func resolveColor(mode string, w io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	default:
		return false, fmt.Errorf("invalid --color %q (want auto, always or never)", mode)
	}
}
