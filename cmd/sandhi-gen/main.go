package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jamesainslie/go-sandhi"
	"github.com/jamesainslie/go-sandhi/internal/config"
	"github.com/jamesainslie/go-sandhi/internal/logging"
	"github.com/jamesainslie/go-sandhi/internal/progress"
	"github.com/jamesainslie/go-sandhi/internal/report"
	"github.com/jamesainslie/go-sandhi/internal/sink"
	"github.com/jamesainslie/go-sandhi/translit"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK     = 0
	exitFatal  = 1
	exitFailed = 2 // some files failed and -strict was set
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sandhi-gen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath  = fs.String("config", "", "Path to YAML config file (optional)")
		input       = fs.String("input", "", "Corpus root directory (overrides config)")
		output      = fs.String("output", "", "Output file (overrides config)")
		format      = fs.String("format", "", "Output format: "+strings.Join(sink.Formats(), ", ")+" (overrides config)")
		ext         = fs.String("ext", "", "Comma-separated corpus file extensions (overrides config)")
		from        = fs.String("from", "", "Source scheme (overrides config)")
		to          = fs.String("to", "", "Target scheme (overrides config)")
		reportPath  = fs.String("report", "", "Write a YAML run report to this path (overrides config)")
		showProg    = fs.Bool("progress", false, "Show per-file progress on stderr (overrides config)")
		strict      = fs.Bool("strict", false, "Exit with status 2 if any file failed (overrides config)")
		logLevel    = fs.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
		showVersion = fs.Bool("version", false, "Print version and exit")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFatal
	}

	if *showVersion {
		fmt.Fprintf(stdout, "sandhi-gen %s (%s, %s)\n", version, commit, date)
		return exitOK
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFatal
	}

	// Flags override config only when given explicitly.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.Dir = *input
		case "output":
			cfg.Output.Path = *output
		case "format":
			cfg.Output.Format = *format
		case "ext":
			cfg.Input.Extensions = splitList(*ext)
		case "from":
			cfg.Translit.From = *from
		case "to":
			cfg.Translit.To = *to
		case "report":
			cfg.Output.Report = *reportPath
		case "progress":
			cfg.Output.Progress = *showProg
		case "strict":
			cfg.Output.Strict = *strict
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFatal
	}

	logger := logging.New(stderr, cfg.Log)
	res, err := generate(ctx, cfg, logger, stderr)
	if err != nil {
		logger.Error("generation failed", slog.String("error", err.Error()))
		return exitFatal
	}

	fmt.Fprintf(stdout, "Number of entries: %d\n", res.Rows)

	if len(res.Failed) > 0 {
		logger.Warn("some files were skipped", slog.Int("failed", len(res.Failed)))
		if cfg.Output.Strict {
			return exitFailed
		}
	}
	return exitOK
}

// generate runs one extraction from cfg.Input to cfg.Output and writes the
// report if one is configured.
func generate(ctx context.Context, cfg *config.Config, logger *slog.Logger, stderr io.Writer) (sandhi.RunResult, error) {
	from, _ := translit.ParseScheme(cfg.Translit.From)
	to, _ := translit.ParseScheme(cfg.Translit.To)

	term := progress.NewTerminal(stderr, cfg.Output.Progress)
	ex, err := sandhi.New(
		sandhi.WithSchemes(from, to),
		sandhi.WithExtensions(cfg.Input.Extensions...),
		sandhi.WithLogger(logger),
		sandhi.WithObserver(term),
	)
	if err != nil {
		return sandhi.RunResult{}, err
	}

	run := report.Run{
		ID:        report.NewRunID(),
		StartedAt: time.Now(),
		Input:     cfg.Input.Dir,
		Output:    cfg.Output.Path,
		Format:    cfg.Output.Format,
	}
	logger.Info("starting run",
		slog.String("run_id", run.ID),
		slog.String("input", run.Input),
		slog.String("output", run.Output),
		slog.String("format", run.Format),
	)

	// Discover first so a bad input never touches the output.
	paths, err := ex.Discover(cfg.Input.Dir)
	if err != nil {
		return sandhi.RunResult{}, err
	}
	if len(paths) == 0 {
		logger.Warn("no corpus files found",
			slog.String("root", cfg.Input.Dir),
			slog.Any("extensions", cfg.Input.Extensions),
		)
	}

	out, err := sink.Open(ctx, cfg.Output.Format, cfg.Output.Path, sink.Run{
		ID:        run.ID,
		StartedAt: run.StartedAt,
		Input:     run.Input,
	})
	if err != nil {
		return sandhi.RunResult{}, fmt.Errorf("open output: %w", err)
	}

	res, err := ex.ExtractPaths(ctx, paths, func(row sandhi.Row) error {
		return out.Write(ctx, row)
	})
	if err != nil {
		if abortErr := out.Abort(); abortErr != nil {
			err = errors.Join(err, fmt.Errorf("abort output: %w", abortErr))
		}
	} else if closeErr := out.Close(); closeErr != nil {
		err = fmt.Errorf("close output: %w", closeErr)
	}
	term.RunFinish(err == nil, time.Since(run.StartedAt))
	if err != nil {
		return res, err
	}

	if cfg.Output.Report != "" {
		if err := report.Write(cfg.Output.Report, report.New(run, res)); err != nil {
			return res, err
		}
		logger.Debug("report written", slog.String("path", cfg.Output.Report))
	}
	return res, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
