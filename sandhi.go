package sandhi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jamesainslie/go-sandhi/chain"
	"github.com/jamesainslie/go-sandhi/conllu"
	"github.com/jamesainslie/go-sandhi/internal/corpus"
	"github.com/jamesainslie/go-sandhi/translit"
)

// ctxCheckInterval is how many annotation lines are read between context
// checks within one file.
const ctxCheckInterval = 4096

// Row is one output row: a pair plus the file it came from.
type Row struct {
	Word   string
	Split  string
	Source string
}

// FileStats counts what happened in one file or, summed, in a run.
type FileStats struct {
	chain.Stats
	Lines        int // raw lines, including blank and comment lines
	SkippedLines int // annotation lines that were not token lines
}

// Add accumulates o into s.
func (s *FileStats) Add(o FileStats) {
	s.Stats.Add(o.Stats)
	s.Lines += o.Lines
	s.SkippedLines += o.SkippedLines
}

// FileResult is the outcome of extracting one document.
type FileResult struct {
	Path  string
	Pairs []chain.Pair
	Stats FileStats
}

// FailedFile records a file skipped because of an error.
type FailedFile struct {
	Path string
	Err  error
}

// RunResult summarizes ExtractCorpus.
type RunResult struct {
	Files    int
	Rows     int
	Failed   []FailedFile
	Stats    FileStats
	Duration time.Duration
}

// Observer is told about per-file progress. It never affects results.
type Observer interface {
	FileStarted(index, total int, path string)
	FileDone(index, total int, path string, rows int, err error)
}

type nopObserver struct{}

func (nopObserver) FileStarted(int, int, string)          {}
func (nopObserver) FileDone(int, int, string, int, error) {}

// Extractor turns corpus files into (word, split) rows.
// It is safe for concurrent use.
type Extractor struct {
	conv       chain.Converter
	extensions []string
	logger     *slog.Logger
	observer   Observer
}

// New creates an Extractor.
func New(opts ...Option) (*Extractor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	conv := cfg.converter
	if conv == nil {
		tr, err := translit.New(cfg.from, cfg.to)
		if err != nil {
			return nil, fmt.Errorf("transliteration: %w", err)
		}
		conv = tr
	}

	return &Extractor{
		conv:       conv,
		extensions: cfg.extensions,
		logger:     cfg.logger,
		observer:   cfg.observer,
	}, nil
}

// ExtractReader reconstructs the pairs of one document read from r.
// Malformed lines are skipped; read and conversion errors are returned.
func (e *Extractor) ExtractReader(ctx context.Context, r io.Reader) (FileResult, error) {
	var res FileResult
	rec := chain.New(e.conv)
	sc := conllu.NewScanner(r)

	n := 0
	for sc.Scan() {
		n++
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return FileResult{}, err
			}
		}

		record, ok := conllu.ParseLine(sc.Text())
		if !ok {
			res.Stats.SkippedLines++
			continue
		}
		if err := rec.Feed(record); err != nil {
			return FileResult{}, err
		}
	}
	if err := sc.Err(); err != nil {
		return FileResult{}, err
	}
	if err := rec.Flush(); err != nil {
		return FileResult{}, err
	}

	res.Pairs = rec.Pairs()
	res.Stats.Stats = rec.Stats()
	res.Stats.Lines = sc.Total()
	return res, nil
}

// ExtractFile reconstructs the pairs of the document at path.
// Errors wrap ErrFileFailed.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("%w: %s: %w", ErrFileFailed, path, err)
	}
	defer func() { _ = f.Close() }() // read-only

	res, err := e.ExtractReader(ctx, f)
	if err != nil {
		return FileResult{}, fmt.Errorf("%w: %s: %w", ErrFileFailed, path, err)
	}
	res.Path = path
	return res, nil
}

// Discover lists the corpus files under root in processing order.
func (e *Extractor) Discover(root string) ([]string, error) {
	if root == "" {
		return nil, ErrNoInput
	}
	return corpus.Discover(root, e.extensions...)
}

// ExtractCorpus processes every corpus file under root in discovery order
// and hands each row to emit. A file that fails is logged and recorded in
// RunResult.Failed, and processing moves on; an emit error or context
// cancellation stops the run.
func (e *Extractor) ExtractCorpus(ctx context.Context, root string, emit func(Row) error) (RunResult, error) {
	paths, err := e.Discover(root)
	if err != nil {
		return RunResult{}, err
	}
	if len(paths) == 0 {
		e.logger.Warn("no corpus files found",
			slog.String("root", root),
			slog.Any("extensions", e.extensions),
		)
	}
	return e.ExtractPaths(ctx, paths, emit)
}

// ExtractPaths is ExtractCorpus over an already discovered file list,
// processed in the given order.
func (e *Extractor) ExtractPaths(ctx context.Context, paths []string, emit func(Row) error) (RunResult, error) {
	start := time.Now()
	var run RunResult

	total := len(paths)
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		e.observer.FileStarted(i+1, total, path)

		res, err := e.ExtractFile(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return run, ctx.Err()
			}
			e.logger.Error("skipping file",
				slog.String("file", path),
				slog.String("error", err.Error()),
			)
			run.Failed = append(run.Failed, FailedFile{Path: path, Err: err})
			e.observer.FileDone(i+1, total, path, 0, err)
			continue
		}

		for _, p := range res.Pairs {
			if err := emit(Row{Word: p.Word, Split: p.Split, Source: path}); err != nil {
				return run, fmt.Errorf("emit row from %s: %w", path, err)
			}
		}
		run.Files++
		run.Rows += len(res.Pairs)
		run.Stats.Add(res.Stats)

		e.logger.Debug("file processed",
			slog.String("file", path),
			slog.Int("rows", len(res.Pairs)),
			slog.Int("skipped_lines", res.Stats.SkippedLines),
			slog.Int("chains_dropped", res.Stats.ChainsDropped),
		)
		e.observer.FileDone(i+1, total, path, len(res.Pairs), nil)
	}

	run.Duration = time.Since(start)
	e.logger.Info("corpus processed",
		slog.Int("files", run.Files),
		slog.Int("failed", len(run.Failed)),
		slog.Int("rows", run.Rows),
		slog.Duration("duration", run.Duration),
	)
	return run, nil
}
