package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/jamesainslie/go-sandhi"
	"github.com/jamesainslie/go-sandhi/conllu"
	"github.com/jamesainslie/go-sandhi/internal/sink"
	"github.com/jamesainslie/go-sandhi/translit"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sandhi-inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)

	mode := fs.String("mode", "pairs", "Mode: records, pairs or dump")
	from := fs.String("from", string(translit.IAST), "Source scheme (pairs mode)")
	to := fs.String("to", string(translit.Devanagari), "Target scheme (pairs mode)")
	format := fs.String("format", sink.FormatPB, "Artifact format: pb or sqlite (dump mode)")
	runID := fs.String("run", "", "Run id to dump; latest run when empty (dump mode, sqlite)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: sandhi-inspect [-mode records|pairs|dump] [OPTIONS] FILE")
		fs.PrintDefaults()
		return 1
	}
	path := fs.Arg(0)

	var err error
	switch *mode {
	case "records":
		err = printRecords(path, stdout)
	case "pairs":
		err = printPairs(ctx, path, *from, *to, stdout)
	case "dump":
		err = dump(ctx, path, *format, *runID, stdout)
	default:
		err = fmt.Errorf("unknown mode: %s", *mode)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// printRecords lists the token lines of one file the way the reconstructor
// sees them.
func printRecords(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }() // read-only

	records, skipped, err := conllu.ReadRecords(f)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFORM\tUNSANDHIED\tKIND")
	for _, r := range records {
		unsandhied := "-"
		if r.HasUnsandhied {
			unsandhied = r.Unsandhied
		}
		kind := "single"
		switch {
		case r.IsMultiword():
			kind = "multiword"
		case r.IsContinuation():
			kind = "elided"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Form, unsandhied, kind)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nRecords: %d, skipped lines: %d\n", len(records), skipped)
	return nil
}

func printPairs(ctx context.Context, path, fromName, toName string, w io.Writer) error {
	from, err := translit.ParseScheme(fromName)
	if err != nil {
		return err
	}
	to, err := translit.ParseScheme(toName)
	if err != nil {
		return err
	}

	ex, err := sandhi.New(
		sandhi.WithSchemes(from, to),
		sandhi.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		return err
	}
	res, err := ex.ExtractFile(ctx, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Pairs (%d):\n", len(res.Pairs))
	for i, p := range res.Pairs {
		fmt.Fprintf(w, "  %d: %s\t%s\n", i+1, p.Word, p.Split)
	}
	s := res.Stats
	fmt.Fprintf(w, "Chains opened: %d, dropped: %d, standalone merges: %d, orphan elisions: %d\n",
		s.ChainsOpened, s.ChainsDropped, s.StandaloneMerges, s.OrphanElisions)
	return nil
}

// dump prints the rows stored in a pb or sqlite artifact.
func dump(ctx context.Context, path, format, runID string, w io.Writer) error {
	var rows []sandhi.Row
	switch format {
	case sink.FormatPB:
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }() // read-only
		if rows, err = sink.ReadRecords(f); err != nil {
			return err
		}
	case sink.FormatSQLite:
		var err error
		if rows, err = sink.ReadSQLite(ctx, path, runID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q cannot be dumped", sink.ErrUnknownFormat, format)
	}

	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Word, r.Split, r.Source)
	}
	fmt.Fprintf(w, "Rows: %d\n", len(rows))
	return nil
}
