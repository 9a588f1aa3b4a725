// Package sink writes extracted rows to an output artifact.
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jamesainslie/go-sandhi"
)

// ErrUnknownFormat indicates an output format no sink implements.
var ErrUnknownFormat = errors.New("sink: unknown format")

// Output formats.
const (
	FormatCSV    = "csv"
	FormatTSV    = "tsv"
	FormatSQLite = "sqlite"
	FormatPB     = "pb"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatCSV, FormatTSV, FormatSQLite, FormatPB}
}

// Sink receives rows in emission order. Rows are durable only after Close
// returns nil. Abort discards everything written since Open and leaves a
// previous artifact at the same path unchanged. Call exactly one of the two.
type Sink interface {
	Write(ctx context.Context, row sandhi.Row) error
	Close() error
	Abort() error
}

// Run identifies the extraction run that produces an artifact.
type Run struct {
	ID        string
	StartedAt time.Time
	Input     string
}

// Open creates the sink for format at path. csv, tsv and pb artifacts are
// written to a temporary file and replace an existing file only on Close;
// a sqlite database accumulates runs.
func Open(ctx context.Context, format, path string, run Run) (Sink, error) {
	switch format {
	case FormatCSV, "":
		return openDelimited(path, ',')
	case FormatTSV:
		return openDelimited(path, '\t')
	case FormatSQLite:
		return openSQLite(ctx, path, run)
	case FormatPB:
		return openPB(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
