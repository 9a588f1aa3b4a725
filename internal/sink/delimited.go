package sink

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/jamesainslie/go-sandhi"
)

// Header is the first record of csv and tsv artifacts.
var Header = []string{"word", "split"}

type delimitedSink struct {
	f *pendingFile
	w *csv.Writer
}

func openDelimited(path string, comma rune) (*delimitedSink, error) {
	f, err := createPending(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	w.Comma = comma
	if err := w.Write(Header); err != nil {
		_ = f.abort()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &delimitedSink{f: f, w: w}, nil
}

func (s *delimitedSink) Write(_ context.Context, row sandhi.Row) error {
	return s.w.Write([]string{row.Word, row.Split})
}

func (s *delimitedSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return errors.Join(err, s.f.abort())
	}
	return s.f.commit()
}

func (s *delimitedSink) Abort() error {
	return s.f.abort()
}
