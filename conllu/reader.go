package conllu

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single annotation line. DCS lines carry long MISC
// columns, well past bufio's 64 KiB default on some files.
const maxLineSize = 1 << 20

// Scanner yields the annotation lines of a document: trimmed, non-blank,
// and not starting with the comment marker.
type Scanner struct {
	sc    *bufio.Scanner
	line  string
	total int
}

// NewScanner wraps r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{sc: sc}
}

// Scan advances to the next annotation line.
func (s *Scanner) Scan() bool {
	for s.sc.Scan() {
		s.total++
		line := strings.TrimSpace(s.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.line = line
		return true
	}
	return false
}

// Text returns the current annotation line.
func (s *Scanner) Text() string { return s.line }

// Total returns the number of raw lines read so far, including discarded ones.
func (s *Scanner) Total() int { return s.total }

// Err returns the first non-EOF read error.
func (s *Scanner) Err() error {
	if err := s.sc.Err(); err != nil {
		return fmt.Errorf("scanning lines: %w", err)
	}
	return nil
}

// ReadRecords parses every token line in r, skipping lines that do not
// match. skipped counts the annotation lines that were not token lines.
func ReadRecords(r io.Reader) (records []Record, skipped int, err error) {
	sc := NewScanner(r)
	for sc.Scan() {
		rec, ok := ParseLine(sc.Text())
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, err
	}
	return records, skipped, nil
}
