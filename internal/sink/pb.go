package sink

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/jamesainslie/go-sandhi"
)

// Field numbers of one pb record.
const (
	fieldWord   protowire.Number = 1
	fieldSplit  protowire.Number = 2
	fieldSource protowire.Number = 3
)

// pbSink writes varint-length-prefixed protobuf messages, one per row.
type pbSink struct {
	f   *pendingFile
	w   *bufio.Writer
	msg []byte
	out []byte
}

func openPB(path string) (*pbSink, error) {
	f, err := createPending(path)
	if err != nil {
		return nil, err
	}
	return &pbSink{f: f, w: bufio.NewWriter(f)}, nil
}

func (s *pbSink) Write(_ context.Context, row sandhi.Row) error {
	s.msg = appendRecord(s.msg[:0], row)
	s.out = protowire.AppendBytes(s.out[:0], s.msg)
	_, err := s.w.Write(s.out)
	return err
}

func (s *pbSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return errors.Join(err, s.f.abort())
	}
	return s.f.commit()
}

func (s *pbSink) Abort() error {
	return s.f.abort()
}

func appendRecord(b []byte, row sandhi.Row) []byte {
	b = protowire.AppendTag(b, fieldWord, protowire.BytesType)
	b = protowire.AppendString(b, row.Word)
	b = protowire.AppendTag(b, fieldSplit, protowire.BytesType)
	b = protowire.AppendString(b, row.Split)
	if row.Source != "" {
		b = protowire.AppendTag(b, fieldSource, protowire.BytesType)
		b = protowire.AppendString(b, row.Source)
	}
	return b
}

// ReadRecords decodes a pb artifact. Unknown fields are skipped.
func ReadRecords(r io.Reader) ([]sandhi.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rows []sandhi.Row
	for len(data) > 0 {
		msg, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return nil, fmt.Errorf("record %d: %w", len(rows), protowire.ParseError(n))
		}
		data = data[n:]

		row, err := decodeRecord(msg)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(rows), err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeRecord(b []byte) (sandhi.Row, error) {
	var row sandhi.Row
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return sandhi.Row{}, protowire.ParseError(n)
		}
		b = b[n:]

		if typ != protowire.BytesType || num < fieldWord || num > fieldSource {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return sandhi.Row{}, protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeString(b)
		if n < 0 {
			return sandhi.Row{}, protowire.ParseError(n)
		}
		b = b[n:]

		switch num {
		case fieldWord:
			row.Word = v
		case fieldSplit:
			row.Split = v
		case fieldSource:
			row.Source = v
		}
	}
	return row, nil
}
