package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/jamesainslie/go-sandhi"
)

var testRows = []sandhi.Row{
	{Word: "रामस्य", Split: "राम+अस्य", Source: "dcs/a.conllu"},
	{Word: "तद्ऽपि", Split: "अपि", Source: "dcs/a.conllu"},
	{Word: "a,b", Split: `say "x"`, Source: "dcs/b.conllu"},
}

func writeAll(t *testing.T, format, path string, run Run, rows []sandhi.Row) {
	t.Helper()
	ctx := context.Background()

	s, err := Open(ctx, format, path, run)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, s.Write(ctx, r))
	}
	require.NoError(t, s.Close())
}

func newRun() Run {
	return Run{ID: ulid.Make().String(), StartedAt: time.Now(), Input: "dcs"}
}

func TestOpen_UnknownFormat(t *testing.T) {
	_, err := Open(context.Background(), "parquet", filepath.Join(t.TempDir(), "out"), Run{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDelimited(t *testing.T) {
	tests := []struct {
		format string
		comma  rune
	}{
		{FormatCSV, ','},
		{FormatTSV, '\t'},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out."+tt.format)
			writeAll(t, tt.format, path, newRun(), testRows)

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			r := csv.NewReader(f)
			r.Comma = tt.comma
			records, err := r.ReadAll()
			require.NoError(t, err)

			want := [][]string{
				{"word", "split"},
				{"रामस्य", "राम+अस्य"},
				{"तद्ऽपि", "अपि"},
				{"a,b", `say "x"`},
			}
			assert.Equal(t, want, records)
		})
	}
}

func TestDelimited_EmptyRunHasHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	writeAll(t, FormatCSV, path, newRun(), nil)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "word,split\n", string(data))
}

func TestDelimited_CreateFails(t *testing.T) {
	_, err := Open(context.Background(), FormatCSV, filepath.Join(t.TempDir(), "missing", "out.csv"), newRun())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPB_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pb")
	writeAll(t, FormatPB, path, newRun(), testRows)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := ReadRecords(f)
	require.NoError(t, err)
	assert.Equal(t, testRows, got)
}

func TestReadRecords_SkipsUnknownFields(t *testing.T) {
	var msg []byte
	msg = protowire.AppendTag(msg, 9, protowire.VarintType)
	msg = protowire.AppendVarint(msg, 42)
	msg = protowire.AppendTag(msg, fieldWord, protowire.BytesType)
	msg = protowire.AppendString(msg, "व")
	msg = protowire.AppendTag(msg, fieldSplit, protowire.BytesType)
	msg = protowire.AppendString(msg, "इव")

	got, err := ReadRecords(bytes.NewReader(protowire.AppendBytes(nil, msg)))
	require.NoError(t, err)
	assert.Equal(t, []sandhi.Row{{Word: "व", Split: "इव"}}, got)
}

func TestReadRecords_Truncated(t *testing.T) {
	frame := protowire.AppendBytes(nil, appendRecord(nil, testRows[0]))
	_, err := ReadRecords(bytes.NewReader(frame[:len(frame)-3]))
	assert.Error(t, err)
}

func TestReadRecords_Empty(t *testing.T) {
	got, err := ReadRecords(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pairs.db")

	first := newRun()
	writeAll(t, FormatSQLite, path, first, testRows[:1])
	second := newRun()
	writeAll(t, FormatSQLite, path, second, testRows[1:])

	got, err := ReadSQLite(ctx, path, first.ID)
	require.NoError(t, err)
	assert.Equal(t, testRows[:1], got)

	latest, err := ReadSQLite(ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, testRows[1:], latest)
}

func TestSQLite_AbortedRunIsInvisible(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pairs.db")

	good := newRun()
	writeAll(t, FormatSQLite, path, good, testRows)

	aborted := newRun()
	s, err := Open(ctx, FormatSQLite, path, aborted)
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, testRows[0]))
	require.NoError(t, s.Abort())

	got, err := ReadSQLite(ctx, path, aborted.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	latest, err := ReadSQLite(ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, testRows, latest)
}

func TestFileSinks_AbortKeepsPreviousArtifact(t *testing.T) {
	ctx := context.Background()
	for _, format := range []string{FormatCSV, FormatTSV, FormatPB} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "out."+format)
			writeAll(t, format, path, newRun(), testRows)
			before, err := os.ReadFile(path)
			require.NoError(t, err)

			s, err := Open(ctx, format, path, newRun())
			require.NoError(t, err)
			require.NoError(t, s.Write(ctx, sandhi.Row{Word: "x", Split: "y"}))
			require.NoError(t, s.Abort())

			after, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, before, after)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temporary file left behind")
		})
	}
}

func TestFileSinks_NothingVisibleBeforeClose(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.csv")

	s, err := Open(ctx, FormatCSV, path, newRun())
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, testRows[0]))

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, s.Close())
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestSQLite_RequiresRunID(t *testing.T) {
	_, err := Open(context.Background(), FormatSQLite, filepath.Join(t.TempDir(), "pairs.db"), Run{})
	assert.Error(t, err)
}
