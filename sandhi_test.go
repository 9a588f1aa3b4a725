package sandhi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-sandhi/chain"
	"github.com/jamesainslie/go-sandhi/translit"
)

const testCorpusDir = "testdata/corpus"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func collect(rows *[]Row) func(Row) error {
	return func(r Row) error {
		*rows = append(*rows, r)
		return nil
	}
}

func TestNew(t *testing.T) {
	ex, err := New()
	require.NoError(t, err)
	require.NotNil(t, ex)
	assert.NotNil(t, ex.conv)
	assert.Equal(t, []string{".conllu"}, ex.extensions)
}

func TestNew_UnsupportedScheme(t *testing.T) {
	_, err := New(WithSchemes(translit.IAST, translit.Scheme("velthuis")))
	require.Error(t, err)
	assert.ErrorIs(t, err, translit.ErrUnsupportedScheme)
}

func TestExtractReader(t *testing.T) {
	doc := strings.Join([]string{
		"# text = rāmasya",
		"1-2\trāmasya\t_\t_\t_\t_\t_\t_\t_\t_",
		"1\trāma\t_\t_\t_\t_\t_\t_\t_\tUnsandhied=rāma",
		"2\tsya\t_\t_\t_\t_\t_\t_\t_\tUnsandhied=asya",
		"this line is not a token line",
		"",
	}, "\n")

	ex, err := New(WithLogger(quietLogger()))
	require.NoError(t, err)

	res, err := ex.ExtractReader(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []chain.Pair{{Word: "रामस्य", Split: "राम+अस्य"}}, res.Pairs)
	assert.Equal(t, 1, res.Stats.SkippedLines)
	assert.Equal(t, 3, res.Stats.Records)
	assert.Equal(t, 5, res.Stats.Lines)
}

func TestExtractReader_ConversionFailure(t *testing.T) {
	errBad := errors.New("bad romanization")
	ex, err := New(WithConverter(chain.ConverterFunc(func(s string) (string, error) {
		if strings.Contains(s, "x") {
			return "", errBad
		}
		return s, nil
	})))
	require.NoError(t, err)

	_, err = ex.ExtractReader(context.Background(), strings.NewReader("1\t'xa\t_\tUnsandhied=xa\n"))
	assert.ErrorIs(t, err, errBad)
}

func TestExtractFile_Missing(t *testing.T) {
	ex, err := New()
	require.NoError(t, err)

	_, err = ex.ExtractFile(context.Background(), filepath.Join(t.TempDir(), "missing.conllu"))
	assert.ErrorIs(t, err, ErrFileFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtractCorpus(t *testing.T) {
	ex, err := New(WithLogger(quietLogger()))
	require.NoError(t, err)

	var rows []Row
	run, err := ex.ExtractCorpus(context.Background(), testCorpusDir, collect(&rows))
	require.NoError(t, err)

	want := []Row{
		{Word: "व", Split: "इव", Source: filepath.Join(testCorpusDir, "nested", "orphan.conllu")},
		{Word: "रामोऽपि", Split: "रामः+अपि", Source: filepath.Join(testCorpusDir, "nested", "orphan.conllu")},
		{Word: "रामस्य", Split: "राम+अस्य", Source: filepath.Join(testCorpusDir, "ramayana.conllu")},
		{Word: "तद्ऽपि", Split: "अपि", Source: filepath.Join(testCorpusDir, "ramayana.conllu")},
	}
	assert.Equal(t, want, rows)
	assert.Equal(t, 2, run.Files)
	assert.Equal(t, 4, run.Rows)
	assert.Empty(t, run.Failed)
	assert.Equal(t, 1, run.Stats.OrphanElisions)
	assert.Equal(t, 1, run.Stats.StandaloneMerges)
}

func TestExtractPaths_KeepsGivenOrder(t *testing.T) {
	ex, err := New(WithLogger(quietLogger()))
	require.NoError(t, err)

	paths := []string{
		filepath.Join(testCorpusDir, "ramayana.conllu"),
		filepath.Join(testCorpusDir, "nested", "orphan.conllu"),
	}
	var rows []Row
	run, err := ex.ExtractPaths(context.Background(), paths, collect(&rows))
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, paths[0], rows[0].Source)
	assert.Equal(t, paths[1], rows[3].Source)
	assert.Equal(t, 2, run.Files)
}

func TestExtractCorpus_FailingFileIsIsolated(t *testing.T) {
	dir := t.TempDir()
	good := "1\t'va\t_\t_\t_\t_\t_\t_\t_\tUnsandhied=iva\n"
	bad := "1\t'qa\t_\t_\t_\t_\t_\t_\t_\tUnsandhied=qa\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.conllu"), []byte(good), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.conllu"), []byte(bad), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.conllu"), []byte(good), 0o644))

	errBad := errors.New("cannot transliterate q")
	obs := &recordingObserver{}
	ex, err := New(
		WithLogger(quietLogger()),
		WithObserver(obs),
		WithConverter(chain.ConverterFunc(func(s string) (string, error) {
			if strings.Contains(s, "q") {
				return "", errBad
			}
			return s, nil
		})),
	)
	require.NoError(t, err)

	var rows []Row
	run, err := ex.ExtractCorpus(context.Background(), dir, collect(&rows))
	require.NoError(t, err)

	assert.Len(t, rows, 2)
	assert.Equal(t, 2, run.Files)
	assert.Equal(t, 2, run.Rows)
	require.Len(t, run.Failed, 1)
	assert.Equal(t, filepath.Join(dir, "b.conllu"), run.Failed[0].Path)
	assert.ErrorIs(t, run.Failed[0].Err, ErrFileFailed)
	assert.ErrorIs(t, run.Failed[0].Err, errBad)

	assert.Equal(t, []string{"start 1/3", "done 1/3 rows=1", "start 2/3", "fail 2/3", "start 3/3", "done 3/3 rows=1"}, obs.events)
}

func TestExtractCorpus_EmitErrorStopsRun(t *testing.T) {
	ex, err := New(WithLogger(quietLogger()))
	require.NoError(t, err)

	errSink := errors.New("disk full")
	calls := 0
	_, err = ex.ExtractCorpus(context.Background(), testCorpusDir, func(Row) error {
		calls++
		return errSink
	})
	assert.ErrorIs(t, err, errSink)
	assert.Equal(t, 1, calls)
}

func TestExtractCorpus_Canceled(t *testing.T) {
	ex, err := New(WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ex.ExtractCorpus(ctx, testCorpusDir, func(Row) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractCorpus_NoInput(t *testing.T) {
	ex, err := New()
	require.NoError(t, err)

	_, err = ex.ExtractCorpus(context.Background(), "", func(Row) error { return nil })
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestExtractCorpus_EmptyDirectory(t *testing.T) {
	ex, err := New(WithLogger(quietLogger()))
	require.NoError(t, err)

	run, err := ex.ExtractCorpus(context.Background(), t.TempDir(), func(Row) error { return nil })
	require.NoError(t, err)
	assert.Zero(t, run.Rows)
	assert.Zero(t, run.Files)
}

func TestWithExtensions(t *testing.T) {
	ex, err := New(WithExtensions(".txt"), WithLogger(quietLogger()))
	require.NoError(t, err)

	paths, err := ex.Discover(testCorpusDir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(testCorpusDir, "nested", "README.txt")}, paths)
}

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) FileStarted(index, total int, _ string) {
	o.events = append(o.events, fmt.Sprintf("start %d/%d", index, total))
}

func (o *recordingObserver) FileDone(index, total int, _ string, rows int, err error) {
	if err != nil {
		o.events = append(o.events, fmt.Sprintf("fail %d/%d", index, total))
		return
	}
	o.events = append(o.events, fmt.Sprintf("done %d/%d rows=%d", index, total, rows))
}
