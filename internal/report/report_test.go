package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-sandhi"
	"github.com/jamesainslie/go-sandhi/chain"
)

func TestNewRunID(t *testing.T) {
	prev := NewRunID()
	for range 100 {
		id := NewRunID()
		_, err := ulid.ParseStrict(id)
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}
}

func sampleRun() (Run, sandhi.RunResult) {
	run := Run{
		ID:        NewRunID(),
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Input:     "dcs",
		Output:    "sandhi_data.csv",
		Format:    "csv",
	}
	res := sandhi.RunResult{
		Files:    2,
		Rows:     4,
		Duration: 1500 * time.Millisecond,
		Failed: []sandhi.FailedFile{
			{Path: "dcs/bad.conllu", Err: errors.New("sandhi: file failed: dcs/bad.conllu: boom")},
		},
		Stats: sandhi.FileStats{
			Stats:        chain.Stats{Records: 9, ChainsOpened: 3, PairsEmitted: 4, OrphanElisions: 1},
			Lines:        14,
			SkippedLines: 2,
		},
	}
	return run, res
}

func TestNew(t *testing.T) {
	run, res := sampleRun()
	r := New(run, res)

	assert.Equal(t, run.ID, r.RunID)
	assert.Equal(t, 4, r.Rows)
	assert.Equal(t, 2, r.Files)
	assert.Equal(t, []FailedFile{{Path: "dcs/bad.conllu", Error: "sandhi: file failed: dcs/bad.conllu: boom"}}, r.Failed)
	assert.Equal(t, Stats{
		Lines:          14,
		SkippedLines:   2,
		Records:        9,
		ChainsOpened:   3,
		PairsEmitted:   4,
		OrphanElisions: 1,
	}, r.Stats)
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	run, res := sampleRun()
	want := New(run, res)

	require.NoError(t, Write(path, want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "run_id: "+run.ID))
	assert.Contains(t, string(raw), "orphan_elisions: 1")

	got, err := Read(path)
	require.NoError(t, err)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))
	got.StartedAt = want.StartedAt
	assert.Equal(t, want, got)
}

func TestWrite_NoFailedKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	run, res := sampleRun()
	res.Failed = nil

	require.NoError(t, Write(path, New(run, res)))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "failed:")
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
