package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-sandhi"
	"github.com/jamesainslie/go-sandhi/internal/report"
	"github.com/jamesainslie/go-sandhi/internal/sink"
)

const sample = "../../testdata/corpus/ramayana.conllu"

func runInspect(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Records(t *testing.T) {
	code, out, errOut := runInspect(t, "-mode", "records", sample)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "1-2")
	assert.Contains(t, out, "multiword")
	assert.Contains(t, out, "elided")
	assert.Contains(t, out, "Records: 7, skipped lines: 0")
}

func TestRun_Pairs(t *testing.T) {
	code, out, errOut := runInspect(t, sample)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Pairs (2):")
	assert.Contains(t, out, "  1: रामस्य\tराम+अस्य\n")
	assert.Contains(t, out, "  2: तद्ऽपि\tअपि\n")
}

func TestRun_PairsIdentityScheme(t *testing.T) {
	code, out, errOut := runInspect(t, "-to", "iast", sample)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "  1: rāmasya\trāma+asya\n")
}

func writeArtifact(t *testing.T, format, path string) {
	t.Helper()
	ctx := context.Background()
	s, err := sink.Open(ctx, format, path, sink.Run{ID: report.NewRunID(), StartedAt: time.Now(), Input: "dcs"})
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, sandhi.Row{Word: "व", Split: "इव", Source: "dcs/a.conllu"}))
	require.NoError(t, s.Close())
}

func TestRun_Dump(t *testing.T) {
	for _, format := range []string{sink.FormatPB, sink.FormatSQLite} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out."+format)
			writeArtifact(t, format, path)

			code, out, errOut := runInspect(t, "-mode", "dump", "-format", format, path)
			require.Equal(t, 0, code, errOut)
			assert.Equal(t, "व\tइव\tdcs/a.conllu\nRows: 1\n", out)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no file", []string{"-mode", "pairs"}},
		{"unknown mode", []string{"-mode", "tokens", sample}},
		{"missing file", []string{"/nonexistent.conllu"}},
		{"unknown scheme", []string{"-from", "hk", sample}},
		{"dump csv", []string{"-mode", "dump", "-format", "csv", sample}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runInspect(t, tt.args...)
			assert.Equal(t, 1, code)
		})
	}
}
