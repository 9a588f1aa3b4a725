// Package report records the outcome of one extraction run as YAML.
package report

import (
	"crypto/rand"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/go-sandhi"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRunID returns a new ULID. IDs from one process sort in creation order.
func NewRunID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// Report summarizes one run.
type Report struct {
	RunID     string        `yaml:"run_id"`
	StartedAt time.Time     `yaml:"started_at"`
	Duration  time.Duration `yaml:"duration"`
	Input     string        `yaml:"input"`
	Output    string        `yaml:"output"`
	Format    string        `yaml:"format"`
	Files     int           `yaml:"files"`
	Rows      int           `yaml:"rows"`
	Failed    []FailedFile  `yaml:"failed,omitempty"`
	Stats     Stats         `yaml:"stats"`
}

// FailedFile is a file that contributed no rows.
type FailedFile struct {
	Path  string `yaml:"path"`
	Error string `yaml:"error"`
}

// Stats mirrors sandhi.FileStats summed over the run.
type Stats struct {
	Lines            int `yaml:"lines"`
	SkippedLines     int `yaml:"skipped_lines"`
	Records          int `yaml:"records"`
	ChainsOpened     int `yaml:"chains_opened"`
	PairsEmitted     int `yaml:"pairs_emitted"`
	ChainsDropped    int `yaml:"chains_dropped"`
	StandaloneMerges int `yaml:"standalone_merges"`
	OrphanElisions   int `yaml:"orphan_elisions"`
}

// Run describes where a run read from and wrote to.
type Run struct {
	ID        string
	StartedAt time.Time
	Input     string
	Output    string
	Format    string
}

// New builds the report for a finished run.
func New(run Run, res sandhi.RunResult) Report {
	r := Report{
		RunID:     run.ID,
		StartedAt: run.StartedAt.UTC(),
		Duration:  res.Duration,
		Input:     run.Input,
		Output:    run.Output,
		Format:    run.Format,
		Files:     res.Files,
		Rows:      res.Rows,
		Stats: Stats{
			Lines:            res.Stats.Lines,
			SkippedLines:     res.Stats.SkippedLines,
			Records:          res.Stats.Records,
			ChainsOpened:     res.Stats.ChainsOpened,
			PairsEmitted:     res.Stats.PairsEmitted,
			ChainsDropped:    res.Stats.ChainsDropped,
			StandaloneMerges: res.Stats.StandaloneMerges,
			OrphanElisions:   res.Stats.OrphanElisions,
		},
	}
	for _, f := range res.Failed {
		r.Failed = append(r.Failed, FailedFile{Path: f.Path, Error: f.Err.Error()})
	}
	return r
}

// Write stores r as YAML at path.
func Write(path string, r Report) error {
	buf, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// Read loads a report written by Write.
func Read(path string) (Report, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(buf, &r); err != nil {
		return Report{}, fmt.Errorf("report: unmarshal %s: %w", path, err)
	}
	return r, nil
}
