// Package chain rebuilds (word, split) pairs from the token stream of one
// CoNLL-U document.
//
// A chain accumulates one sandhi-fused surface unit: the surface form built
// from multiword and elision-marked lines, and the Unsandhied forms of the
// sub-tokens it covers. The Reconstructor runs a small state machine:
//
//	Idle -> Open -> PendingClose -> Idle
//
// A chain is Open while it waits for the sub-tokens of its ranges and
// PendingClose once its last known sub-token has been seen. A following
// elision-marked token can still extend a PendingClose chain; anything else
// closes it.
//
// A Reconstructor is not safe for concurrent use. Use one per document.
package chain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jamesainslie/go-sandhi/conllu"
)

// Converter renders a romanized string in the output script.
type Converter interface {
	Convert(text string) (string, error)
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(string) (string, error)

// Convert calls f.
func (f ConverterFunc) Convert(text string) (string, error) { return f(text) }

// Identity leaves text unchanged.
var Identity = ConverterFunc(func(s string) (string, error) { return s, nil })

// Pair is one emitted training example.
type Pair struct {
	Word  string
	Split string
}

// SplitSeparator joins the parts of a split.
const SplitSeparator = "+"

type state int

const (
	stateIdle state = iota
	stateOpen
	statePendingClose
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateOpen:
		return "open"
	case statePendingClose:
		return "pending-close"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type chain struct {
	state    state
	original strings.Builder
	parts    []string
	ranges   []conllu.IDRange
}

func (c *chain) reset() {
	c.state = stateIdle
	c.original.Reset()
	c.parts = nil
	c.ranges = nil
}

func (c *chain) covers(id int) bool {
	for _, r := range c.ranges {
		if r.Contains(id) {
			return true
		}
	}
	return false
}

func (c *chain) maxEnd() int {
	end := 0
	for i, r := range c.ranges {
		if i == 0 || r.End > end {
			end = r.End
		}
	}
	return end
}

func (c *chain) addPart(rec conllu.Record) {
	if rec.HasUnsandhied {
		c.parts = append(c.parts, rec.Unsandhied)
	}
}

// memo is the most recent single token that no chain absorbed.
type memo struct {
	form          string
	unsandhied    string
	hasUnsandhied bool
}

// Stats counts what happened while reconstructing a document.
type Stats struct {
	Records          int
	ChainsOpened     int
	PairsEmitted     int
	ChainsDropped    int
	StandaloneMerges int
	OrphanElisions   int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Records += o.Records
	s.ChainsOpened += o.ChainsOpened
	s.PairsEmitted += o.PairsEmitted
	s.ChainsDropped += o.ChainsDropped
	s.StandaloneMerges += o.StandaloneMerges
	s.OrphanElisions += o.OrphanElisions
}

// Reconstructor consumes the records of one document in order.
type Reconstructor struct {
	conv  Converter
	cur   chain
	memo  *memo
	pairs []Pair
	stats Stats
}

// New returns a Reconstructor that renders pairs through conv.
// A nil conv leaves pairs in the input script.
func New(conv Converter) *Reconstructor {
	if conv == nil {
		conv = Identity
	}
	return &Reconstructor{conv: conv}
}

// Feed processes the next record. The only error is a conversion failure
// while finalizing a chain; the Reconstructor should be discarded after it.
func (r *Reconstructor) Feed(rec conllu.Record) error {
	r.stats.Records++
	switch {
	case rec.IsMultiword():
		return r.feedMultiword(rec)
	case rec.IsContinuation():
		return r.feedElided(rec)
	default:
		return r.feedSingle(rec)
	}
}

// Flush finalizes whatever chain is still active at end of document.
func (r *Reconstructor) Flush() error {
	return r.finalize()
}

// Pairs returns a copy of the pairs emitted so far, in emission order.
func (r *Reconstructor) Pairs() []Pair {
	return slices.Clone(r.pairs)
}

// Stats returns the counters for the records fed so far.
func (r *Reconstructor) Stats() Stats {
	return r.stats
}

func (r *Reconstructor) feedMultiword(rec conllu.Record) error {
	if rec.IsContinuation() && r.cur.state == statePendingClose {
		r.cur.original.WriteString(rec.Form)
		r.cur.ranges = append(r.cur.ranges, rec.ID)
		r.cur.state = stateOpen
		return nil
	}

	if err := r.finalize(); err != nil {
		return err
	}
	if rec.IsContinuation() {
		r.openMerged(rec)
	} else {
		r.open(rec.Form, nil)
	}
	r.cur.ranges = append(r.cur.ranges, rec.ID)
	r.cur.state = stateOpen
	return nil
}

func (r *Reconstructor) feedElided(rec conllu.Record) error {
	defer func() { r.memo = nil }()

	if r.cur.state == statePendingClose {
		r.cur.original.WriteString(rec.Form)
		r.cur.addPart(rec)
		return nil
	}

	if err := r.finalize(); err != nil {
		return err
	}
	r.openMerged(rec)
	r.cur.ranges = append(r.cur.ranges, rec.ID)
	r.cur.addPart(rec)
	r.cur.state = statePendingClose
	return nil
}

func (r *Reconstructor) feedSingle(rec conllu.Record) error {
	if r.cur.state == statePendingClose {
		if err := r.finalize(); err != nil {
			return err
		}
	}

	id := rec.ID.Start
	if r.cur.state == stateOpen && r.cur.covers(id) {
		r.cur.addPart(rec)
		if id == r.cur.maxEnd() {
			r.cur.state = statePendingClose
		}
		return nil
	}

	// Disjoint from any chain: it interrupts an open one and becomes the
	// standalone candidate for a following elided token.
	if err := r.finalize(); err != nil {
		return err
	}
	r.memo = &memo{
		form:          rec.Form,
		unsandhied:    rec.Unsandhied,
		hasUnsandhied: rec.HasUnsandhied,
	}
	return nil
}

// open starts a chain. Any standalone memo is superseded.
func (r *Reconstructor) open(original string, parts []string) {
	r.cur.reset()
	r.cur.original.WriteString(original)
	r.cur.parts = parts
	r.memo = nil
	r.stats.ChainsOpened++
}

// openMerged starts a chain from an elision-marked record, fusing it with
// the standalone memo when there is one. The marker stays in the fused
// surface form; without a memo there is nothing to fuse with, so it is
// dropped.
func (r *Reconstructor) openMerged(rec conllu.Record) {
	m := r.memo
	if m == nil {
		r.stats.OrphanElisions++
		r.open(conllu.TrimElisionMarker(rec.Form), nil)
		return
	}

	r.stats.StandaloneMerges++
	var parts []string
	if m.hasUnsandhied {
		parts = []string{m.unsandhied}
	}
	r.open(m.form+rec.Form, parts)
}

// finalize emits the active chain if it has parts and returns to Idle.
func (r *Reconstructor) finalize() error {
	if r.cur.state == stateIdle {
		return nil
	}
	defer r.cur.reset()

	if len(r.cur.parts) == 0 {
		r.stats.ChainsDropped++
		return nil
	}

	original := r.cur.original.String()
	word, err := r.conv.Convert(original)
	if err != nil {
		return fmt.Errorf("converting word %q: %w", original, err)
	}
	joined := strings.Join(r.cur.parts, SplitSeparator)
	split, err := r.conv.Convert(joined)
	if err != nil {
		return fmt.Errorf("converting split %q: %w", joined, err)
	}

	r.pairs = append(r.pairs, Pair{Word: word, Split: split})
	r.stats.PairsEmitted++
	return nil
}

// Reconstruct runs records through a fresh Reconstructor and flushes it.
func Reconstruct(records []conllu.Record, conv Converter) ([]Pair, Stats, error) {
	r := New(conv)
	for _, rec := range records {
		if err := r.Feed(rec); err != nil {
			return nil, r.Stats(), err
		}
	}
	if err := r.Flush(); err != nil {
		return nil, r.Stats(), err
	}
	return r.Pairs(), r.Stats(), nil
}
