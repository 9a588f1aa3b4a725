// Package progress reports per-file extraction progress on a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// throttle bounds how often the inline TTY line is redrawn.
const throttle = 100 * time.Millisecond

// Terminal is a sandhi.Observer that prints progress (not logs) to w.
// On a TTY it keeps one line updated with \r; otherwise it prints one line
// per finished file. It is safe for concurrent use, and a failed write
// disables it.
type Terminal struct {
	w       io.Writer
	enabled bool
	isTTY   bool

	rows      int
	failed    int
	runStart  time.Time
	lastLen   int
	lastFlush time.Time

	mu sync.Mutex
}

// NewTerminal creates a Terminal writing to w (os.Stderr when nil).
// With enabled=false every method is a no-op.
func NewTerminal(w io.Writer, enabled bool) *Terminal {
	if w == nil {
		w = os.Stderr
	}
	t := &Terminal{w: w, enabled: enabled, runStart: time.Now()}
	if os.Getenv("CI") == "" {
		if f, ok := w.(*os.File); ok {
			if fi, err := f.Stat(); err == nil {
				t.isTTY = fi.Mode()&os.ModeCharDevice != 0
			}
		}
	}
	return t
}

// FileStarted implements sandhi.Observer.
func (t *Terminal) FileStarted(index, total int, path string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled || !t.isTTY {
		return
	}

	now := time.Now()
	if index != 1 && index != total && now.Sub(t.lastFlush) < throttle {
		return
	}
	t.lastFlush = now
	t.printInline(fmt.Sprintf("[%d/%d] %s | rows %d | failed %d | %s",
		index, total, shortenBase(path, 48), t.rows, t.failed, formatDur(time.Since(t.runStart))))
}

// FileDone implements sandhi.Observer.
func (t *Terminal) FileDone(index, total int, path string, rows int, err error) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}

	t.rows += rows
	if err != nil {
		t.failed++
		t.clearInline()
		t.println(fmt.Sprintf("[fail] %d/%d %s | %s", index, total, shortenBase(path, 48), safe(err.Error())))
		return
	}
	if !t.isTTY {
		t.println(fmt.Sprintf("[done] %d/%d %s | rows %d", index, total, shortenBase(path, 48), rows))
	}
}

// RunFinish prints the closing summary line.
func (t *Terminal) RunFinish(ok bool, dur time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}

	tag := "ok"
	if !ok {
		tag = "fail"
	}
	t.clearInline()
	t.println(fmt.Sprintf("[%s] rows %d | failed files %d | %s", tag, t.rows, t.failed, formatDur(dur)))
}

func (t *Terminal) clearInline() {
	if t.isTTY && t.lastLen > 0 {
		t.printInline("")
		t.printRaw("\r")
	}
}

func (t *Terminal) println(s string) {
	t.printRaw(s + "\n")
	t.lastLen = 0
}

func (t *Terminal) printInline(s string) {
	pad := 0
	if l := visLen(s); t.lastLen > l {
		pad = t.lastLen - l
	}
	t.printRaw("\r" + s + strings.Repeat(" ", pad))
	t.lastLen = visLen(s)
}

func (t *Terminal) printRaw(s string) {
	if !t.enabled {
		return
	}
	if _, err := io.WriteString(t.w, s); err != nil {
		t.enabled = false
	}
}

// shortenBase takes the base name and truncates it to limit runes with a
// trailing ellipsis.
func shortenBase(s string, limit int) string {
	base := filepath.Base(strings.TrimSpace(s))
	rs := []rune(base)
	if limit <= 0 || len(rs) <= limit {
		return base
	}
	return string(rs[:limit-1]) + "…"
}

func visLen(s string) int { return len([]rune(s)) }

func safe(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}

func formatDur(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", max(d.Milliseconds(), 0))
	}
	return fmt.Sprintf("%.1fs", float64(d.Milliseconds())/1000.0)
}
