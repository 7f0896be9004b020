// Package progress reports how far a long generation loop has come.
package progress

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Reporter receives item counts as a phase advances.
type Reporter interface {
	Add(n int)
	Finish()
}

// Factory starts a Reporter for a named phase of total items.
type Factory func(phase string, total int) Reporter

// Log returns a Factory whose reporters write one log line every `every`
// items. every <= 0 disables the lines.
func Log(logger *zap.Logger, every int) Factory {
	return func(phase string, total int) Reporter {
		return &logReporter{log: logger, phase: phase, total: total, every: every}
	}
}

type logReporter struct {
	log   *zap.Logger
	phase string
	total int
	every int
	done  int
}

func (r *logReporter) Add(n int) {
	before := r.done
	r.done += n
	if r.every <= 0 {
		return
	}
	// One line per multiple of every in [before, done), 0 included.
	next := (before + r.every - 1) / r.every * r.every
	if next < r.done {
		r.log.Info("progress", zap.String("phase", r.phase), zap.Int("done", next), zap.Int("total", r.total))
	}
}

func (r *logReporter) Finish() {
	r.log.Info("phase complete", zap.String("phase", r.phase), zap.Int("done", r.done))
}

// Bar returns a Factory that draws a progress bar on w.
func Bar(w io.Writer) Factory {
	return func(phase string, total int) Reporter {
		return &barReporter{bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(phase),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)}
	}
}

type barReporter struct {
	bar *progressbar.ProgressBar
}

func (r *barReporter) Add(n int) { _ = r.bar.Add(n) }
func (r *barReporter) Finish()   { _ = r.bar.Finish() }

// Nop discards everything.
func Nop() Factory {
	return func(string, int) Reporter { return nopReporter{} }
}

type nopReporter struct{}

func (nopReporter) Add(int) {}
func (nopReporter) Finish() {}
