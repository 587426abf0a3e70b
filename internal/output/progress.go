package output

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"restscout/internal/probe"
)

// Progress tracks and displays scan progress on stderr. It implements
// scanner.ProgressSink.
type Progress struct {
	total      atomic.Int64
	probed     atomic.Int64
	accessible atomic.Int64
	protected  atomic.Int64
	errors     atomic.Int64
	start      time.Time
	done       chan struct{}
	quiet      bool
}

// NewProgress creates a progress tracker over total candidates. Call
// Start() to begin display updates.
func NewProgress(total int, quiet bool) *Progress {
	p := &Progress{
		start: time.Now(),
		done:  make(chan struct{}),
		quiet: quiet,
	}
	p.total.Store(int64(total))
	return p
}

// Start begins periodically printing progress to stderr.
func (p *Progress) Start() {
	if p.quiet {
		return
	}
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.print()
			case <-p.done:
				p.print()
				fmt.Fprint(os.Stderr, "\n")
				return
			}
		}
	}()
}

// BatchStart announces the next batch. Events arrive sequentially in
// generation order, so the batch counter is monotonic.
func (p *Progress) BatchStart(index, total int) {
	if p.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, "\r\033[K[*] Batch %d/%d\n", index, total)
}

// Probed records one classified candidate.
func (p *Progress) Probed(o probe.Outcome) {
	p.probed.Add(1)
	switch o.Class {
	case probe.Accessible:
		p.accessible.Add(1)
		if !p.quiet {
			fmt.Fprintf(os.Stderr, "\r\033[K[+] %s (accessible)\n", o.Resource)
		}
	case probe.Protected:
		p.protected.Add(1)
		if !p.quiet {
			fmt.Fprintf(os.Stderr, "\r\033[K[~] %s (HTTP %d, protected)\n", o.Resource, o.StatusCode)
		}
	case probe.Indeterminate:
		p.errors.Add(1)
	}
}

// AddTotal grows the expected candidate count, used when association
// expansion adds a re-probe pass mid-run.
func (p *Progress) AddTotal(n int) {
	p.total.Add(int64(n))
}

// Stop ends the progress display.
func (p *Progress) Stop() {
	close(p.done)
}

func (p *Progress) print() {
	probed := p.probed.Load()
	elapsed := time.Since(p.start).Seconds()
	rate := float64(0)
	if elapsed > 0 {
		rate = float64(probed) / elapsed
	}

	total := p.total.Load()
	pct := float64(0)
	if total > 0 {
		pct = float64(probed) / float64(total) * 100
	}

	fmt.Fprintf(os.Stderr, "\r\033[K[%3.0f%%] %d/%d | %.0f probe/s | Accessible: %d | Protected: %d | Indeterminate: %d",
		pct, probed, total, rate,
		p.accessible.Load(), p.protected.Load(), p.errors.Load())
}
