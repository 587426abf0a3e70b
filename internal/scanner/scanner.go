// Package scanner drives candidate sets through the probe classifier under
// bounded concurrency and rate limits, aggregating outcomes by class.
package scanner

import (
	"context"
	"sync"

	"restscout/internal/probe"
)

// Config holds options for a scan pass.
type Config struct {
	Workers   int
	BatchSize int
	Limiter   RateLimiter  // nil = unlimited
	Pauser    *Pauser      // nil = no pause support
	Progress  ProgressSink // nil = discard events
}

// Results aggregates one scan pass. Every candidate handed to Scan appears
// in exactly one outcome class or in Unscanned; nothing is dropped.
type Results struct {
	Outcomes  map[probe.Class][]probe.Outcome
	Unscanned []string
	probed    map[string]struct{}
}

// NewResults returns an empty aggregation.
func NewResults() *Results {
	return &Results{
		Outcomes: make(map[probe.Class][]probe.Outcome),
		probed:   make(map[string]struct{}),
	}
}

// Record adds one classified outcome.
func (r *Results) Record(o probe.Outcome) {
	r.Outcomes[o.Class] = append(r.Outcomes[o.Class], o)
	r.probed[o.Resource] = struct{}{}
}

// Seen reports whether the name was already probed or skipped in this run.
func (r *Results) Seen(name string) bool {
	if _, ok := r.probed[name]; ok {
		return true
	}
	for _, u := range r.Unscanned {
		if u == name {
			return true
		}
	}
	return false
}

// Accessible returns the names of confirmed-accessible resources.
func (r *Results) Accessible() []string {
	outs := r.Outcomes[probe.Accessible]
	names := make([]string, len(outs))
	for i, o := range outs {
		names[i] = o.Resource
	}
	return names
}

// Total counts every accounted candidate across all classes plus unscanned.
func (r *Results) Total() int {
	n := len(r.Unscanned)
	for _, outs := range r.Outcomes {
		n += len(outs)
	}
	return n
}

// Scanner processes candidates in fixed-size batches with a bounded worker
// pool. Individual probe failures never abort a pass; only external
// cancellation does, and even then the partial results are kept.
type Scanner struct {
	classifier *probe.Classifier
	cfg        Config
}

// New creates a Scanner. Workers and BatchSize must be positive; that is
// enforced by config validation before a scan is constructed.
func New(classifier *probe.Classifier, cfg Config) *Scanner {
	if cfg.Limiter == nil {
		cfg.Limiter = Unlimited()
	}
	if cfg.Progress == nil {
		cfg.Progress = NopProgress{}
	}
	return &Scanner{classifier: classifier, cfg: cfg}
}

// scanEvent is what a worker hands back for each candidate it consumed.
type scanEvent struct {
	outcome   probe.Outcome
	unscanned bool
}

// Scan probes every candidate once. On cancellation it stops issuing new
// probes, lets in-flight ones finish or time out, and accounts the rest as
// unscanned rather than discarding work.
func (s *Scanner) Scan(ctx context.Context, candidates []string) *Results {
	results := NewResults()
	if len(candidates) == 0 {
		return results
	}

	totalBatches := (len(candidates) + s.cfg.BatchSize - 1) / s.cfg.BatchSize

	for i := 0; i < totalBatches; i++ {
		lo := i * s.cfg.BatchSize
		hi := lo + s.cfg.BatchSize
		if hi > len(candidates) {
			hi = len(candidates)
		}
		batch := candidates[lo:hi]

		s.cfg.Progress.BatchStart(i+1, totalBatches)

		if ctx.Err() != nil {
			results.Unscanned = append(results.Unscanned, candidates[lo:]...)
			return results
		}

		// Workers append to the shared results through this single
		// consumer loop, so no lock is needed around the merge.
		for ev := range s.runBatch(ctx, batch) {
			if ev.unscanned {
				results.Unscanned = append(results.Unscanned, ev.outcome.Resource)
				continue
			}
			results.Record(ev.outcome)
			s.cfg.Progress.Probed(ev.outcome)
		}
	}

	return results
}

// runBatch fans the batch out across the worker pool and returns a channel
// of events, closed when every candidate in the batch is accounted for.
func (s *Scanner) runBatch(ctx context.Context, batch []string) <-chan scanEvent {
	workers := s.cfg.Workers
	if workers > len(batch) {
		workers = len(batch)
	}

	itemsCh := make(chan string, workers)
	eventsCh := make(chan scanEvent, workers)

	go func() {
		defer close(itemsCh)
		for _, name := range batch {
			itemsCh <- name
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range itemsCh {
				if s.cfg.Pauser != nil {
					s.cfg.Pauser.Wait()
				}

				// Once cancelled, drain remaining items as unscanned so
				// the accounting invariant holds without new probes.
				if ctx.Err() != nil {
					eventsCh <- scanEvent{outcome: probe.Outcome{Resource: name}, unscanned: true}
					continue
				}
				if err := s.cfg.Limiter.Wait(ctx); err != nil {
					eventsCh <- scanEvent{outcome: probe.Outcome{Resource: name}, unscanned: true}
					continue
				}

				eventsCh <- scanEvent{outcome: s.classifier.Classify(ctx, name)}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(eventsCh)
	}()

	return eventsCh
}
