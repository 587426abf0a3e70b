// Package runner wires the discovery pipeline together: candidate
// generation, batch scanning, schema inference, association expansion, and
// report persistence.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"restscout/internal/assoc"
	"restscout/internal/config"
	"restscout/internal/hook"
	"restscout/internal/output"
	"restscout/internal/probe"
	"restscout/internal/report"
	"restscout/internal/scanner"
	"restscout/internal/schema"
	"restscout/internal/vocab"
)

// Run executes one full discovery pass. On external cancellation it still
// writes a partial report from the outcomes gathered so far.
func Run(ctx context.Context, opts *config.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	seeds, err := vocab.Load(opts.VocabPath)
	if err != nil {
		return fmt.Errorf("loading vocabulary: %w", err)
	}

	candidates := seeds
	if !opts.NoTransforms {
		gen := vocab.NewGenerator(opts.Prefixes, opts.Suffixes)
		candidates = gen.Generate(seeds)
	}

	transport, err := probe.NewRESTTransport(opts)
	if err != nil {
		return fmt.Errorf("creating transport: %w", err)
	}
	classifier := probe.NewClassifier(transport, 1)

	log.WithFields(log.Fields{
		"target":     opts.URL,
		"candidates": len(candidates),
		"workers":    opts.Workers,
		"batch_size": opts.BatchSize,
		"auth":       opts.APIKey != "" || opts.AuthToken != "",
	}).Info("starting discovery scan")

	pauser, cleanup := startStdinToggle(opts.Quiet)
	defer cleanup()

	progress := output.NewProgress(len(candidates), opts.Quiet)
	progress.Start()

	sc := scanner.New(classifier, scanner.Config{
		Workers:   opts.Workers,
		BatchSize: opts.BatchSize,
		Limiter:   scanner.NewTokenBucket(opts.Delay, opts.Workers),
		Pauser:    pauser,
		Progress:  progress,
	})

	started := time.Now()
	results := sc.Scan(ctx, candidates)

	// Feedback loop: confirmed resources imply related candidates that the
	// generator never produced. Skipped once cancellation has begun.
	if !opts.NoExpand && ctx.Err() == nil {
		table, err := assoc.Load(opts.AssocPath)
		if err != nil {
			return fmt.Errorf("loading association table: %w", err)
		}
		extra := table.Expand(results.Accessible(), results.Seen)
		if len(extra) > 0 {
			log.WithField("candidates", len(extra)).Info("association expansion round")
			progress.AddTotal(len(extra))
			expandProbe(ctx, classifier, opts.Workers, results, extra, progress)
		}
	}

	progress.Stop()

	schemas, relations := inferSchemas(ctx, transport, results, opts.SampleLimit)

	if opts.OnResourceCmd != "" {
		hookRunner := hook.NewRunner(opts.OnResourceCmd, opts.Quiet)
		for _, o := range results.Outcomes[probe.Accessible] {
			hookRunner.Run(o)
		}
	}

	rep := report.Build(opts.URL, results, schemas, relations, started)

	if ctx.Err() != nil {
		log.WithField("unscanned", len(rep.Unscanned)).Warn("scan cancelled, writing partial report")
	}
	log.WithFields(log.Fields{
		"accessible":    rep.Summary.Accessible,
		"protected":     rep.Summary.Protected,
		"absent":        rep.Summary.Absent,
		"indeterminate": rep.Summary.Indeterminate,
		"duration":      rep.Duration.Round(time.Millisecond).String(),
	}).Info("scan complete")

	out, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating output writer: %w", err)
	}
	defer out.Close()

	return out.WriteReport(rep)
}

// expandProbe classifies association-derived candidates, each exactly once,
// under the same concurrency cap as the main pass. Outcomes merge into the
// shared results under a lock.
func expandProbe(ctx context.Context, classifier *probe.Classifier, workers int,
	results *scanner.Results, names []string, progress *output.Progress) {

	sem := semaphore.NewWeighted(int64(workers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, name := range names {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			results.Unscanned = append(results.Unscanned, name)
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer sem.Release(1)
			o := classifier.Classify(ctx, name)
			mu.Lock()
			results.Record(o)
			mu.Unlock()
			progress.Probed(o)
		}(name)
	}
	wg.Wait()
}

// inferSchemas refetches a larger sample per accessible resource and derives
// field summaries plus cross-resource relation hints. After cancellation the
// probe-time sample is used instead of refetching.
func inferSchemas(ctx context.Context, transport probe.Transport, results *scanner.Results,
	sampleLimit int) (map[string][]schema.FieldSummary, map[string][]schema.RelationHint) {

	accessible := results.Outcomes[probe.Accessible]
	confirmed := results.Accessible()

	schemas := make(map[string][]schema.FieldSummary, len(accessible))
	relations := make(map[string][]schema.RelationHint)

	for _, o := range accessible {
		rows := o.Sample
		if ctx.Err() == nil {
			resp, err := transport.Probe(ctx, o.Resource, sampleLimit)
			if err == nil && resp.Rows != nil {
				rows = resp.Rows
			} else if err != nil {
				log.WithFields(log.Fields{
					"resource": o.Resource,
					"error":    err.Error(),
				}).Warn("sample fetch failed, falling back to probe sample")
			}
		}

		fields := schema.Infer(rows)
		schemas[o.Resource] = fields
		if hints := schema.RelationHints(fields, confirmed); hints != nil {
			relations[o.Resource] = hints
		}
	}
	return schemas, relations
}

func createWriter(opts *config.Options) (output.Writer, error) {
	switch opts.OutputFormat {
	case "json":
		return output.NewJSONWriter(opts.OutputFile)
	case "csv":
		return output.NewCSVWriter(opts.OutputFile)
	default:
		return output.NewTextWriter(opts.OutputFile, opts.NoColor, opts.Quiet)
	}
}
