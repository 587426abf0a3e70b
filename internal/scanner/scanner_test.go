package scanner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"restscout/internal/probe"
)

// scriptedTransport classifies by name prefix so tests can steer outcomes
// without a network.
type scriptedTransport struct {
	probes atomic.Int64
}

func (s *scriptedTransport) Probe(ctx context.Context, resource string, limit int) (*probe.Response, error) {
	s.probes.Add(1)
	switch {
	case len(resource) >= 4 && resource[:4] == "open":
		return &probe.Response{Class: probe.StatusSuccess, StatusCode: 200, Rows: []probe.Record{{"id": 1}}}, nil
	case len(resource) >= 4 && resource[:4] == "lock":
		return &probe.Response{Class: probe.StatusAuthRequired, StatusCode: 401, Detail: "authentication required"}, nil
	case len(resource) >= 4 && resource[:4] == "fail":
		return nil, fmt.Errorf("connection refused")
	default:
		return &probe.Response{Class: probe.StatusNotFound, StatusCode: 404}, nil
	}
}

// recordingSink captures progress events for assertions.
type recordingSink struct {
	mu      sync.Mutex
	batches [][2]int
	probed  []string
}

func (r *recordingSink) BatchStart(index, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, [2]int{index, total})
}

func (r *recordingSink) Probed(o probe.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probed = append(r.probed, o.Resource)
}

func names(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func TestScanEveryCandidateAccountedOnce(t *testing.T) {
	candidates := append(names("open", 7), names("lock", 5)...)
	candidates = append(candidates, names("gone", 6)...)
	candidates = append(candidates, names("fail", 4)...)

	sc := New(probe.NewClassifier(&scriptedTransport{}, 1), Config{Workers: 4, BatchSize: 5})
	results := sc.Scan(context.Background(), candidates)

	if got := results.Total(); got != len(candidates) {
		t.Fatalf("accounted %d candidates, want %d", got, len(candidates))
	}
	if got := len(results.Outcomes[probe.Accessible]); got != 7 {
		t.Errorf("accessible = %d, want 7", got)
	}
	if got := len(results.Outcomes[probe.Protected]); got != 5 {
		t.Errorf("protected = %d, want 5", got)
	}
	if got := len(results.Outcomes[probe.Absent]); got != 6 {
		t.Errorf("absent = %d, want 6", got)
	}
	if got := len(results.Outcomes[probe.Indeterminate]); got != 4 {
		t.Errorf("indeterminate = %d, want 4", got)
	}
	if len(results.Unscanned) != 0 {
		t.Errorf("unexpected unscanned candidates: %v", results.Unscanned)
	}

	seen := make(map[string]int)
	for _, outs := range results.Outcomes {
		for _, o := range outs {
			seen[o.Resource]++
		}
	}
	for _, c := range candidates {
		if seen[c] != 1 {
			t.Errorf("candidate %q probed %d times, want exactly 1", c, seen[c])
		}
	}
}

func TestScanBatchCount(t *testing.T) {
	tests := []struct {
		n, batchSize, want int
	}{
		{25, 10, 3},
		{10, 10, 1},
		{11, 10, 2},
		{1, 10, 1},
	}
	for _, tt := range tests {
		sink := &recordingSink{}
		sc := New(probe.NewClassifier(&scriptedTransport{}, 1), Config{
			Workers: 3, BatchSize: tt.batchSize, Progress: sink,
		})
		sc.Scan(context.Background(), names("gone", tt.n))

		if len(sink.batches) != tt.want {
			t.Errorf("n=%d b=%d: got %d batches, want %d", tt.n, tt.batchSize, len(sink.batches), tt.want)
			continue
		}
		for i, b := range sink.batches {
			if b[0] != i+1 || b[1] != tt.want {
				t.Errorf("n=%d b=%d: batch event %d = %v, want [%d %d]", tt.n, tt.batchSize, i, b, i+1, tt.want)
			}
		}
	}
}

func TestScanEmptyCandidates(t *testing.T) {
	sc := New(probe.NewClassifier(&scriptedTransport{}, 1), Config{Workers: 2, BatchSize: 5})
	results := sc.Scan(context.Background(), nil)
	if results.Total() != 0 {
		t.Errorf("expected empty results, got %d accounted", results.Total())
	}
}

// cancellingTransport cancels the scan after a fixed number of probes.
type cancellingTransport struct {
	inner  scriptedTransport
	cancel context.CancelFunc
	after  int64
}

func (c *cancellingTransport) Probe(ctx context.Context, resource string, limit int) (*probe.Response, error) {
	resp, err := c.inner.Probe(ctx, resource, limit)
	if c.inner.probes.Load() >= c.after {
		c.cancel()
	}
	return resp, err
}

func TestScanCancellationAccountsEveryCandidate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	candidates := names("gone", 40)
	ct := &cancellingTransport{cancel: cancel, after: 8}
	sc := New(probe.NewClassifier(ct, 1), Config{Workers: 2, BatchSize: 10})

	results := sc.Scan(ctx, candidates)

	if got := results.Total(); got != len(candidates) {
		t.Fatalf("accounted %d candidates after cancellation, want %d", got, len(candidates))
	}
	if len(results.Unscanned) == 0 {
		t.Error("expected unscanned candidates after mid-scan cancellation")
	}
	probed := results.Total() - len(results.Unscanned)
	if probed < 8 {
		t.Errorf("expected at least 8 probed candidates before cancellation, got %d", probed)
	}
}

func TestScanPreCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	candidates := names("open", 12)
	st := &scriptedTransport{}
	sc := New(probe.NewClassifier(st, 1), Config{Workers: 3, BatchSize: 5})

	results := sc.Scan(ctx, candidates)

	if got := results.Total(); got != len(candidates) {
		t.Fatalf("accounted %d, want %d", got, len(candidates))
	}
	if st.probes.Load() != 0 {
		t.Errorf("expected no probes on a cancelled context, got %d", st.probes.Load())
	}
}
