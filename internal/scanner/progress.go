package scanner

import "restscout/internal/probe"

// ProgressSink receives liveness events during a scan pass. It is purely
// observational; nothing it does feeds back into the scanner. Batch events
// arrive strictly sequentially in generation order.
type ProgressSink interface {
	// BatchStart is called before each batch. index is 1-based.
	BatchStart(index, total int)
	// Probed is called once per classified candidate.
	Probed(outcome probe.Outcome)
}

// NopProgress discards all events.
type NopProgress struct{}

func (NopProgress) BatchStart(index, total int) {}
func (NopProgress) Probed(outcome probe.Outcome) {}
