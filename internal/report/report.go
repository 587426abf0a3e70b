// Package report assembles the final structured result of a discovery run.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"restscout/internal/probe"
	"restscout/internal/scanner"
	"restscout/internal/schema"
)

// Resource is one probed candidate in the final report.
type Resource struct {
	Name        string                `json:"name"`
	StatusCode  int                   `json:"status,omitempty"`
	Detail      string                `json:"detail,omitempty"`
	SampleCount int                   `json:"sample_count,omitempty"`
	Fields      []schema.FieldSummary `json:"fields,omitempty"`
	Relations   []schema.RelationHint `json:"relations,omitempty"`
}

// Counts summarizes how the candidate set distributed across outcome
// classes. Candidates is the full set size; the buckets always sum to it.
type Counts struct {
	Candidates    int `json:"candidates"`
	Accessible    int `json:"accessible"`
	Protected     int `json:"protected"`
	Absent        int `json:"absent"`
	Indeterminate int `json:"indeterminate"`
	Unscanned     int `json:"unscanned"`
}

// ScanReport is the immutable result handed to the persistence sink.
type ScanReport struct {
	RunID         string        `json:"run_id"`
	Target        string        `json:"target"`
	ScanTime      time.Time     `json:"scan_time"`
	Duration      time.Duration `json:"duration"`
	Accessible    []Resource    `json:"accessible"`
	Protected     []Resource    `json:"protected"`
	Absent        []string      `json:"absent"`
	Indeterminate []Resource    `json:"indeterminate"`
	Unscanned     []string      `json:"unscanned,omitempty"`
	Summary       Counts        `json:"summary"`
}

// Build aggregates scan results and inferred schemas into a report. Pure
// aggregation: no network or filesystem access. Resources are sorted by
// name within each class so output is order-independent of probe timing.
func Build(target string, results *scanner.Results, schemas map[string][]schema.FieldSummary,
	relations map[string][]schema.RelationHint, started time.Time) *ScanReport {

	r := &ScanReport{
		RunID:    uuid.NewString(),
		Target:   target,
		ScanTime: started,
		Duration: time.Since(started),
	}

	for _, o := range results.Outcomes[probe.Accessible] {
		r.Accessible = append(r.Accessible, Resource{
			Name:        o.Resource,
			StatusCode:  o.StatusCode,
			SampleCount: len(o.Sample),
			Fields:      schemas[o.Resource],
			Relations:   relations[o.Resource],
		})
	}
	for _, o := range results.Outcomes[probe.Protected] {
		r.Protected = append(r.Protected, Resource{
			Name:       o.Resource,
			StatusCode: o.StatusCode,
			Detail:     o.Detail,
		})
	}
	for _, o := range results.Outcomes[probe.Absent] {
		r.Absent = append(r.Absent, o.Resource)
	}
	for _, o := range results.Outcomes[probe.Indeterminate] {
		r.Indeterminate = append(r.Indeterminate, Resource{
			Name:       o.Resource,
			StatusCode: o.StatusCode,
			Detail:     o.Detail,
		})
	}
	r.Unscanned = append(r.Unscanned, results.Unscanned...)

	sortResources(r.Accessible)
	sortResources(r.Protected)
	sortResources(r.Indeterminate)
	sort.Strings(r.Absent)
	sort.Strings(r.Unscanned)

	r.Summary = Counts{
		Candidates:    results.Total(),
		Accessible:    len(r.Accessible),
		Protected:     len(r.Protected),
		Absent:        len(r.Absent),
		Indeterminate: len(r.Indeterminate),
		Unscanned:     len(r.Unscanned),
	}
	return r
}

func sortResources(rs []Resource) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Name < rs[j].Name })
}
