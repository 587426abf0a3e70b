package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restscout/internal/probe"
	"restscout/internal/scanner"
	"restscout/internal/schema"
)

func sampleResults() *scanner.Results {
	results := scanner.NewResults()
	results.Record(probe.Outcome{Resource: "users", Class: probe.Accessible, StatusCode: 200,
		Sample: []probe.Record{{"id": 1}}})
	results.Record(probe.Outcome{Resource: "orders", Class: probe.Accessible, StatusCode: 200})
	results.Record(probe.Outcome{Resource: "secrets", Class: probe.Protected, StatusCode: 401,
		Detail: "authentication required"})
	results.Record(probe.Outcome{Resource: "ghosts", Class: probe.Absent, StatusCode: 404})
	results.Record(probe.Outcome{Resource: "flaky", Class: probe.Indeterminate, Detail: "timeout"})
	results.Unscanned = append(results.Unscanned, "zzz", "aborted")
	return results
}

func TestBuildAccountsEveryCandidate(t *testing.T) {
	rep := Build("https://api.example.com", sampleResults(), nil, nil, time.Now())

	sum := rep.Summary
	accounted := sum.Accessible + sum.Protected + sum.Absent + sum.Indeterminate + sum.Unscanned
	assert.Equal(t, sum.Candidates, accounted, "summary buckets must sum to candidate count")
	assert.Equal(t, 2, sum.Accessible)
	assert.Equal(t, 1, sum.Protected)
	assert.Equal(t, 1, sum.Absent)
	assert.Equal(t, 1, sum.Indeterminate)
	assert.Equal(t, 2, sum.Unscanned)
}

func TestBuildAttachesSchemas(t *testing.T) {
	schemas := map[string][]schema.FieldSummary{
		"users": {{Name: "id", Type: schema.TypeInteger, FullyPopulated: true}},
	}
	relations := map[string][]schema.RelationHint{
		"orders": {{Field: "user_id", Resource: "users"}},
	}

	rep := Build("https://api.example.com", sampleResults(), schemas, relations, time.Now())

	require.Len(t, rep.Accessible, 2)
	// Sorted by name: orders before users.
	assert.Equal(t, "orders", rep.Accessible[0].Name)
	assert.Equal(t, "users", rep.Accessible[1].Name)
	assert.Equal(t, relations["orders"], rep.Accessible[0].Relations)
	assert.Equal(t, schemas["users"], rep.Accessible[1].Fields)
	assert.Equal(t, 1, rep.Accessible[1].SampleCount)
}

func TestBuildSortsAndStamps(t *testing.T) {
	started := time.Now().Add(-2 * time.Second)
	rep := Build("https://api.example.com", sampleResults(), nil, nil, started)

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, started, rep.ScanTime)
	assert.GreaterOrEqual(t, rep.Duration, 2*time.Second)
	assert.Equal(t, []string{"aborted", "zzz"}, rep.Unscanned)
	assert.Equal(t, []string{"ghosts"}, rep.Absent)
}

func TestBuildDistinctRunIDs(t *testing.T) {
	a := Build("t", scanner.NewResults(), nil, nil, time.Now())
	b := Build("t", scanner.NewResults(), nil, nil, time.Now())
	assert.NotEqual(t, a.RunID, b.RunID, "a rerun produces a new report identity")
}
