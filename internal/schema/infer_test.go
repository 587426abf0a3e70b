package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restscout/internal/probe"
)

func fieldByName(t *testing.T, fields []FieldSummary, name string) FieldSummary {
	t.Helper()
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not found in %v", name, fields)
	return FieldSummary{}
}

func TestInferPopulationAndTypes(t *testing.T) {
	rows := []probe.Record{
		{"id": 1, "name": "a"},
		{"id": 2, "name": "b"},
		{"id": 3},
	}

	fields := Infer(rows)
	require.Len(t, fields, 2)

	id := fieldByName(t, fields, "id")
	assert.Equal(t, TypeInteger, id.Type)
	assert.True(t, id.FullyPopulated)

	name := fieldByName(t, fields, "name")
	assert.Equal(t, TypeString, name.Type)
	assert.False(t, name.FullyPopulated)
	assert.Equal(t, []any{"a", "b"}, name.Examples)
}

func TestInferEmptySample(t *testing.T) {
	assert.Nil(t, Infer(nil))
	assert.Nil(t, Infer([]probe.Record{}))
}

func TestInferExamplesBounded(t *testing.T) {
	var rows []probe.Record
	for i := 0; i < 20; i++ {
		rows = append(rows, probe.Record{"v": i})
	}
	fields := Infer(rows)
	require.Len(t, fields, 1)
	assert.LessOrEqual(t, len(fields[0].Examples), maxExamples)
}

func TestInferJSONNumberTypes(t *testing.T) {
	rows := []probe.Record{
		{"count": json.Number("42"), "ratio": json.Number("0.5")},
	}
	fields := Infer(rows)
	assert.Equal(t, TypeInteger, fieldByName(t, fields, "count").Type)
	assert.Equal(t, TypeFloat, fieldByName(t, fields, "ratio").Type)
}

func TestInferStructuredValues(t *testing.T) {
	rows := []probe.Record{
		{"meta": map[string]any{"k": "v"}, "tags": []any{"a"}},
	}
	fields := Infer(rows)
	assert.Equal(t, TypeStructured, fieldByName(t, fields, "meta").Type)
	assert.Equal(t, TypeStructured, fieldByName(t, fields, "tags").Type)
}

func TestInferDominantTypeByVote(t *testing.T) {
	rows := []probe.Record{
		{"v": json.Number("1")},
		{"v": json.Number("2")},
		{"v": "three"},
	}
	fields := Infer(rows)
	assert.Equal(t, TypeInteger, fieldByName(t, fields, "v").Type)
}

func TestInferTieBreaksByClassificationOrder(t *testing.T) {
	// One integer vote, one string vote: integer comes earlier in the
	// classification order and wins the tie.
	rows := []probe.Record{
		{"v": json.Number("1")},
		{"v": "x"},
	}
	fields := Infer(rows)
	assert.Equal(t, TypeInteger, fieldByName(t, fields, "v").Type)
}

func TestInferAllNullField(t *testing.T) {
	rows := []probe.Record{
		{"v": nil},
		{"v": nil},
	}
	fields := Infer(rows)
	f := fieldByName(t, fields, "v")
	assert.Equal(t, TypeUnknown, f.Type)
	assert.Empty(t, f.Examples)
	assert.True(t, f.FullyPopulated, "null values still count as present")
}

func TestInferSortedByName(t *testing.T) {
	rows := []probe.Record{{"zeta": 1, "alpha": 2, "mid": 3}}
	fields := Infer(rows)
	require.Len(t, fields, 3)
	assert.Equal(t, "alpha", fields[0].Name)
	assert.Equal(t, "mid", fields[1].Name)
	assert.Equal(t, "zeta", fields[2].Name)
}
