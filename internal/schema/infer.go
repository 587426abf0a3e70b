// Package schema derives best-effort field summaries from small samples of
// weakly-typed records. The result is a statistical approximation meant to
// guide a human operator, not a certified schema.
package schema

import (
	"encoding/json"
	"sort"

	"restscout/internal/probe"
)

// FieldType is the inferred primitive type of a field. The declaration
// order doubles as classification precedence: when type votes tie, the
// earlier type wins.
type FieldType int

const (
	TypeNull FieldType = iota
	TypeBoolean
	TypeInteger
	TypeFloat
	TypeString
	TypeStructured // nested object or array
	TypeUnknown    // no non-null value observed
)

func (t FieldType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the type name rather than the enum ordinal.
func (t FieldType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Caps on per-field sampling. Votes bound type inference cost; examples
// bound report growth so sampled data never leaks wholesale into reports.
const (
	maxVotes    = 5
	maxExamples = 3
)

// FieldSummary describes one observed field across a sample.
type FieldSummary struct {
	Name           string    `json:"name"`
	Type           FieldType `json:"type"`
	Examples       []any     `json:"examples,omitempty"`
	FullyPopulated bool      `json:"fully_populated"`
}

// Infer builds a summary per field observed anywhere in the sample. An
// empty sample yields zero fields, not an error. Output is sorted by field
// name so reports are deterministic.
func Infer(rows []probe.Record) []FieldSummary {
	if len(rows) == 0 {
		return nil
	}

	type fieldStats struct {
		votes    []FieldType
		examples []any
		present  int
	}
	stats := make(map[string]*fieldStats)

	for _, row := range rows {
		for name, val := range row {
			fs := stats[name]
			if fs == nil {
				fs = &fieldStats{}
				stats[name] = fs
			}
			fs.present++
			if val == nil {
				continue
			}
			if len(fs.votes) < maxVotes {
				fs.votes = append(fs.votes, classifyValue(val))
			}
			if len(fs.examples) < maxExamples {
				fs.examples = append(fs.examples, val)
			}
		}
	}

	out := make([]FieldSummary, 0, len(stats))
	for name, fs := range stats {
		out = append(out, FieldSummary{
			Name:           name,
			Type:           dominantType(fs.votes),
			Examples:       fs.examples,
			FullyPopulated: fs.present == len(rows),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// classifyValue maps one sampled value to a primitive type. Rows decoded
// from JSON carry numbers as json.Number; native Go numerics are handled
// too so callers can build samples directly.
func classifyValue(v any) FieldType {
	switch val := v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return TypeInteger
		}
		return TypeFloat
	case int, int32, int64:
		return TypeInteger
	case float32:
		return TypeFloat
	case float64:
		if val == float64(int64(val)) {
			return TypeInteger
		}
		return TypeFloat
	case string:
		return TypeString
	default:
		return TypeStructured
	}
}

// dominantType picks the most frequent vote; ties break toward the type
// earlier in the classification order.
func dominantType(votes []FieldType) FieldType {
	if len(votes) == 0 {
		return TypeUnknown
	}
	counts := make(map[FieldType]int, len(votes))
	for _, v := range votes {
		counts[v]++
	}
	best := TypeUnknown
	bestCount := 0
	for t, n := range counts {
		if n > bestCount || (n == bestCount && t < best) {
			best = t
			bestCount = n
		}
	}
	return best
}
