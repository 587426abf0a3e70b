package schema

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// RelationHint flags a field that looks like a reference to another
// discovered resource, e.g. a "user_id" field when a "users" resource was
// confirmed. Purely heuristic; meant to orient an operator, nothing more.
type RelationHint struct {
	Field    string `json:"field"`
	Resource string `json:"resource"`
}

// refSuffixes mark fields that usually carry a foreign key.
var refSuffixes = []string{"_id", "_uuid", "_ref", "_fk"}

// RelationHints matches reference-looking fields against the confirmed
// resource names. A field hints at a resource when its stem equals the
// resource name, the resource's singular form, or sits within edit
// distance 1 of either (catches minor naming drift like "categorie").
func RelationHints(fields []FieldSummary, resources []string) []RelationHint {
	var hints []RelationHint
	for _, f := range fields {
		stem, ok := refStem(f.Name)
		if !ok {
			continue
		}
		if res, ok := matchResource(stem, resources); ok {
			hints = append(hints, RelationHint{Field: f.Name, Resource: res})
		}
	}
	return hints
}

// refStem strips a reference suffix from a field name. "user_id" -> "user".
func refStem(field string) (string, bool) {
	for _, suf := range refSuffixes {
		if strings.HasSuffix(field, suf) && len(field) > len(suf) {
			return strings.TrimSuffix(field, suf), true
		}
	}
	return "", false
}

func matchResource(stem string, resources []string) (string, bool) {
	for _, res := range resources {
		for _, form := range []string{res, singularForm(res)} {
			if form == "" {
				continue
			}
			if stem == form {
				return res, true
			}
			// Fuzzy matching on short stems trades too many false
			// positives ("post" vs "cost"), so require length 5+.
			if len(stem) >= 5 && editDistance(stem, form) <= 1 {
				return res, true
			}
		}
	}
	return "", false
}

func singularForm(name string) string {
	if len(name) > 3 && strings.HasSuffix(name, "ies") {
		return name[:len(name)-3] + "y"
	}
	if len(name) > 3 && strings.HasSuffix(name, "s") {
		return name[:len(name)-1]
	}
	return ""
}

func editDistance(a, b string) int {
	return levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
}
