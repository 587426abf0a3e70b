// Package assoc proposes additional candidates from a co-occurrence table:
// confirmed resources ("anchors") imply related names worth probing. This
// closes the discovery feedback loop without re-running full candidate
// generation.
package assoc

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed associations.yaml
var embeddedTable []byte

// Table maps anchor resource names to related candidate names.
type Table map[string][]string

// Load returns the co-occurrence table. If path is empty, the embedded
// default table is used.
func Load(path string) (Table, error) {
	raw := embeddedTable
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading association table %s: %w", path, err)
		}
		raw = data
	}

	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parsing association table: %w", err)
	}
	return t, nil
}

// Expand emits the related candidates of every confirmed name that matches
// an anchor, deduplicated among themselves and against seen (names already
// probed or skipped in the current run). Output is sorted so re-probe
// order is deterministic.
func (t Table) Expand(confirmed []string, seen func(string) bool) []string {
	emitted := make(map[string]struct{})
	var out []string
	for _, name := range confirmed {
		for _, related := range t[name] {
			if seen != nil && seen(related) {
				continue
			}
			if _, dup := emitted[related]; dup {
				continue
			}
			emitted[related] = struct{}{}
			out = append(out, related)
		}
	}
	sort.Strings(out)
	return out
}
