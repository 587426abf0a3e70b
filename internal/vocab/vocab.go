// Package vocab loads seed vocabularies and expands them into candidate
// resource names via morphological and affix transforms.
package vocab

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed seeds.txt
var embeddedSeeds string

// Load returns the seed vocabulary. If path is empty, the embedded default
// list is used. Entries are trimmed and de-duplicated; blank lines and
// comments are skipped. An empty resulting vocabulary is an error.
func Load(path string) ([]string, error) {
	raw := embeddedSeeds
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading vocabulary %s: %w", path, err)
		}
		raw = string(data)
	}

	lines := strings.Split(raw, "\n")
	seen := make(map[string]struct{}, len(lines))
	var seeds []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; !ok {
			seen[line] = struct{}{}
			seeds = append(seeds, line)
		}
	}

	if len(seeds) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}
	return seeds, nil
}
