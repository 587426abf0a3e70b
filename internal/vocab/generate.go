package vocab

import "sort"

// Default affix lists used when the caller does not supply its own.
var (
	DefaultPrefixes = []string{"app_", "user_", "admin_", "sys_", "tmp_", "old_", "new_"}
	DefaultSuffixes = []string{"_data", "_info", "_details", "_log", "_history"}
)

// minStemLen is the minimum stem length required before a trailing "s" is
// stripped to derive a singular form. Shorter names ("as", "its") produce
// too many garbage candidates.
const minStemLen = 3

// Generator expands a seed vocabulary into a deduplicated candidate set.
type Generator struct {
	Prefixes []string
	Suffixes []string
}

// NewGenerator returns a Generator with the given affix lists. Nil slices
// fall back to the defaults.
func NewGenerator(prefixes, suffixes []string) *Generator {
	if prefixes == nil {
		prefixes = DefaultPrefixes
	}
	if suffixes == nil {
		suffixes = DefaultSuffixes
	}
	return &Generator{Prefixes: prefixes, Suffixes: suffixes}
}

// Generate derives candidate names from the seeds: singular forms first,
// then one pass of prefix and suffix transforms over the set as it stood
// before affixing. Transforms are not reapplied to their own output, which
// bounds growth to O(seeds * (prefixes + suffixes)). The result is sorted,
// contains no duplicates, and is a superset of the seeds.
func (g *Generator) Generate(seeds []string) []string {
	set := make(map[string]struct{}, len(seeds)*(len(g.Prefixes)+len(g.Suffixes)+2))
	for _, s := range seeds {
		set[s] = struct{}{}
	}

	// Singular derivations join the base set and are affixed below.
	for _, s := range seeds {
		if sing, ok := singular(s); ok {
			set[sing] = struct{}{}
		}
	}

	// Snapshot before affixing so transforms read the set as of generation
	// start and never chain.
	base := make([]string, 0, len(set))
	for name := range set {
		base = append(base, name)
	}

	for _, name := range base {
		for _, p := range g.Prefixes {
			set[p+name] = struct{}{}
		}
		for _, suf := range g.Suffixes {
			set[name+suf] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// singular derives a singular form from a plural-looking name. "ies" is
// rewritten to "y"; otherwise a trailing "s" is stripped when the remaining
// stem is long enough. Returns false when no derivation applies.
func singular(name string) (string, bool) {
	if len(name) > 3 && name[len(name)-3:] == "ies" {
		return name[:len(name)-3] + "y", true
	}
	if len(name) > minStemLen && name[len(name)-1] == 's' {
		return name[:len(name)-1], true
	}
	return "", false
}
