package config

import (
	"fmt"
	"time"
)

// Options holds all configuration for a restscout discovery run.
type Options struct {
	// Target
	URL         string
	APIKey      string
	AuthToken   string
	Headers     map[string]string
	RequestFile string // raw HTTP request file to lift target URL and auth headers from

	// Candidate generation
	VocabPath    string // empty = use embedded seed vocabulary
	Prefixes     []string
	Suffixes     []string
	NoTransforms bool // probe the raw vocabulary only

	// Association expansion
	AssocPath string // empty = use embedded co-occurrence table
	NoExpand  bool

	// Performance
	Workers     int
	BatchSize   int
	Delay       time.Duration // minimum spacing between probes (token bucket)
	Timeout     time.Duration
	SampleLimit int // rows fetched per accessible resource for schema inference

	// HTTP
	UserAgent       string
	Proxy           string
	FollowRedirects bool

	// Output
	OutputFile   string
	OutputFormat string // "text", "json", "csv"
	Quiet        bool
	NoColor      bool
	LogLevel     string

	// Hooks
	OnResourceCmd string // shell command run for each accessible resource
}

// Validate rejects configurations the scanner cannot run with. These are
// the only fatal conditions besides external cancellation.
func (o *Options) Validate() error {
	if o.URL == "" {
		return fmt.Errorf("target API URL required")
	}
	if o.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", o.Workers)
	}
	if o.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", o.BatchSize)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.Timeout)
	}
	if o.SampleLimit <= 0 {
		return fmt.Errorf("sample limit must be positive, got %d", o.SampleLimit)
	}
	switch o.OutputFormat {
	case "", "text", "json", "csv":
	default:
		return fmt.Errorf("unknown output format %q", o.OutputFormat)
	}
	return nil
}
