package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"restscout/internal/config"
	"restscout/internal/reqparse"
	"restscout/internal/runner"
	"restscout/pkg/version"
)

var (
	opts       config.Options
	configFile string
)

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"TARGET", []string{"url", "api-key", "auth-token", "header", "request-file"}},
	{"CANDIDATES", []string{"vocab", "prefixes", "suffixes", "no-transforms"}},
	{"EXPANSION", []string{"assoc-table", "no-expand"}},
	{"RATE-LIMIT", []string{"workers", "batch-size", "delay", "timeout"}},
	{"SCHEMA", []string{"sample-limit"}},
	{"HTTP", []string{"user-agent", "proxy", "follow-redirects"}},
	{"OUTPUT", []string{"output", "format", "quiet", "no-color", "log-level", "on-resource"}},
	{"CONFIGURATION", []string{"config"}},
}

var rootCmd = &cobra.Command{
	Use:     "restscout -u <api-url> [flags]",
	Short:   "Blind resource discovery and schema inference for REST data APIs",
	Version: version.Version,
	Long: `restscout discovers the resources (tables/collections) a REST-style data
API exposes when no introspection endpoint is available. It expands a seed
vocabulary into candidates, probes each one under rate limits, classifies
the outcome, and infers a field-level schema from sampled records.`,
	Example: `  restscout -u https://example.supabase.co/rest/v1 --api-key $KEY
  restscout -u https://api.example.com/v1 --auth-token $TOKEN -o report.json --format json
  restscout -u https://api.example.com/v1 --vocab names.txt --workers 10 --delay 200ms
  restscout --request-file intercepted.req --no-expand
  restscout -u https://api.example.com/v1 --on-resource "notify-send {name}"`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			if err := mergeConfigFile(cmd); err != nil {
				return err
			}
		}
		// Lift target and auth headers from a raw request capture.
		if opts.RequestFile != "" {
			parsed, err := reqparse.ParseFile(opts.RequestFile)
			if err != nil {
				return fmt.Errorf("parsing request file: %w", err)
			}
			if !cmd.Flags().Changed("url") {
				opts.URL = parsed.URL
			}
			if opts.Headers == nil {
				opts.Headers = make(map[string]string)
			}
			for key, val := range parsed.Headers {
				k := strings.ToLower(key)
				// Skip hop-by-hop and encoding headers.
				if k == "host" || k == "content-length" || k == "accept-encoding" || k == "connection" {
					continue
				}
				// Credentials flow through the dedicated fields so they
				// are redacted consistently.
				if k == "apikey" && opts.APIKey == "" {
					opts.APIKey = val
					continue
				}
				if k == "authorization" && opts.AuthToken == "" {
					opts.AuthToken = strings.TrimPrefix(val, "Bearer ")
					continue
				}
				if _, exists := opts.Headers[key]; !exists {
					opts.Headers[key] = val
				}
			}
		}
		if opts.URL == "" {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("target required: use -u or --request-file")
		}
		if !strings.HasPrefix(opts.URL, "http://") && !strings.HasPrefix(opts.URL, "https://") {
			opts.URL = "https://" + opts.URL
		}
		return setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runner.Run(ctx, &opts)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Target
	f.StringVarP(&opts.URL, "url", "u", "", "Target API base URL (e.g. https://x.supabase.co/rest/v1)")
	f.StringVar(&opts.APIKey, "api-key", "", "API key header value (never logged)")
	f.StringVar(&opts.AuthToken, "auth-token", "", "Bearer token (never logged)")
	f.StringVarP(&opts.RequestFile, "request-file", "r", "", "Raw HTTP request file to lift URL and auth headers from")

	// Candidates
	f.StringVarP(&opts.VocabPath, "vocab", "w", "", "Seed vocabulary file (default: built-in)")
	f.StringSliceVar(&opts.Prefixes, "prefixes", nil, "Prefix transforms (default: app_,user_,admin_,sys_,tmp_,old_,new_)")
	f.StringSliceVar(&opts.Suffixes, "suffixes", nil, "Suffix transforms (default: _data,_info,_details,_log,_history)")
	f.BoolVar(&opts.NoTransforms, "no-transforms", false, "Probe the raw vocabulary without affix expansion")

	// Expansion
	f.StringVar(&opts.AssocPath, "assoc-table", "", "Co-occurrence table YAML (default: built-in)")
	f.BoolVar(&opts.NoExpand, "no-expand", false, "Disable association-driven expansion round")

	// Performance
	f.IntVarP(&opts.Workers, "workers", "t", 5, "Number of concurrent probe workers")
	f.IntVarP(&opts.BatchSize, "batch-size", "b", 10, "Candidates per batch")
	f.DurationVar(&opts.Delay, "delay", 100*time.Millisecond, "Minimum spacing between probes (token bucket)")
	f.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "Per-probe HTTP timeout")

	// Schema
	f.IntVar(&opts.SampleLimit, "sample-limit", 10, "Rows sampled per accessible resource for inference")

	// HTTP
	f.StringSliceVarP(new([]string), "header", "H", nil, "Custom headers (Key: Value)")
	f.StringVar(&opts.UserAgent, "user-agent", "", "Custom User-Agent string")
	f.StringVar(&opts.Proxy, "proxy", "", "HTTP/SOCKS proxy URL")
	f.BoolVar(&opts.FollowRedirects, "follow-redirects", false, "Follow HTTP redirects")

	// Output
	f.StringVarP(&opts.OutputFile, "output", "o", "", "Output file path")
	f.StringVar(&opts.OutputFormat, "format", "text", "Output format: text, json, csv")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Minimal output")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	f.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Hooks
	f.StringVar(&opts.OnResourceCmd, "on-resource", "", "Shell command to run per accessible resource (receives JSON on stdin)")

	// Config file
	f.StringVar(&configFile, "config", "", "Config file (YAML); flags take precedence")

	// Custom help: categorized flags like httpx.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})

	// Parse headers from string slice into map in PreRun.
	rootCmd.PreRunE = chainPreRun(rootCmd.PreRunE, func(cmd *cobra.Command, args []string) error {
		headers, _ := f.GetStringSlice("header")
		if len(headers) > 0 {
			if opts.Headers == nil {
				opts.Headers = make(map[string]string, len(headers))
			}
			// -H wins over headers lifted from a request file.
			for _, h := range headers {
				parts := strings.SplitN(h, ":", 2)
				if len(parts) != 2 {
					return fmt.Errorf("invalid header format %q, expected 'Key: Value'", h)
				}
				opts.Headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
			}
		}
		return nil
	})
}

// mergeConfigFile reads the YAML config and fills in any option whose flag
// was not set on the command line. Flags always win.
func mergeConfigFile(cmd *cobra.Command) error {
	v := viper.New()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	set := func(flag string, apply func()) {
		if v.IsSet(flag) && !cmd.Flags().Changed(flag) {
			apply()
		}
	}
	set("url", func() { opts.URL = v.GetString("url") })
	set("api-key", func() { opts.APIKey = v.GetString("api-key") })
	set("auth-token", func() { opts.AuthToken = v.GetString("auth-token") })
	set("vocab", func() { opts.VocabPath = v.GetString("vocab") })
	set("assoc-table", func() { opts.AssocPath = v.GetString("assoc-table") })
	set("workers", func() { opts.Workers = v.GetInt("workers") })
	set("batch-size", func() { opts.BatchSize = v.GetInt("batch-size") })
	set("delay", func() { opts.Delay = v.GetDuration("delay") })
	set("timeout", func() { opts.Timeout = v.GetDuration("timeout") })
	set("sample-limit", func() { opts.SampleLimit = v.GetInt("sample-limit") })
	set("format", func() { opts.OutputFormat = v.GetString("format") })
	set("output", func() { opts.OutputFile = v.GetString("output") })
	set("log-level", func() { opts.LogLevel = v.GetString("log-level") })
	return nil
}

func setupLogging() error {
	level, err := log.ParseLevel(opts.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q", opts.LogLevel)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		DisableColors:   opts.NoColor,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	if opts.Quiet {
		log.SetLevel(log.ErrorLevel)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// chainPreRun combines two PreRunE functions.
func chainPreRun(first, second func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if first != nil {
			if err := first(cmd, args); err != nil {
				return err
			}
		}
		return second(cmd, args)
	}
}

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	// Show default for non-zero values.
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
                 __                          __
   ________  ___/ /______________  __  __  / /_
  / ___/ _ \/ __/ __/ ___/ ___/ / / / / / / __/
 / /  /  __(__  ) /_(__  ) /__/ /_/ / /_/ / /_
/_/   \___/____/\__/____/\___/\____/\____/\__/   %s

`, ver)
}
