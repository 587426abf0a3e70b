package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"restscout/internal/report"
	"restscout/internal/schema"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorDim    = "\033[2m"
)

// TextWriter renders the report as a colored human-readable summary.
type TextWriter struct {
	w       io.Writer
	noColor bool
	quiet   bool
}

// NewTextWriter creates a text report writer. If outputFile is empty,
// stdout is used. noColor disables ANSI escape codes.
func NewTextWriter(outputFile string, noColor, quiet bool) (*TextWriter, error) {
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		w = f
		noColor = true // never color a file
	}
	return &TextWriter{w: w, noColor: noColor, quiet: quiet}, nil
}

func (t *TextWriter) WriteReport(r *report.ScanReport) error {
	g, y, rd, d, rs := colorGreen, colorYellow, colorRed, colorDim, colorReset
	if t.noColor {
		g, y, rd, d, rs = "", "", "", "", ""
	}

	fmt.Fprintf(t.w, "\n%sTarget:%s %s\n", d, rs, r.Target)
	fmt.Fprintf(t.w, "%sRun:%s    %s (%s)\n", d, rs, r.RunID, r.Duration.Round(time.Millisecond))

	fmt.Fprintf(t.w, "\n%sACCESSIBLE (%d)%s\n", g, len(r.Accessible), rs)
	for _, res := range r.Accessible {
		fmt.Fprintf(t.w, "  %s%-24s%s %d columns, ~%d sample rows\n",
			g, res.Name, rs, len(res.Fields), res.SampleCount)
		if len(res.Fields) > 0 {
			fmt.Fprintf(t.w, "    %s%s%s\n", d, columnPreview(res.Fields), rs)
		}
		for _, rel := range res.Relations {
			fmt.Fprintf(t.w, "    %s%s -> %s%s\n", d, rel.Field, rel.Resource, rs)
		}
	}

	if len(r.Protected) > 0 {
		fmt.Fprintf(t.w, "\n%sPROTECTED (%d)%s\n", y, len(r.Protected), rs)
		for _, res := range r.Protected {
			fmt.Fprintf(t.w, "  %-24s HTTP %d: %s\n", res.Name, res.StatusCode, res.Detail)
		}
	}

	if len(r.Indeterminate) > 0 && !t.quiet {
		fmt.Fprintf(t.w, "\n%sINDETERMINATE (%d)%s\n", rd, len(r.Indeterminate), rs)
		for _, res := range r.Indeterminate {
			fmt.Fprintf(t.w, "  %-24s %s\n", res.Name, res.Detail)
		}
	}

	fmt.Fprintf(t.w, "\n%sSUMMARY%s\n", d, rs)
	fmt.Fprintf(t.w, "  Candidates:    %d\n", r.Summary.Candidates)
	fmt.Fprintf(t.w, "  Accessible:    %d\n", r.Summary.Accessible)
	fmt.Fprintf(t.w, "  Protected:     %d\n", r.Summary.Protected)
	fmt.Fprintf(t.w, "  Absent:        %d\n", r.Summary.Absent)
	fmt.Fprintf(t.w, "  Indeterminate: %d\n", r.Summary.Indeterminate)
	if r.Summary.Unscanned > 0 {
		fmt.Fprintf(t.w, "  Unscanned:     %d (cancelled before probe)\n", r.Summary.Unscanned)
	}
	return nil
}

// columnPreview shows the first five field names, elided like "a, b, ...".
func columnPreview(fields []schema.FieldSummary) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	if len(names) > 5 {
		return strings.Join(names[:5], ", ") + ", ..."
	}
	return strings.Join(names, ", ")
}

func (t *TextWriter) Close() error {
	if closer, ok := t.w.(io.Closer); ok && t.w != os.Stdout {
		return closer.Close()
	}
	return nil
}
