package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"restscout/internal/report"
)

// CSVWriter writes one row per probed resource.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter creates a CSV report writer. Empty outputFile means stdout.
func NewCSVWriter(outputFile string) (*CSVWriter, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		w = f
		closer = f
	}
	return &CSVWriter{w: csv.NewWriter(w), closer: closer}, nil
}

func (c *CSVWriter) WriteReport(r *report.ScanReport) error {
	if err := c.w.Write([]string{"name", "class", "status", "detail", "fields"}); err != nil {
		return err
	}

	writeRes := func(class string, rs []report.Resource) error {
		for _, res := range rs {
			fields := make([]string, len(res.Fields))
			for i, f := range res.Fields {
				fields[i] = fmt.Sprintf("%s:%s", f.Name, f.Type)
			}
			row := []string{
				res.Name,
				class,
				fmt.Sprintf("%d", res.StatusCode),
				res.Detail,
				strings.Join(fields, " "),
			}
			if err := c.w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRes("accessible", r.Accessible); err != nil {
		return err
	}
	if err := writeRes("protected", r.Protected); err != nil {
		return err
	}
	for _, name := range r.Absent {
		if err := c.w.Write([]string{name, "absent", "404", "", ""}); err != nil {
			return err
		}
	}
	if err := writeRes("indeterminate", r.Indeterminate); err != nil {
		return err
	}
	for _, name := range r.Unscanned {
		if err := c.w.Write([]string{name, "unscanned", "", "", ""}); err != nil {
			return err
		}
	}

	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
