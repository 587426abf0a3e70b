package output

import (
	"encoding/json"
	"io"
	"os"

	"restscout/internal/report"
)

// JSONWriter writes the full report as indented JSON.
type JSONWriter struct {
	w      io.Writer
	closer io.Closer
}

// NewJSONWriter creates a JSON report writer. Empty outputFile means stdout.
func NewJSONWriter(outputFile string) (*JSONWriter, error) {
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
	return &JSONWriter{w: w, closer: closer}, nil
}

func (j *JSONWriter) WriteReport(r *report.ScanReport) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (j *JSONWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
