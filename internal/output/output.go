// Package output implements the persistence and progress collaborators:
// report writers for each format, and the console progress display.
package output

import "restscout/internal/report"

// Writer persists a finished scan report. Each output format implements it.
type Writer interface {
	WriteReport(r *report.ScanReport) error
	Close() error
}
