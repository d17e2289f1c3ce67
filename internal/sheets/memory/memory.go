// Package memory is an in-process exporter used by tests and by setups
// without a configured spreadsheet.
package memory

import (
	"context"
	"sync"

	"bilancio/internal/services"
)

type Exporter struct {
	mu      sync.Mutex
	exports map[int]services.YearReport
}

func NewExporter() *Exporter {
	return &Exporter{exports: make(map[int]services.YearReport)}
}

func (e *Exporter) ExportYear(ctx context.Context, report services.YearReport) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exports[report.Year] = report
	return nil
}

// Exported returns the last report exported for a year.
func (e *Exporter) Exported(year int) (services.YearReport, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	report, ok := e.exports[year]
	return report, ok
}
