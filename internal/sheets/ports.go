// Package sheets holds the ports for exporting balance-sheet reports.
package sheets

import (
	"context"

	"bilancio/internal/services"
)

// Exporter pushes one year of the balance sheet to an external sheet.
type Exporter interface {
	ExportYear(ctx context.Context, report services.YearReport) error
}
