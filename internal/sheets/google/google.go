// Package google exports balance-sheet years to a Google spreadsheet,
// one tab per year.
package google

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"bilancio/internal/core"
	"bilancio/internal/services"
)

type Client struct {
	srv           *sheetsv4.Service
	spreadsheetID string
}

// NewFromEnv builds a client from the environment: GOOGLE_SPREADSHEET_ID
// plus service-account credentials from GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_SERVICE_ACCOUNT_JSON.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SPREADSHEET_ID is required")
	}

	var opts []option.ClientOption
	switch {
	case os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE") != "":
		opts = append(opts, option.WithCredentialsFile(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")))
	case os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON") != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))))
	default:
		return nil, fmt.Errorf("either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON is required")
	}
	opts = append(opts, option.WithScopes(sheetsv4.SpreadsheetsScope))

	srv, err := sheetsv4.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{srv: srv, spreadsheetID: spreadsheetID}, nil
}

// ExportYear writes a year report into the tab named after the year.
// The tab is cleared first so removed months do not leave stale rows.
func (c *Client) ExportYear(ctx context.Context, report services.YearReport) error {
	tab := strconv.Itoa(report.Year)
	clearRange := tab + "!A1:Z200"

	if _, err := c.srv.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &sheetsv4.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear range %s: %w", clearRange, err)
	}

	values := yearRows(report)
	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, tab+"!A1", &sheetsv4.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update range %s: %w", tab, err)
	}

	slog.InfoContext(ctx, "Exported year to spreadsheet",
		"year", report.Year,
		"rows", len(values),
		"spreadsheet_id", c.spreadsheetID)
	return nil
}

// yearRows lays the report out as a grid: one resource per row with the
// twelve monthly balances, then the monthly and yearly net-total rows.
func yearRows(report services.YearReport) [][]interface{} {
	header := make([]interface{}, 0, 14)
	header = append(header, "Resource", "Type")
	for m := core.January; m <= core.December; m++ {
		header = append(header, m.String())
	}

	values := [][]interface{}{header}
	for _, res := range report.Resources {
		row := make([]interface{}, 0, 14)
		row = append(row, res.Name, string(res.Type))
		for _, bal := range res.Balances {
			if bal == nil {
				row = append(row, "")
			} else {
				// Numeric cells, so the spreadsheet can sum them.
				row = append(row, bal.Euros())
			}
		}
		values = append(values, row)
	}

	assets := make([]interface{}, 0, 14)
	net := make([]interface{}, 0, 14)
	assets = append(assets, "Total assets", "")
	net = append(net, "Net worth", "")
	byMonth := make(map[core.Month]struct{ assets, net float64 })
	for _, entry := range report.Months {
		byMonth[entry.Period.Month] = struct{ assets, net float64 }{
			assets: entry.Totals.Assets.Total.Euros(),
			net:    entry.Totals.NetWorth.Total.Euros(),
		}
	}
	for m := core.January; m <= core.December; m++ {
		if totals, ok := byMonth[m]; ok {
			assets = append(assets, totals.assets)
			net = append(net, totals.net)
		} else {
			assets = append(assets, "")
			net = append(net, "")
		}
	}
	values = append(values, assets, net)

	if report.HasTotals {
		values = append(values, []interface{}{
			"Year net worth", "",
			report.Totals.NetWorth.Total.Euros(),
			report.Totals.NetWorth.Delta.Euros(),
			report.Totals.NetWorth.PercentDelta.String() + "%",
		})
	}

	return values
}
