package sheets

import (
	"context"
	"fmt"
	"time"

	"appointly/metrics"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// RowAppender appends one row to a spreadsheet.
type RowAppender interface {
	AppendRow(ctx context.Context, values []interface{}) error
}

// GoogleSheets appends rows to a fixed range of one spreadsheet.
type GoogleSheets struct {
	svc           *gsheets.Service
	spreadsheetID string
	writeRange    string
}

func NewGoogleSheets(ctx context.Context, spreadsheetID, writeRange string, opts ...option.ClientOption) (*GoogleSheets, error) {
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &GoogleSheets{svc: svc, spreadsheetID: spreadsheetID, writeRange: writeRange}, nil
}

func (g *GoogleSheets) AppendRow(ctx context.Context, values []interface{}) (err error) {
	defer func(start time.Time) { metrics.ObserveExternal("sheets.append", start, err) }(time.Now())

	body := &gsheets.ValueRange{Values: [][]interface{}{values}}
	_, err = g.svc.Spreadsheets.Values.Append(g.spreadsheetID, g.writeRange, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", g.writeRange, err)
	}
	return nil
}
