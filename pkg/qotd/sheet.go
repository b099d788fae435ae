package qotd

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheet implements Sheet over the Sheets API. Data rows start at
// spreadsheet row 2, row 1 being the header.
type GoogleSheet struct {
	svc     *sheets.Service
	sheetID string
}

// NewGoogleSheet builds a sheet client from the environment:
// QOTD_SHEET_ID names the spreadsheet and QOTD_CREDENTIALS_FILE points at
// a service account key. Missing configuration returns ErrNotConfigured
// so the caller can run without the feature.
func NewGoogleSheet(ctx context.Context) (*GoogleSheet, error) {
	sheetID := os.Getenv("QOTD_SHEET_ID")
	credsFile := os.Getenv("QOTD_CREDENTIALS_FILE")
	if sheetID == "" || credsFile == "" {
		return nil, ErrNotConfigured
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("building sheets client: %w", err)
	}
	return &GoogleSheet{svc: svc, sheetID: sheetID}, nil
}

func (g *GoogleSheet) Rows(ctx context.Context, tab string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.sheetID, tab+"!A2:B").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading tab %q: %w", tab, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (g *GoogleSheet) MarkUsed(ctx context.Context, tab string, row int, stamp string) error {
	cell := fmt.Sprintf("%s!B%d", tab, row+2)
	vr := &sheets.ValueRange{Values: [][]interface{}{{stamp}}}
	_, err := g.svc.Spreadsheets.Values.Update(g.sheetID, cell, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("updating %s: %w", cell, err)
	}
	return nil
}

func (g *GoogleSheet) Reset(ctx context.Context, tab string, n int) error {
	rng := fmt.Sprintf("%s!B2:B%d", tab, n+1)
	_, err := g.svc.Spreadsheets.Values.Clear(g.sheetID, rng, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing %s: %w", rng, err)
	}
	return nil
}
