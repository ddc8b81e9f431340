package gsuite

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// Spreadsheet reads and appends rows of one spreadsheet. Tab names are
// passed per call so one binding serves several tabs.
type Spreadsheet struct {
	svc           *sheets.Service
	spreadsheetID string
}

// FetchRows returns the tab's contents as strings, header row included.
func (s *Spreadsheet) FetchRows(ctx context.Context, tab string) ([][]string, error) {
	if s.spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id not configured")
	}

	res, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, fmt.Sprintf("%s!A1:H", tab)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("sheets get %s: %w", tab, err)
	}

	rows := make([][]string, 0, len(res.Values))
	for _, raw := range res.Values {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append inserts one row at the end of the tab.
func (s *Spreadsheet) Append(ctx context.Context, tab string, row []interface{}) error {
	if s.spreadsheetID == "" {
		return fmt.Errorf("spreadsheet id not configured")
	}

	body := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, fmt.Sprintf("%s!A1", tab), body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append %s: %w", tab, err)
	}
	return nil
}
