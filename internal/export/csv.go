// Package export renders expense collections as CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"trijoshh/internal/core"
)

// AppName prefixes export filenames.
const AppName = "trijoshh"

var header = []string{"ID", "Description", "Amount", "Category", "Date"}

// WriteCSV writes the header row followed by one row per expense. Fields
// containing commas, quotes, or newlines are quoted with inner quotes
// doubled (RFC 4180); lines end with LF.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range expenses {
		row := []string{
			e.ID,
			e.Description,
			e.Amount.String(),
			string(e.Category),
			e.Date.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write expense %s: %w", e.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename returns the download name for an export taken at t, e.g.
// "trijoshh_expenses_2024-03-01.csv".
func Filename(t time.Time) string {
	return fmt.Sprintf("%s_expenses_%s.csv", AppName, t.Format(core.DateLayout))
}
