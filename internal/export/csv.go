// Package export converts expenses to and from CSV.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// ContentType is the MIME type of the CSV export
const ContentType = "text/csv; charset=utf-8"

type expenseRow struct {
	ID       int64  `csv:"id"`
	Date     string `csv:"date"`
	Category string `csv:"category"`
	Amount   string `csv:"amount"`
	Note     string `csv:"note"`
}

// WriteCSV writes expenses as CSV with a header row, amounts fixed to two decimals
func WriteCSV(w io.Writer, expenses []domain.Expense) error {
	rows := make([]*expenseRow, 0, len(expenses))
	for _, e := range expenses {
		row := &expenseRow{
			ID:       e.ID,
			Date:     e.Date,
			Category: string(e.Category),
			Amount:   e.Amount.StringFixed(2),
		}
		if e.Note != nil {
			row.Note = *e.Note
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// ReadCSV parses a CSV previously produced by WriteCSV. IDs are kept as read;
// the caller decides whether to honour them.
func ReadCSV(r io.Reader) ([]domain.Expense, error) {
	var rows []*expenseRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}

	expenses := make([]domain.Expense, 0, len(rows))
	for i, row := range rows {
		amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
		if err != nil {
			// +2: header row and 1-based line numbers
			return nil, fmt.Errorf("line %d: %w", i+2, domain.ErrInvalidAmount)
		}
		expense := domain.Expense{
			ID:       row.ID,
			Category: domain.Category(strings.TrimSpace(row.Category)),
			Amount:   amount,
			Date:     strings.TrimSpace(row.Date),
		}
		if note := strings.TrimSpace(row.Note); note != "" {
			expense.Note = &note
		}
		expenses = append(expenses, expense)
	}
	return expenses, nil
}
