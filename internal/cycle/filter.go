package cycle

import "github.com/HoussamEddineSmati/SpendKiler/internal/domain"

// FilterByWindow returns the expenses dated inside w, in their original order.
// Expenses whose date cannot be parsed are left out.
func FilterByWindow(expenses []domain.Expense, w Window) []domain.Expense {
	loc := w.Location()
	result := make([]domain.Expense, 0, len(expenses))
	for _, exp := range expenses {
		date, ok := ParseExpenseDate(exp.Date, loc)
		if !ok {
			continue
		}
		if w.Contains(date) {
			result = append(result, exp)
		}
	}
	return result
}
