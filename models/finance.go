package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryType tells whether a category books income or expenses.
type CategoryType string

const (
	CategoryIncome  CategoryType = "INCOME"
	CategoryExpense CategoryType = "EXPENSE"
)

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

// Money is a fixed-point amount carried exactly as the backend emits it:
// a JSON string with two decimal places. Keeping it in decimal form end
// to end avoids float artifacts; floats appear only transiently when a
// caller needs a sign or comparison.
type Money struct {
	decimal.Decimal
}

// MoneyFromString parses a decimal string such as "1500.50".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// MarshalJSON renders the amount as a quoted two-decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.StringFixed(2))
}

// UnmarshalJSON accepts a quoted decimal string or a bare JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		m.Decimal = decimal.Zero
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return err
	}
	m.Decimal = d
	return nil
}

// Display renders the amount for the UI, always with two places.
func (m Money) Display() string {
	return m.StringFixed(2)
}

// Category groups transactions. Names are unique, enforced by the
// backend; deleting a category referenced by transactions is rejected
// upstream with a 400.
type Category struct {
	ID   int64        `json:"id"`
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}

// Transaction is one income or expense entry. Category name and type
// are read-only denormalizations the backend fills in for display.
type Transaction struct {
	ID           int64        `json:"id"`
	Category     int64        `json:"category"`
	CategoryName string       `json:"category_name,omitempty"`
	CategoryType CategoryType `json:"category_type,omitempty"`
	Amount       Money        `json:"amount"`
	Date         Date         `json:"date"`
	Description  string       `json:"description,omitempty"`
}

// CategoryTotal is one row of the report's per-category breakdown.
type CategoryTotal struct {
	CategoryName string       `json:"category_name"`
	CategoryType CategoryType `json:"category_type"`
	TotalAmount  Money        `json:"total_amount"`
}

// TimePeriod is the date range a report covers; open ends are null.
type TimePeriod struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// FinanceReport is the server-computed aggregate. The console never
// recomputes any of these figures; the report endpoint is ground truth.
type FinanceReport struct {
	TotalIncome       Money           `json:"total_income"`
	TotalExpenses     Money           `json:"total_expenses"`
	NetProfit         Money           `json:"net_profit"`
	CategoryBreakdown []CategoryTotal `json:"category_breakdown"`
	TimePeriod        TimePeriod      `json:"time_period"`
}

// Profitable reports whether net profit is zero or better. Comparison
// only — callers must not feed this back into any stored figure.
func (r *FinanceReport) Profitable() bool {
	return r.NetProfit.Sign() >= 0
}
