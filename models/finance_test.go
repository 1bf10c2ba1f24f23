package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_KeepsDecimalExact(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"1500.50"`), &m))
	assert.Equal(t, "1500.50", m.Display())

	// Marshals back to the same two-decimal string.
	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"1500.50"`, string(out))

	// Bare numbers are accepted and normalized to two places.
	require.NoError(t, json.Unmarshal([]byte(`99.9`), &m))
	assert.Equal(t, "99.90", m.Display())

	// null and the empty string mean zero.
	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.Equal(t, "0.00", m.Display())
	require.NoError(t, json.Unmarshal([]byte(`""`), &m))
	assert.Equal(t, "0.00", m.Display())

	assert.Error(t, json.Unmarshal([]byte(`"1,500.50"`), &m))
}

func TestMoneyFromString(t *testing.T) {
	m, err := MoneyFromString("0.10")
	require.NoError(t, err)
	assert.Equal(t, "0.10", m.Display())

	_, err = MoneyFromString("ten")
	assert.Error(t, err)
}

func TestCategoryType_Valid(t *testing.T) {
	assert.True(t, CategoryIncome.Valid())
	assert.True(t, CategoryExpense.Valid())
	assert.False(t, CategoryType("SAVINGS").Valid())
	assert.False(t, CategoryType("income").Valid())
}

func TestFinanceReport_Profitable(t *testing.T) {
	profit, err := MoneyFromString("3799.50")
	require.NoError(t, err)
	loss, err := MoneyFromString("-0.01")
	require.NoError(t, err)

	r := &FinanceReport{NetProfit: profit}
	assert.True(t, r.Profitable())

	// Breaking even still counts.
	r = &FinanceReport{}
	assert.True(t, r.Profitable())

	r = &FinanceReport{NetProfit: loss}
	assert.False(t, r.Profitable())
}

func TestFinanceReport_DecodesWirePayload(t *testing.T) {
	payload := `{
		"total_income": "5000.00",
		"total_expenses": "1200.50",
		"net_profit": "3799.50",
		"category_breakdown": [
			{"category_name": "Sales", "category_type": "INCOME", "total_amount": "5000.00"}
		],
		"time_period": {"start_date": "2026-08-01", "end_date": null}
	}`

	var r FinanceReport
	require.NoError(t, json.Unmarshal([]byte(payload), &r))
	assert.Equal(t, "5000.00", r.TotalIncome.Display())
	require.Len(t, r.CategoryBreakdown, 1)
	assert.Equal(t, CategoryIncome, r.CategoryBreakdown[0].CategoryType)
	require.NotNil(t, r.TimePeriod.StartDate)
	assert.Equal(t, "2026-08-01", *r.TimePeriod.StartDate)
	assert.Nil(t, r.TimePeriod.EndDate)
}
