package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabrie-console/forms"
)

func TestDeleteCategoryInUse(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/finance/categories/7/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Cannot delete a category that has transactions."}`))
	})

	client, _ := newTestClient(t, backend)

	err := client.DeleteCategory(context.Background(), 7)
	assert.ErrorIs(t, err, ErrCategoryInUse)
}

func TestDeleteCategoryUnreferenced(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/finance/categories/8/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	client, _ := newTestClient(t, backend)
	assert.NoError(t, client.DeleteCategory(context.Background(), 8))
}

func TestListTransactionsQueryAndLocalCap(t *testing.T) {
	backend := newFakeBackend()

	var gotQuery url.Values
	backend.handle("/api/finance/transactions/", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		// The backend ignores limit; seven rows come back anyway.
		w.Write([]byte(`[
			{"id": 1, "category": 2, "category_name": "Sales", "category_type": "INCOME", "amount": "900.00", "date": "2026-08-20"},
			{"id": 2, "category": 2, "category_name": "Sales", "category_type": "INCOME", "amount": "120.00", "date": "2026-08-19"},
			{"id": 3, "category": 3, "category_name": "Thread", "category_type": "EXPENSE", "amount": "45.50", "date": "2026-08-19"},
			{"id": 4, "category": 2, "category_name": "Sales", "category_type": "INCOME", "amount": "300.00", "date": "2026-08-18"},
			{"id": 5, "category": 3, "category_name": "Thread", "category_type": "EXPENSE", "amount": "12.25", "date": "2026-08-17"},
			{"id": 6, "category": 2, "category_name": "Sales", "category_type": "INCOME", "amount": "80.00", "date": "2026-08-16"},
			{"id": 7, "category": 3, "category_name": "Thread", "category_type": "EXPENSE", "amount": "5.00", "date": "2026-08-15"}
		]`))
	})

	client, _ := newTestClient(t, backend)

	transactions, err := client.ListTransactions(context.Background(), TransactionOptions{
		Limit:     5,
		StartDate: "2026-08-01",
		EndDate:   "2026-08-21",
	})
	require.NoError(t, err)

	assert.Equal(t, "5", gotQuery.Get("limit"))
	assert.Equal(t, "2026-08-01", gotQuery.Get("start_date"))
	assert.Equal(t, "2026-08-21", gotQuery.Get("end_date"))
	assert.Len(t, transactions, 5)
	assert.Equal(t, int64(1), transactions[0].ID)
}

func TestListTransactionsNoOptions(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/finance/transactions/", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	client, _ := newTestClient(t, backend)

	transactions, err := client.ListTransactions(context.Background(), TransactionOptions{})
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestCreateTransactionPreservesAmountString(t *testing.T) {
	backend := newFakeBackend()

	var received map[string]any
	backend.handle("/api/finance/transactions/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 11, "category": 3, "category_name": "Thread", "category_type": "EXPENSE", "amount": "1500.50", "date": "2026-08-21"}`))
	})

	client, _ := newTestClient(t, backend)

	created, err := client.CreateTransaction(context.Background(), &forms.TransactionForm{
		Category:    3,
		Amount:      "1500.50",
		Description: "bulk thread order",
	})
	require.NoError(t, err)

	// The amount crosses the wire as the typed string, not a float.
	assert.Equal(t, "1500.50", received["amount"])
	assert.Equal(t, "1500.50", created.Amount.Display())
}

func TestGetReportDecodesMoneyExactly(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/finance/report/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-08-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2026-08-21", r.URL.Query().Get("end_date"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"total_income": "2300.00",
			"total_expenses": "1500.50",
			"net_profit": "799.50",
			"category_breakdown": [
				{"category_name": "Sales", "category_type": "INCOME", "total_amount": "2300.00"},
				{"category_name": "Thread", "category_type": "EXPENSE", "total_amount": "1500.50"}
			],
			"time_period": {"start_date": "2026-08-01", "end_date": "2026-08-21"}
		}`))
	})

	client, _ := newTestClient(t, backend)

	report, err := client.GetReport(context.Background(), "2026-08-01", "2026-08-21")
	require.NoError(t, err)

	assert.Equal(t, "2300.00", report.TotalIncome.Display())
	assert.Equal(t, "1500.50", report.TotalExpenses.Display())
	assert.Equal(t, "799.50", report.NetProfit.Display())
	assert.True(t, report.Profitable())
	require.Len(t, report.CategoryBreakdown, 2)
	assert.Equal(t, "Sales", report.CategoryBreakdown[0].CategoryName)
	require.NotNil(t, report.TimePeriod.StartDate)
	assert.Equal(t, "2026-08-01", *report.TimePeriod.StartDate)
}

func TestGetReportOpenPeriod(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/finance/report/", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"total_income": "0.00",
			"total_expenses": "0.00",
			"net_profit": "0.00",
			"category_breakdown": [],
			"time_period": {"start_date": null, "end_date": null}
		}`))
	})

	client, _ := newTestClient(t, backend)

	report, err := client.GetReport(context.Background(), "", "")
	require.NoError(t, err)
	assert.Nil(t, report.TimePeriod.StartDate)
	assert.Nil(t, report.TimePeriod.EndDate)
	// Zero activity breaks even, which still counts as profitable.
	assert.True(t, report.Profitable())
}
