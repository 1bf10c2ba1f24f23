package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabrie-console/config"
	"fabrie-console/service"
)

const reportJSON = `{
	"total_income": "5000.00", "total_expenses": "1200.50", "net_profit": "3799.50",
	"category_breakdown": [
		{"category_name": "Sales", "category_type": "INCOME", "total_amount": "5000.00"},
		{"category_name": "Rent", "category_type": "EXPENSE", "total_amount": "1200.50"}
	],
	"time_period": {"start_date": "2026-08-01", "end_date": "2026-08-31"}
}`

const transactionsJSON = `[
	{"id": 2, "category": 1, "category_name": "Sales", "category_type": "INCOME",
	 "amount": "1500.50", "date": "2026-08-20", "description": "Kurta batch"},
	{"id": 1, "category": 2, "category_name": "Rent", "category_type": "EXPENSE",
	 "amount": "800.00", "date": "2026-08-01", "description": "Workshop rent"}
]`

func financeRouter(t *testing.T, backend *fakeBackend, email *config.EmailConfig) *gin.Engine {
	t.Helper()
	client, _ := newBackendClient(t, backend)

	cfg := testConfig()
	if email != nil {
		cfg.Email = *email
	}
	h := NewFinanceHandler(client, cfg, service.NewReportMailer(&cfg.Email))

	router := newTestRouter()
	router.GET("/app/finance/overview", h.Overview)
	router.GET("/app/finance/categories", h.ListCategories)
	router.POST("/app/finance/categories", h.CreateCategory)
	router.DELETE("/app/finance/categories/:id", h.DeleteCategory)
	router.GET("/app/finance/transactions", h.ListTransactions)
	router.POST("/app/finance/transactions", h.CreateTransaction)
	router.GET("/app/finance/transactions/:id", h.GetTransaction)
	router.PUT("/app/finance/transactions/:id", h.UpdateTransaction)
	router.DELETE("/app/finance/transactions/:id", h.DeleteTransaction)
	router.GET("/app/finance/report", h.Report)
	router.POST("/app/finance/report/email", h.EmailReport)
	return router
}

func TestFinanceOverview_AggregatesBackendCalls(t *testing.T) {
	backend := newFakeBackend()
	backend.serveJSON("/api/finance/categories/", `[
		{"id": 1, "name": "Sales", "type": "INCOME"},
		{"id": 2, "name": "Rent", "type": "EXPENSE"}
	]`)
	var gotPeriod string
	backend.handle("/api/finance/transactions/", func(w http.ResponseWriter, r *http.Request) {
		gotPeriod = r.URL.Query().Get("start_date")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(transactionsJSON))
	})
	backend.serveJSON("/api/finance/report/", reportJSON)
	router := financeRouter(t, backend, nil)

	w := perform(router, "GET", "/app/finance/overview?start_date=2026-08-01&end_date=2026-08-31", "")
	require.Equal(t, 200, w.Code)

	data := envelope(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["categories"], 2)
	assert.Len(t, data["transactions"], 2)
	report := data["report"].(map[string]interface{})
	assert.Equal(t, "3799.50", report["net_profit"])
	assert.Equal(t, "2026-08-01", gotPeriod)
}

func TestCreateCategory_Validation(t *testing.T) {
	backend := newFakeBackend()
	router := financeRouter(t, backend, nil)

	w := perform(router, "POST", "/app/finance/categories", `{"name": "", "type": "INCOME"}`)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Category name is required", envelope(t, w)["message"])

	w = perform(router, "POST", "/app/finance/categories", `{"name": "Sales", "type": "SAVINGS"}`)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Choose a category type", envelope(t, w)["message"])

	assert.EqualValues(t, 0, backend.hits.Load())
}

func TestCreateCategory_DuplicateNameSurfacesBackendMessage(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/finance/categories/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"name": ["category with this name already exists."]}`))
	})
	router := financeRouter(t, backend, nil)

	w := perform(router, "POST", "/app/finance/categories", `{"name": "Sales", "type": "INCOME"}`)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "name: category with this name already exists.", envelope(t, w)["message"])
}

func TestDeleteCategory_StillInUse(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/finance/categories/1/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Cannot delete a category that has transactions."}`))
	})
	router := financeRouter(t, backend, nil)

	w := perform(router, "DELETE", "/app/finance/categories/1", "")
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Cannot delete this category, it still has transactions", envelope(t, w)["message"])
}

func TestDeleteCategory_BadID(t *testing.T) {
	backend := newFakeBackend()
	router := financeRouter(t, backend, nil)

	w := perform(router, "DELETE", "/app/finance/categories/abc", "")
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Invalid id", envelope(t, w)["message"])
	assert.EqualValues(t, 0, backend.hits.Load())
}

func TestCreateTransaction_ValidationStopsBeforeBackend(t *testing.T) {
	backend := newFakeBackend()
	router := financeRouter(t, backend, nil)

	w := perform(router, "POST", "/app/finance/transactions", `{"category": 0, "amount": "100"}`)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Select a category", envelope(t, w)["message"])

	w = perform(router, "POST", "/app/finance/transactions", `{"category": 1, "amount": "-5"}`)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Enter a valid amount", envelope(t, w)["message"])

	assert.EqualValues(t, 0, backend.hits.Load())
}

func TestCreateTransaction_Forwards(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/finance/transactions/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 7, "category": 1, "category_name": "Sales",
			"category_type": "INCOME", "amount": "1500.50", "date": "2026-08-21"}`))
	})
	router := financeRouter(t, backend, nil)

	w := perform(router, "POST", "/app/finance/transactions",
		`{"category": 1, "amount": "1500.50", "description": "Kurta batch"}`)
	require.Equal(t, 200, w.Code)

	resp := envelope(t, w)
	assert.Equal(t, "Transaction recorded", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "1500.50", data["amount"])
}

func TestFinanceReport_PassesPeriodThrough(t *testing.T) {
	backend := newFakeBackend()
	var gotStart, gotEnd string
	backend.handle("/api/finance/report/", func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("start_date")
		gotEnd = r.URL.Query().Get("end_date")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reportJSON))
	})
	router := financeRouter(t, backend, nil)

	w := perform(router, "GET", "/app/finance/report?start_date=2026-08-01&end_date=2026-08-31", "")
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "2026-08-01", gotStart)
	assert.Equal(t, "2026-08-31", gotEnd)

	data := envelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "5000.00", data["total_income"])
}

func TestFinanceReport_InvalidPeriodSurfacesBackendError(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/finance/report/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Invalid start_date format. Use YYYY-MM-DD."}`))
	})
	router := financeRouter(t, backend, nil)

	w := perform(router, "GET", "/app/finance/report?start_date=yesterday", "")
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Invalid start_date format. Use YYYY-MM-DD.", envelope(t, w)["message"])
}

func TestEmailReport_DisabledMailerFailsCleanly(t *testing.T) {
	backend := newFakeBackend()
	backend.serveJSON("/api/finance/report/", reportJSON)
	backend.serveJSON("/api/finance/transactions/", transactionsJSON)
	router := financeRouter(t, backend, &config.EmailConfig{Enabled: false})

	w := perform(router, "POST", "/app/finance/report/email",
		`{"start_date": "2026-08-01", "end_date": "2026-08-31"}`)
	assert.Equal(t, 500, w.Code)
	assert.Contains(t, envelope(t, w)["message"], "email is disabled")
}
