package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"fabrie-console/config"
	"fabrie-console/forms"
	"fabrie-console/models"
	"fabrie-console/service"
)

// FinanceHandler serves the finance screens.
type FinanceHandler struct {
	client *service.Client
	cfg    *config.Config
	mailer *service.ReportMailer
}

// NewFinanceHandler creates the finance handler.
func NewFinanceHandler(client *service.Client, cfg *config.Config, mailer *service.ReportMailer) *FinanceHandler {
	return &FinanceHandler{client: client, cfg: cfg, mailer: mailer}
}

// FinanceOverviewResponse is the finance page in one payload.
type FinanceOverviewResponse struct {
	Categories   []models.Category    `json:"categories"`
	Transactions []models.Transaction `json:"transactions"`
	Report       models.FinanceReport `json:"report"`
}

// Overview returns categories, transactions and the report for the
// period in one response.
// @Summary Finance overview
// @Description Categories, transactions and the report for the requested period, fetched from the backend in parallel.
// @Tags Finance
// @Produce json
// @Param start_date query string false "Period start (YYYY-MM-DD)"
// @Param end_date query string false "Period end (YYYY-MM-DD)"
// @Success 200 {object} Response{data=FinanceOverviewResponse} "Finance overview"
// @Failure 400 {object} Response "Invalid period"
// @Failure 502 {object} Response "Backend unreachable"
// @Router /app/finance/overview [get]
func (h *FinanceHandler) Overview(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	g, ctx := errgroup.WithContext(c.Request.Context())

	var (
		categories   []models.Category
		transactions []models.Transaction
		report       models.FinanceReport
	)
	g.Go(func() error {
		var err error
		categories, err = h.client.ListCategories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = h.client.ListTransactions(ctx, service.TransactionOptions{
			StartDate: startDate,
			EndDate:   endDate,
		})
		return err
	})
	g.Go(func() error {
		var err error
		report, err = h.client.GetReport(ctx, startDate, endDate)
		return err
	})

	if err := g.Wait(); err != nil {
		respondServiceError(c, err, "Failed to load finances")
		return
	}

	Success(c, FinanceOverviewResponse{
		Categories:   categories,
		Transactions: transactions,
		Report:       report,
	})
}

// ListCategories returns the finance categories.
// @Summary List categories
// @Tags Finance
// @Produce json
// @Success 200 {object} Response{data=[]models.Category} "Categories"
// @Failure 502 {object} Response "Backend unreachable"
// @Router /app/finance/categories [get]
func (h *FinanceHandler) ListCategories(c *gin.Context) {
	categories, err := h.client.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load categories")
		return
	}
	Success(c, categories)
}

// CreateCategory adds a category.
// @Summary Create a category
// @Tags Finance
// @Accept json
// @Produce json
// @Param request body forms.CategoryForm true "Category form"
// @Success 200 {object} Response{data=models.Category} "Created category"
// @Failure 400 {object} Response "Validation failure"
// @Router /app/finance/categories [post]
func (h *FinanceHandler) CreateCategory(c *gin.Context) {
	var form forms.CategoryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid category payload"))
		return
	}
	if err := form.Validate(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	category, err := h.client.CreateCategory(c.Request.Context(), &form)
	if err != nil {
		respondServiceError(c, err, "Failed to create the category")
		return
	}
	SuccessWithMessage(c, "Category created", category)
}

// DeleteCategory removes a category. Categories that still have
// transactions are protected by the backend.
// @Summary Delete a category
// @Tags Finance
// @Produce json
// @Param id path int true "Category id"
// @Success 200 {object} Response "Deleted"
// @Failure 400 {object} Response "Category still in use"
// @Failure 404 {object} Response "Record not found"
// @Router /app/finance/categories/{id} [delete]
func (h *FinanceHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.client.DeleteCategory(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete the category")
		return
	}
	SuccessWithMessage(c, "Category deleted", nil)
}

// ListTransactions returns transactions, newest first.
// @Summary List transactions
// @Tags Finance
// @Produce json
// @Param limit query int false "Maximum entries to return"
// @Param start_date query string false "Period start (YYYY-MM-DD)"
// @Param end_date query string false "Period end (YYYY-MM-DD)"
// @Success 200 {object} Response{data=[]models.Transaction} "Transactions"
// @Failure 400 {object} Response "Invalid period"
// @Failure 502 {object} Response "Backend unreachable"
// @Router /app/finance/transactions [get]
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	transactions, err := h.client.ListTransactions(c.Request.Context(), service.TransactionOptions{
		Limit:     limit,
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		respondServiceError(c, err, "Failed to load transactions")
		return
	}
	Success(c, transactions)
}

// GetTransaction returns one transaction.
// @Summary Get a transaction
// @Tags Finance
// @Produce json
// @Param id path int true "Transaction id"
// @Success 200 {object} Response{data=models.Transaction} "Transaction"
// @Failure 404 {object} Response "Record not found"
// @Router /app/finance/transactions/{id} [get]
func (h *FinanceHandler) GetTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	transaction, err := h.client.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to load the transaction")
		return
	}
	Success(c, transaction)
}

// CreateTransaction records an entry.
// @Summary Create a transaction
// @Tags Finance
// @Accept json
// @Produce json
// @Param request body forms.TransactionForm true "Transaction form"
// @Success 200 {object} Response{data=models.Transaction} "Created transaction"
// @Failure 400 {object} Response "Validation failure"
// @Router /app/finance/transactions [post]
func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	form, ok := h.bindTransactionForm(c)
	if !ok {
		return
	}

	transaction, err := h.client.CreateTransaction(c.Request.Context(), form)
	if err != nil {
		respondServiceError(c, err, "Failed to record the transaction")
		return
	}
	SuccessWithMessage(c, "Transaction recorded", transaction)
}

// UpdateTransaction replaces an entry.
// @Summary Update a transaction
// @Tags Finance
// @Accept json
// @Produce json
// @Param id path int true "Transaction id"
// @Param request body forms.TransactionForm true "Transaction form"
// @Success 200 {object} Response{data=models.Transaction} "Updated transaction"
// @Failure 400 {object} Response "Validation failure"
// @Failure 404 {object} Response "Record not found"
// @Router /app/finance/transactions/{id} [put]
func (h *FinanceHandler) UpdateTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	form, ok := h.bindTransactionForm(c)
	if !ok {
		return
	}

	transaction, err := h.client.UpdateTransaction(c.Request.Context(), id, form)
	if err != nil {
		respondServiceError(c, err, "Failed to update the transaction")
		return
	}
	SuccessWithMessage(c, "Transaction updated", transaction)
}

func (h *FinanceHandler) bindTransactionForm(c *gin.Context) (*forms.TransactionForm, bool) {
	var form forms.TransactionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid transaction payload"))
		return nil, false
	}
	if err := form.Validate(); err != nil {
		BadRequest(c, err.Error())
		return nil, false
	}
	return &form, true
}

// DeleteTransaction removes an entry.
// @Summary Delete a transaction
// @Tags Finance
// @Produce json
// @Param id path int true "Transaction id"
// @Success 200 {object} Response "Deleted"
// @Failure 404 {object} Response "Record not found"
// @Router /app/finance/transactions/{id} [delete]
func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.client.DeleteTransaction(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete the transaction")
		return
	}
	SuccessWithMessage(c, "Transaction deleted", nil)
}

// Report returns the server-computed report for the period.
// @Summary Finance report
// @Description The backend's income/expense report for the period. Totals are the backend's; the console never recomputes them.
// @Tags Finance
// @Produce json
// @Param start_date query string false "Period start (YYYY-MM-DD)"
// @Param end_date query string false "Period end (YYYY-MM-DD)"
// @Success 200 {object} Response{data=models.FinanceReport} "Report"
// @Failure 400 {object} Response "Invalid period"
// @Failure 502 {object} Response "Backend unreachable"
// @Router /app/finance/report [get]
func (h *FinanceHandler) Report(c *gin.Context) {
	report, err := h.client.GetReport(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondServiceError(c, err, "Failed to load the report")
		return
	}
	Success(c, report)
}

// EmailReportRequest asks for a report period to be mailed out.
type EmailReportRequest struct {
	StartDate string   `json:"start_date" example:"2026-08-01"`
	EndDate   string   `json:"end_date" example:"2026-08-31"`
	To        []string `json:"to" example:"owner@example.com"`
}

// EmailReport mails the report with the spreadsheet attached.
// @Summary Email the finance report
// @Description Fetches the report for the period and mails it, with the export workbook attached, to the given or configured recipients.
// @Tags Finance
// @Accept json
// @Produce json
// @Param request body EmailReportRequest true "Period and recipients"
// @Success 200 {object} Response "Report sent"
// @Failure 400 {object} Response "Invalid period"
// @Failure 500 {object} Response "Mailer failure"
// @Router /app/finance/report/email [post]
func (h *FinanceHandler) EmailReport(c *gin.Context) {
	var req EmailReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request payload"))
		return
	}

	report, err := h.client.GetReport(c.Request.Context(), req.StartDate, req.EndDate)
	if err != nil {
		respondServiceError(c, err, "Failed to load the report")
		return
	}

	transactions, err := h.client.ListTransactions(c.Request.Context(), service.TransactionOptions{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to load transactions")
		return
	}

	f, err := buildFinanceWorkbook(report, transactions)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to build the spreadsheet"))
		return
	}
	defer func() { _ = f.Close() }()

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to build the spreadsheet"))
		return
	}

	filename := financeExportFilename(req.StartDate, req.EndDate)
	if err := h.mailer.SendFinanceReport(req.To, report, filename, buf.Bytes()); err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to send the report"))
		return
	}
	SuccessWithMessage(c, "Report sent", nil)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}
