package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"fabrie-console/forms"
	"fabrie-console/models"
)

// ListCategories fetches all finance categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/finance/categories/",
		out:    &categories,
	}); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a finance category.
func (c *Client) CreateCategory(ctx context.Context, form *forms.CategoryForm) (models.Category, error) {
	body, err := json.Marshal(form)
	if err != nil {
		return models.Category{}, fmt.Errorf("encode category: %w", err)
	}

	var category models.Category
	if err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/finance/categories/",
		body:        body,
		contentType: "application/json",
		out:         &category,
	}); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

// DeleteCategory removes a category. A category that still has
// transactions is protected; the backend's rejection surfaces as
// ErrCategoryInUse.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/finance/categories/%d/", id),
	})

	var ve *ValidationError
	if errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrCategoryInUse, ve)
	}
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusConflict {
		return fmt.Errorf("%w: %s", ErrCategoryInUse, se.Body)
	}
	return err
}

// TransactionOptions narrows a transaction listing. Dates are
// YYYY-MM-DD strings passed through to the backend, which validates
// them. Zero values mean no constraint.
type TransactionOptions struct {
	Limit     int
	StartDate string
	EndDate   string
}

// ListTransactions fetches transactions, newest first. When a limit is
// set the result is capped locally as well, in case the backend ignores
// the parameter.
func (c *Client) ListTransactions(ctx context.Context, opts TransactionOptions) ([]models.Transaction, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.StartDate != "" {
		query.Set("start_date", opts.StartDate)
	}
	if opts.EndDate != "" {
		query.Set("end_date", opts.EndDate)
	}

	var transactions []models.Transaction
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/finance/transactions/",
		query:  query,
		out:    &transactions,
	}); err != nil {
		return nil, err
	}

	if opts.Limit > 0 && len(transactions) > opts.Limit {
		transactions = transactions[:opts.Limit]
	}
	return transactions, nil
}

// GetTransaction fetches one transaction.
func (c *Client) GetTransaction(ctx context.Context, id int64) (models.Transaction, error) {
	var transaction models.Transaction
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   transactionPath(id),
		out:    &transaction,
	}); err != nil {
		return models.Transaction{}, err
	}
	return transaction, nil
}

// CreateTransaction records a new income or expense entry. The amount
// travels as the string the user typed; the backend stamps the date.
func (c *Client) CreateTransaction(ctx context.Context, form *forms.TransactionForm) (models.Transaction, error) {
	return c.submitTransaction(ctx, http.MethodPost, "/api/finance/transactions/", form)
}

// UpdateTransaction replaces an existing entry.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, form *forms.TransactionForm) (models.Transaction, error) {
	return c.submitTransaction(ctx, http.MethodPut, transactionPath(id), form)
}

func (c *Client) submitTransaction(ctx context.Context, method, path string, form *forms.TransactionForm) (models.Transaction, error) {
	body, err := json.Marshal(form)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("encode transaction: %w", err)
	}

	var transaction models.Transaction
	if err := c.do(ctx, request{
		method:      method,
		path:        path,
		body:        body,
		contentType: "application/json",
		out:         &transaction,
	}); err != nil {
		return models.Transaction{}, err
	}
	return transaction, nil
}

// DeleteTransaction removes an entry.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   transactionPath(id),
	})
}

// GetReport fetches the server-computed income/expense report for the
// period. Empty date strings leave the period open on that side. The
// report's totals are ground truth; nothing downstream recomputes them.
func (c *Client) GetReport(ctx context.Context, startDate, endDate string) (models.FinanceReport, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("start_date", startDate)
	}
	if endDate != "" {
		query.Set("end_date", endDate)
	}

	var report models.FinanceReport
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/finance/report/",
		query:  query,
		out:    &report,
	}); err != nil {
		return models.FinanceReport{}, err
	}
	return report, nil
}

func transactionPath(id int64) string {
	return fmt.Sprintf("/api/finance/transactions/%d/", id)
}
