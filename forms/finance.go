package forms

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"fabrie-console/models"
)

var (
	ErrCategoryNameRequired = errors.New("Category name is required")
	ErrCategoryTypeInvalid  = errors.New("Choose a category type")
	ErrCategoryRequired     = errors.New("Select a category")
	ErrAmountInvalid        = errors.New("Enter a valid amount")
)

// CategoryForm creates a finance category.
type CategoryForm struct {
	Name string `json:"name" form:"name"`
	Type string `json:"type" form:"type"`
}

// Validate checks the category form, first failure wins.
func (f *CategoryForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrCategoryNameRequired
	}
	if !models.CategoryType(f.Type).Valid() {
		return ErrCategoryTypeInvalid
	}
	return nil
}

// TransactionForm records an income or expense entry. Amount is kept
// as the user typed it and parsed exactly, never through a float. The
// entry date is stamped by the backend, so the form does not carry one.
type TransactionForm struct {
	Category    int64  `json:"category" form:"category"`
	Amount      string `json:"amount" form:"amount"`
	Description string `json:"description" form:"description"`
}

// Validate checks the transaction form, first failure wins.
func (f *TransactionForm) Validate() error {
	if f.Category <= 0 {
		return ErrCategoryRequired
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
	if err != nil || amount.Sign() <= 0 {
		return ErrAmountInvalid
	}
	return nil
}

// AmountValue returns the parsed amount. Call Validate first.
func (f *TransactionForm) AmountValue() models.Money {
	amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
	if err != nil {
		return models.Money{}
	}
	return models.Money{Decimal: amount}
}
