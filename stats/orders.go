// Package stats computes the derived figures the console shows for
// orders: summary counts, search filtering, sort orders, delivery
// urgency and the delivered-stock reserve. Everything here is pure —
// no I/O, no clock reads; callers pass the evaluation instant in.
package stats

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"fabrie-console/models"
)

// TotalQuantity returns the number of pieces in the order, summed over
// its per-size quantities. An empty or unreadable quantity map counts
// as zero; the set multiplier is the backend's business, not ours.
func TotalQuantity(o models.Order) int {
	return o.SizeQuantities.Sum()
}

// Filter returns the orders matching query, case-insensitively, against
// product name, customer name, product id, fabric type and fabric
// weight. A blank query returns the input slice itself.
func Filter(orders []models.Order, query string) []models.Order {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return orders
	}

	matched := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if orderMatches(o, q) {
			matched = append(matched, o)
		}
	}
	return matched
}

func orderMatches(o models.Order, q string) bool {
	for _, field := range []string{
		o.ProductName,
		o.CustomerName,
		o.ProductID,
		o.FabricType,
		o.FabricWeight,
	} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Summary is the counts block shown above order lists and on the
// dashboard.
type Summary struct {
	TotalOrders      int `json:"total_orders"`
	InProgress       int `json:"in_progress"`
	ReadyForDelivery int `json:"ready_for_delivery"`
	Completed        int `json:"completed"`
	Cancelled        int `json:"cancelled"`
	TotalItems       int `json:"total_items"`
}

// Calculate tallies the orders into status buckets. TotalItems counts
// pieces across every order except cancelled ones: cancelled quantity
// was never produced, so it must not inflate the active inventory.
func Calculate(orders []models.Order) Summary {
	s := Summary{TotalOrders: len(orders)}
	for _, o := range orders {
		switch {
		case o.Status.InProgress():
			s.InProgress++
		case o.Status == models.StatusReady:
			s.ReadyForDelivery++
		case o.Status == models.StatusDelivered:
			s.Completed++
		case o.Status == models.StatusCancelled:
			s.Cancelled++
		}
		if o.Status != models.StatusCancelled {
			s.TotalItems += TotalQuantity(o)
		}
	}
	return s
}

// SortKey selects the field Sort orders by.
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByCustomer SortKey = "customer"
	SortByStatus   SortKey = "status"
)

// Sort returns a sorted copy of orders; the input is never mutated.
// Each key compares in its natural ascending direction (chronological,
// lexicographic); ascending=false reverses it, so the list default of
// SortByDate with ascending=false shows the most recent orders first.
// Ties keep their incoming relative order in either direction.
func Sort(orders []models.Order, by SortKey, ascending bool) []models.Order {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)

	var less func(a, b models.Order) bool
	switch by {
	case SortByCustomer:
		less = func(a, b models.Order) bool {
			return strings.ToLower(a.CustomerName) < strings.ToLower(b.CustomerName)
		}
	case SortByStatus:
		less = func(a, b models.Order) bool {
			return strings.ToLower(string(a.Status)) < strings.ToLower(string(b.Status))
		}
	default: // SortByDate
		less = func(a, b models.Order) bool {
			return a.OrderDate.Before(b.OrderDate.Time)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return less(sorted[i], sorted[j])
		}
		return less(sorted[j], sorted[i])
	})
	return sorted
}

// Reserve estimates the value of delivered stock: pieces across all
// delivered orders times the per-item rate. The rate is business
// policy, not ledger data; it comes from configuration and defaults to
// 15 currency units per piece.
func Reserve(orders []models.Order, perItem decimal.Decimal) models.Money {
	delivered := 0
	for _, o := range orders {
		if o.Status == models.StatusDelivered {
			delivered += TotalQuantity(o)
		}
	}
	return models.Money{Decimal: perItem.Mul(decimal.NewFromInt(int64(delivered)))}
}
