package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// OrderStatus is the closed set of workflow labels the backend accepts.
// The three workshop stages are stored lowercase; that spelling is part of
// the wire contract and must not be "fixed" here.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCutting   OrderStatus = "cutting"
	StatusStitching OrderStatus = "stitching"
	StatusFinishing OrderStatus = "finishing"
	StatusReady     OrderStatus = "Ready for Delivery"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

// AllStatuses returns every status label in workflow order.
func AllStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPending,
		StatusCutting,
		StatusStitching,
		StatusFinishing,
		StatusReady,
		StatusDelivered,
		StatusCancelled,
	}
}

// Valid reports whether s is one of the known status labels.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCutting, StatusStitching, StatusFinishing,
		StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the order left the production pipeline,
// either delivered or cancelled.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// InProgress reports whether the order still needs work: pending or in
// one of the workshop stages. Any status may follow any other — the
// backend enforces no transition graph and neither does the console.
func (s OrderStatus) InProgress() bool {
	switch s {
	case StatusPending, StatusCutting, StatusStitching, StatusFinishing:
		return true
	}
	return false
}

// Sizes is the garment size vocabulary, in display order.
var Sizes = []string{"S", "M", "L", "XL", "2XL", "3XL"}

// ValidSize reports whether size is part of the vocabulary.
func ValidSize(size string) bool {
	for _, s := range Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// SizeQuantities maps a size label to the number of pieces ordered in
// that size. The backend occasionally delivers it as a JSON-encoded
// string and the values as numbers, numeric strings or null, so decoding
// is deliberately forgiving: anything unreadable becomes an empty map or
// a zero value rather than an error.
type SizeQuantities map[string]int

// UnmarshalJSON accepts an object, a string containing an object, or
// null. Unparseable input yields an empty map.
func (q *SizeQuantities) UnmarshalJSON(data []byte) error {
	*q = SizeQuantities{}

	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}

	// String-encoded object: unwrap one level and retry.
	if strings.HasPrefix(raw, `"`) {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil
		}
		data = []byte(inner)
	}

	var loose map[string]interface{}
	if err := json.Unmarshal(data, &loose); err != nil {
		return nil
	}
	for size, v := range loose {
		(*q)[size] = coerceQuantity(v)
	}
	return nil
}

func coerceQuantity(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return 0
}

// Sum returns the total number of pieces across all sizes.
func (q SizeQuantities) Sum() int {
	total := 0
	for _, n := range q {
		total += n
	}
	return total
}

// DateLayout is the calendar-date wire format used by the backend.
const DateLayout = "2006-01-02"

// Date is a calendar date exchanged as "2006-01-02". The zero Date
// marshals as null. Parsed values sit at local midnight.
type Date struct {
	time.Time
}

// DateOf truncates t to its local calendar day.
func DateOf(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())}
}

// ParseDate parses a "2006-01-02" string in the local zone.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// MarshalJSON renders the date as "2006-01-02", or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts "2006-01-02", an empty string, or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Order is a garment production order as the backend serves it. The
// product id is the business key; quantity is derived server-side from
// the size quantities (times the set multiplier for set orders) and is
// never authoritative on the console.
type Order struct {
	ProductID      string         `json:"product_id"`
	CustomerName   string         `json:"customer_name"`
	ProductName    string         `json:"product_name"`
	ProductImage   string         `json:"product_image,omitempty"`
	FabricType     string         `json:"fabric_type,omitempty"`
	FabricWeight   string         `json:"fabric_weight,omitempty"`
	Colours        []string       `json:"colours"`
	Description    string         `json:"description,omitempty"`
	Size           []string       `json:"size"`
	SizeQuantities SizeQuantities `json:"size_quantities"`
	OrderDate      Date           `json:"order_date"`
	DeliveryDate   Date           `json:"delivery_date"`
	Quantity       int            `json:"quantity"`
	IsSet          bool           `json:"is_set"`
	SetMultiplier  int            `json:"set_multiplier"`
	Status         OrderStatus    `json:"status"`
}
