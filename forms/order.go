// Package forms validates and encodes user-submitted order and finance
// forms before they are forwarded to the backend. Validation mirrors
// what the workshop staff see on screen: rules run in field order and
// the first failure is the whole result.
package forms

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"fabrie-console/models"
)

// Validation messages are shown to the user verbatim.
var (
	ErrCustomerNameRequired = errors.New("Customer name is required")
	ErrProductNameRequired  = errors.New("Product name is required")
	ErrNoSizeSelected       = errors.New("Select at least one size")
	ErrNoQuantity           = errors.New("Enter a quantity for at least one size")
	ErrNoColours            = errors.New("Enter at least one colour")
)

// FileUpload is an image attached to an order form. Content is held in
// memory; product photos are small.
type FileUpload struct {
	Filename string
	Content  []byte
}

// OrderForm is the add/edit order screen as submitted. Colours is the
// raw comma-separated input; the backend receives the parsed list.
type OrderForm struct {
	CustomerName   string                `json:"customer_name" form:"customer_name"`
	ProductName    string                `json:"product_name" form:"product_name"`
	FabricType     string                `json:"fabric_type" form:"fabric_type"`
	FabricWeight   string                `json:"fabric_weight" form:"fabric_weight"`
	Colours        string                `json:"colours" form:"colours"`
	Description    string                `json:"description" form:"description"`
	Sizes          []string              `json:"size" form:"size"`
	SizeQuantities models.SizeQuantities `json:"size_quantities" form:"-"`
	OrderDate      models.Date           `json:"order_date" form:"order_date"`
	DeliveryDate   models.Date           `json:"delivery_date" form:"delivery_date"`
	IsSet          bool                  `json:"is_set" form:"is_set"`
	SetMultiplier  int                   `json:"set_multiplier" form:"set_multiplier"`
	Status         models.OrderStatus    `json:"status" form:"status"`

	Image *FileUpload `json:"-" form:"-"`
}

// ParseColours splits a comma-separated colour input into a clean list:
// entries are trimmed and blanks dropped.
func ParseColours(raw string) []string {
	parts := strings.Split(raw, ",")
	colours := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.TrimSpace(p); c != "" {
			colours = append(colours, c)
		}
	}
	return colours
}

// ColourList returns the parsed colour entries of the form.
func (f *OrderForm) ColourList() []string {
	return ParseColours(f.Colours)
}

// TotalQuantity sums the per-size quantities as currently entered.
func (f *OrderForm) TotalQuantity() int {
	return f.SizeQuantities.Sum()
}

// Normalize tidies the form the way the edit screen does: names are
// trimmed, quantities for deselected sizes are dropped so they cannot
// sneak into the total, and the set multiplier never goes below one.
func (f *OrderForm) Normalize() {
	f.CustomerName = strings.TrimSpace(f.CustomerName)
	f.ProductName = strings.TrimSpace(f.ProductName)
	f.FabricType = strings.TrimSpace(f.FabricType)
	f.FabricWeight = strings.TrimSpace(f.FabricWeight)

	selected := make(map[string]bool, len(f.Sizes))
	for _, s := range f.Sizes {
		selected[s] = true
	}
	for size := range f.SizeQuantities {
		if !selected[size] {
			delete(f.SizeQuantities, size)
		}
	}
	for size, qty := range f.SizeQuantities {
		if qty < 0 {
			f.SizeQuantities[size] = 0
		}
	}

	if f.SetMultiplier < 1 {
		f.SetMultiplier = 1
	}
}

// Validate runs the submission rules in screen order and returns the
// first failure. A nil result means the form can be sent.
func (f *OrderForm) Validate() error {
	if strings.TrimSpace(f.CustomerName) == "" {
		return ErrCustomerNameRequired
	}
	if strings.TrimSpace(f.ProductName) == "" {
		return ErrProductNameRequired
	}
	if len(f.Sizes) == 0 {
		return ErrNoSizeSelected
	}
	if f.TotalQuantity() <= 0 {
		return ErrNoQuantity
	}
	if len(f.ColourList()) == 0 {
		return ErrNoColours
	}
	return nil
}

// Encode builds the multipart payload the backend's order endpoints
// expect: scalar fields, one part per selected size and per colour, the
// quantity map as a JSON string, and the image only when a real file
// was chosen. It returns the body and its content type.
func (f *OrderForm) Encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	if err := f.encodeTo(w); err != nil {
		w.Close()
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

func (f *OrderForm) encodeTo(w *multipart.Writer) error {
	fields := []struct{ name, value string }{
		{"customer_name", f.CustomerName},
		{"product_name", f.ProductName},
		{"fabric_type", f.FabricType},
		{"fabric_weight", f.FabricWeight},
		{"description", f.Description},
	}
	for _, field := range fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return err
		}
	}

	for _, size := range f.Sizes {
		if err := w.WriteField("size", size); err != nil {
			return err
		}
	}
	for _, colour := range f.ColourList() {
		if err := w.WriteField("colours", colour); err != nil {
			return err
		}
	}

	quantities := f.SizeQuantities
	if quantities == nil {
		quantities = models.SizeQuantities{}
	}
	encoded, err := json.Marshal(map[string]int(quantities))
	if err != nil {
		return err
	}
	if err := w.WriteField("size_quantities", string(encoded)); err != nil {
		return err
	}

	// Dates stay absent when unset so the backend applies its defaults.
	if !f.OrderDate.IsZero() {
		if err := w.WriteField("order_date", f.OrderDate.Format(models.DateLayout)); err != nil {
			return err
		}
	}
	if !f.DeliveryDate.IsZero() {
		if err := w.WriteField("delivery_date", f.DeliveryDate.Format(models.DateLayout)); err != nil {
			return err
		}
	}

	if err := w.WriteField("is_set", strconv.FormatBool(f.IsSet)); err != nil {
		return err
	}
	if f.SetMultiplier > 0 {
		if err := w.WriteField("set_multiplier", strconv.Itoa(f.SetMultiplier)); err != nil {
			return err
		}
	}
	if f.Status != "" {
		if err := w.WriteField("status", string(f.Status)); err != nil {
			return err
		}
	}

	if f.Image != nil && f.Image.Filename != "" && len(f.Image.Content) > 0 {
		part, err := w.CreateFormFile("product_image", f.Image.Filename)
		if err != nil {
			return err
		}
		if _, err := part.Write(f.Image.Content); err != nil {
			return err
		}
	}
	return nil
}

// FormFromOrder rebuilds an editable form from an existing order, for
// edit prefill and for re-submitting an order with a new image.
func FormFromOrder(o models.Order) OrderForm {
	quantities := make(models.SizeQuantities, len(o.SizeQuantities))
	for size, qty := range o.SizeQuantities {
		quantities[size] = qty
	}
	return OrderForm{
		CustomerName:   o.CustomerName,
		ProductName:    o.ProductName,
		FabricType:     o.FabricType,
		FabricWeight:   o.FabricWeight,
		Colours:        strings.Join(o.Colours, ", "),
		Description:    o.Description,
		Sizes:          append([]string(nil), o.Size...),
		SizeQuantities: quantities,
		OrderDate:      o.OrderDate,
		DeliveryDate:   o.DeliveryDate,
		IsSet:          o.IsSet,
		SetMultiplier:  o.SetMultiplier,
		Status:         o.Status,
	}
}
