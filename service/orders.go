package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"fabrie-console/forms"
	"fabrie-console/models"
)

// ListOrders fetches every order.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/orders/",
		out:    &orders,
	}); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order by its product id.
func (c *Client) GetOrder(ctx context.Context, productID string) (models.Order, error) {
	var order models.Order
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   orderPath(productID),
		out:    &order,
	}); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// CreateOrder submits a new order. The form must already be normalized
// and validated; the backend assigns the product id.
func (c *Client) CreateOrder(ctx context.Context, form *forms.OrderForm) (models.Order, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return models.Order{}, fmt.Errorf("encode order form: %w", err)
	}

	var order models.Order
	if err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/orders/",
		body:        body.Bytes(),
		contentType: contentType,
		out:         &order,
	}); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// UpdateOrder replaces an order with the submitted form.
func (c *Client) UpdateOrder(ctx context.Context, productID string, form *forms.OrderForm) (models.Order, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return models.Order{}, fmt.Errorf("encode order form: %w", err)
	}

	var order models.Order
	if err := c.do(ctx, request{
		method:      http.MethodPut,
		path:        orderPath(productID),
		body:        body.Bytes(),
		contentType: contentType,
		out:         &order,
	}); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// DeleteOrder removes an order.
func (c *Client) DeleteOrder(ctx context.Context, productID string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   orderPath(productID),
	})
}

// UploadOrderImage attaches a product photo to an existing order. The
// backend's update endpoint wants the full record, so the current
// fields are fetched and re-submitted alongside the image.
func (c *Client) UploadOrderImage(ctx context.Context, productID string, file forms.FileUpload) (models.Order, error) {
	current, err := c.GetOrder(ctx, productID)
	if err != nil {
		return models.Order{}, err
	}

	form := forms.FormFromOrder(current)
	form.Image = &file
	return c.UpdateOrder(ctx, productID, &form)
}

func orderPath(productID string) string {
	return fmt.Sprintf("/api/orders/%s/", url.PathEscape(productID))
}
