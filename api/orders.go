package api

import (
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fabrie-console/forms"
	"fabrie-console/models"
	"fabrie-console/service"
	"fabrie-console/stats"
)

// OrderHandler serves the order screens.
type OrderHandler struct {
	client *service.Client
}

// NewOrderHandler creates the order handler.
func NewOrderHandler(client *service.Client) *OrderHandler {
	return &OrderHandler{client: client}
}

// OrderListResponse is the order list plus the derived counters shown
// above it. The counters describe the filtered view, not the whole
// book, matching what the list screen displays.
type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Stats  stats.Summary  `json:"stats"`
}

// OrderDetailResponse is one order with its derived figures.
type OrderDetailResponse struct {
	Order         models.Order `json:"order"`
	TotalQuantity int          `json:"total_quantity"`
	DaysLeft      *int         `json:"days_left,omitempty"`
}

// OverdueResponse lists the orders past their delivery date.
type OverdueResponse struct {
	Orders []models.Order `json:"orders"`
	Count  int            `json:"count"`
}

// List returns the orders, filtered and sorted.
// @Summary List orders
// @Description Fetches all orders from the backend, filtered by the search query and sorted.
// @Tags Orders
// @Produce json
// @Param q query string false "Search across product, customer, id and fabric"
// @Param sort_by query string false "Sort key: date, customer or status" default(date)
// @Param ascending query bool false "Sort ascending instead of the key's default" default(false)
// @Success 200 {object} Response{data=OrderListResponse} "Order list"
// @Failure 502 {object} Response "Backend unreachable"
// @Router /app/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.client.ListOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load orders")
		return
	}

	query := c.Query("q")
	sortBy := stats.SortKey(c.DefaultQuery("sort_by", string(stats.SortByDate)))
	ascending, _ := strconv.ParseBool(c.DefaultQuery("ascending", "false"))

	visible := stats.Sort(stats.Filter(orders, query), sortBy, ascending)

	Success(c, OrderListResponse{
		Orders: visible,
		Stats:  stats.Calculate(visible),
	})
}

// Overdue returns the orders whose delivery date has passed.
// @Summary List overdue orders
// @Description Orders past their delivery date that are neither delivered nor cancelled, as of now.
// @Tags Orders
// @Produce json
// @Success 200 {object} Response{data=OverdueResponse} "Overdue orders"
// @Failure 502 {object} Response "Backend unreachable"
// @Router /app/orders/overdue [get]
func (h *OrderHandler) Overdue(c *gin.Context) {
	orders, err := h.client.ListOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load orders")
		return
	}

	late := stats.Overdue(orders, time.Now())
	Success(c, OverdueResponse{Orders: late, Count: len(late)})
}

// Get returns one order.
// @Summary Get an order
// @Description Fetches a single order with its derived piece count and days until delivery.
// @Tags Orders
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} Response{data=OrderDetailResponse} "Order detail"
// @Failure 404 {object} Response "Record not found"
// @Router /app/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.client.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load the order")
		return
	}

	detail := OrderDetailResponse{
		Order:         order,
		TotalQuantity: stats.TotalQuantity(order),
	}
	if !order.DeliveryDate.IsZero() {
		days := stats.DaysUntil(order.DeliveryDate, time.Now())
		detail.DaysLeft = &days
	}
	Success(c, detail)
}

// Create submits a new order.
// @Summary Create an order
// @Description Validates the order form and forwards it to the backend, which assigns the product id.
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body forms.OrderForm true "Order form"
// @Success 200 {object} Response{data=models.Order} "Created order"
// @Failure 400 {object} Response "Validation failure"
// @Router /app/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	form, ok := h.bindOrderForm(c)
	if !ok {
		return
	}

	order, err := h.client.CreateOrder(c.Request.Context(), form)
	if err != nil {
		respondServiceError(c, err, "Failed to create the order")
		return
	}
	SuccessWithMessage(c, "Order created", order)
}

// Update replaces an order.
// @Summary Update an order
// @Description Validates the edited form and replaces the order on the backend.
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Product id"
// @Param request body forms.OrderForm true "Order form"
// @Success 200 {object} Response{data=models.Order} "Updated order"
// @Failure 400 {object} Response "Validation failure"
// @Failure 404 {object} Response "Record not found"
// @Router /app/orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	form, ok := h.bindOrderForm(c)
	if !ok {
		return
	}

	order, err := h.client.UpdateOrder(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		respondServiceError(c, err, "Failed to update the order")
		return
	}
	SuccessWithMessage(c, "Order updated", order)
}

func (h *OrderHandler) bindOrderForm(c *gin.Context) (*forms.OrderForm, bool) {
	var form forms.OrderForm
	if err := c.ShouldBindJSON(&form); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid order payload"))
		return nil, false
	}

	form.Normalize()
	if err := form.Validate(); err != nil {
		BadRequest(c, err.Error())
		return nil, false
	}
	if form.Status != "" && !form.Status.Valid() {
		BadRequest(c, "Unknown order status")
		return nil, false
	}
	return &form, true
}

// Delete removes an order.
// @Summary Delete an order
// @Tags Orders
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} Response "Deleted"
// @Failure 404 {object} Response "Record not found"
// @Router /app/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.client.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete the order")
		return
	}
	SuccessWithMessage(c, "Order deleted", nil)
}

// UploadImage attaches a product photo to an order.
// @Summary Upload a product image
// @Description Attaches the uploaded photo to the order, keeping every other field as it is.
// @Tags Orders
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Product id"
// @Param product_image formData file true "Product photo"
// @Success 200 {object} Response{data=models.Order} "Updated order"
// @Failure 400 {object} Response "No file supplied"
// @Failure 404 {object} Response "Record not found"
// @Router /app/orders/{id}/image [post]
func (h *OrderHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("product_image")
	if err != nil {
		BadRequest(c, "Choose an image to upload")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to read the upload"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to read the upload"))
		return
	}

	order, err := h.client.UploadOrderImage(c.Request.Context(), c.Param("id"), forms.FileUpload{
		Filename: fileHeader.Filename,
		Content:  content,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to attach the image")
		return
	}
	SuccessWithMessage(c, "Image uploaded", order)
}
