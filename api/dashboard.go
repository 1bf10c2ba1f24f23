package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"fabrie-console/config"
	"fabrie-console/models"
	"fabrie-console/service"
	"fabrie-console/stats"
)

// DashboardHandler serves the landing overview.
type DashboardHandler struct {
	client *service.Client
	cfg    *config.Config
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(client *service.Client, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{client: client, cfg: cfg}
}

// DashboardResponse is everything the dashboard shows in one payload.
type DashboardResponse struct {
	OrderStats         stats.Summary        `json:"order_stats"`
	UrgentOrders       []stats.UrgentOrder  `json:"urgent_orders"`
	OverdueCount       int                  `json:"overdue_count"`
	Reserve            models.Money         `json:"reserve"`
	Report             models.FinanceReport `json:"report"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
}

// Overview returns the dashboard payload.
// @Summary Dashboard overview
// @Description Order counters, urgent and overdue deliveries, the delivered-stock reserve, the all-time finance report and the latest transactions. The three backend reads run in parallel.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} Response{data=DashboardResponse} "Dashboard"
// @Failure 502 {object} Response "Backend unreachable"
// @Router /app/dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	g, ctx := errgroup.WithContext(c.Request.Context())

	var (
		orders []models.Order
		report models.FinanceReport
		recent []models.Transaction
	)
	g.Go(func() error {
		var err error
		orders, err = h.client.ListOrders(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		report, err = h.client.GetReport(ctx, "", "")
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = h.client.ListTransactions(ctx, service.TransactionOptions{
			Limit: h.cfg.Business.RecentTransactions,
		})
		return err
	})

	if err := g.Wait(); err != nil {
		respondServiceError(c, err, "Failed to load the dashboard")
		return
	}

	now := time.Now()
	business := h.cfg.Business

	Success(c, DashboardResponse{
		OrderStats:         stats.Calculate(orders),
		UrgentOrders:       stats.Urgent(orders, now, business.UrgentWindowDays, business.UrgentLimit),
		OverdueCount:       len(stats.Overdue(orders, now)),
		Reserve:            stats.Reserve(orders, business.ReserveRateValue),
		Report:             report,
		RecentTransactions: recent,
	})
}
