package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"fabrie-console/api"
	"fabrie-console/config"
	_ "fabrie-console/docs"
	"fabrie-console/middleware"
	"fabrie-console/service"
	"fabrie-console/web"
)

// writeRateLimit caps mutating requests per IP. The backend does its
// own CSRF checking; this only keeps a runaway client from hammering
// it.
const (
	writeRateLimitAttempts = 30
	writeRateLimitWindow   = time.Minute
)

// SetupRouter wires the console's routes.
func SetupRouter(cfg *config.Config, client *service.Client, log *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log, "/health", "/swagger/*any"))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	// Embedded landing page.
	staticFS, _ := fs.Sub(web.StaticFS, ".")
	r.GET("/", func(c *gin.Context) {
		content, err := fs.ReadFile(staticFS, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "failed to load page")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", content)
	})

	orderHandler := api.NewOrderHandler(client)
	financeHandler := api.NewFinanceHandler(client, cfg, service.NewReportMailer(&cfg.Email))
	dashboardHandler := api.NewDashboardHandler(client, cfg)
	exportHandler := api.NewExportHandler(client)

	// One shared limiter so all writes draw from the same budget.
	writeLimit := middleware.WriteRateLimit(writeRateLimitAttempts, writeRateLimitWindow)

	app := r.Group("/app")
	{
		app.GET("/dashboard", dashboardHandler.Overview)

		orders := app.Group("/orders")
		{
			orders.GET("", orderHandler.List)
			orders.POST("", writeLimit, orderHandler.Create)
			orders.GET("/overdue", orderHandler.Overdue)
			orders.GET("/:id", orderHandler.Get)
			orders.PUT("/:id", writeLimit, orderHandler.Update)
			orders.DELETE("/:id", writeLimit, orderHandler.Delete)
			orders.POST("/:id/image", writeLimit, orderHandler.UploadImage)
		}

		finance := app.Group("/finance")
		{
			finance.GET("/overview", financeHandler.Overview)
			finance.GET("/categories", financeHandler.ListCategories)
			finance.POST("/categories", writeLimit, financeHandler.CreateCategory)
			finance.DELETE("/categories/:id", writeLimit, financeHandler.DeleteCategory)
			finance.GET("/transactions", financeHandler.ListTransactions)
			finance.POST("/transactions", writeLimit, financeHandler.CreateTransaction)
			finance.GET("/transactions/:id", financeHandler.GetTransaction)
			finance.PUT("/transactions/:id", writeLimit, financeHandler.UpdateTransaction)
			finance.DELETE("/transactions/:id", writeLimit, financeHandler.DeleteTransaction)
			finance.GET("/report", financeHandler.Report)
			finance.POST("/report/email", writeLimit, financeHandler.EmailReport)
		}

		export := app.Group("/export")
		{
			export.GET("/orders.xlsx", exportHandler.OrdersExcel)
			export.GET("/finance.xlsx", exportHandler.FinanceExcel)
		}
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}
