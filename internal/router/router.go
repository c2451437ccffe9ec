package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"xenofy_analytics_v1_202610/internal/controller"
	"xenofy_analytics_v1_202610/internal/middleware"

	_ "xenofy_analytics_v1_202610/docs"
)

// Controllers handlers mounted by SetupRouter
type Controllers struct {
	Auth      *controller.AuthController
	Data      *controller.DataController
	Ingestion *controller.IngestionController
}

// Options cross-cutting settings of the HTTP surface
type Options struct {
	Tenants         middleware.TenantLookup
	CORSOrigins     []string
	TriggerCooldown time.Duration
	Logger          *zap.Logger
}

// SetupRouter builds the engine with every route
func SetupRouter(ctrls *Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(opts.Logger),
		middleware.RequestLogger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Xenofy Backend API"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	// http://localhost:3001/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	InitRoutes(r, ctrls, opts)
	return r
}

// InitRoutes registers the auth, data and ingestion groups
func InitRoutes(r *gin.Engine, ctrls *Controllers, opts Options) {
	requireAuth := middleware.JWTAuth(opts.Tenants)

	auth := r.Group("/auth")
	{
		auth.POST("/register", ctrls.Auth.Register)
		auth.POST("/login", ctrls.Auth.Login)
		auth.GET("/me", requireAuth, ctrls.Auth.Me)
		auth.POST("/logout", ctrls.Auth.Logout)
	}

	api := r.Group("/api", requireAuth)

	data := api.Group("/data")
	{
		data.GET("/dashboard", ctrls.Data.Dashboard)

		data.GET("/customers/stats", ctrls.Data.CustomerStats)
		data.GET("/customers/detailed", ctrls.Data.CustomersDetailed)
		data.GET("/customers/top-spenders", ctrls.Data.TopSpenders)

		data.GET("/orders/stats", ctrls.Data.OrderStats)
		data.GET("/orders/detailed", ctrls.Data.OrdersDetailed)
		data.GET("/orders/filtered", ctrls.Data.FilteredOrders)

		data.GET("/products/stats", ctrls.Data.ProductStats)
		data.GET("/products/detailed", ctrls.Data.ProductsDetailed)

		analytics := data.Group("/analytics")
		analytics.GET("/insights", ctrls.Data.Insights)
		analytics.GET("/abandoned-carts", ctrls.Data.AbandonedCarts)
		analytics.GET("/events", ctrls.Data.Events)
		analytics.GET("/inventory", ctrls.Data.Inventory)
		analytics.GET("/fulfillment", ctrls.Data.Fulfillment)
		analytics.GET("/customer-segments", ctrls.Data.CustomerSegments)
	}

	// manual runs share one cooldown per tenant
	cooldown := middleware.IngestionCooldown(middleware.NewCooldownLimiter(), opts.TriggerCooldown)
	ingestion := api.Group("/ingestion")
	{
		ingestion.POST("/trigger", cooldown, ctrls.Ingestion.Trigger)
		ingestion.POST("/retry/:runId", cooldown, ctrls.Ingestion.Retry)
		ingestion.GET("/status", ctrls.Ingestion.Status)
		ingestion.GET("/runs", ctrls.Ingestion.ListRuns)
	}
}
