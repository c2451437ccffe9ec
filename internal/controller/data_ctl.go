package controller

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"xenofy_analytics_v1_202610/internal/api/dto"
	"xenofy_analytics_v1_202610/internal/middleware"
	"xenofy_analytics_v1_202610/internal/service"
)

// DataController read-only aggregates over the caller's tenant
type DataController struct {
	analytics *service.AnalyticsService
	log       *zap.Logger
}

func NewDataController(analytics *service.AnalyticsService, log *zap.Logger) *DataController {
	return &DataController{analytics: analytics, log: log.Named("data_ctl")}
}

// ==================== Dashboard & stats ====================

// Dashboard
// @Summary Headline counts
// @Tags Data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/data/dashboard [get]
func (ctrl *DataController) Dashboard(c *gin.Context) {
	resp, err := ctrl.analytics.Dashboard(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}

// CustomerStats
// @Summary Customer totals and new customers this month
// @Tags Data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CustomerStatsResponse
// @Router /api/data/customers/stats [get]
func (ctrl *DataController) CustomerStats(c *gin.Context) {
	resp, err := ctrl.analytics.CustomerStats(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}

// OrderStats
// @Summary Order totals, recent orders and monthly buckets
// @Tags Data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.OrderStatsResponse
// @Router /api/data/orders/stats [get]
func (ctrl *DataController) OrderStats(c *gin.Context) {
	resp, err := ctrl.analytics.OrderStats(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}

// ProductStats
// @Summary Catalog and best sellers
// @Tags Data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProductStatsResponse
// @Router /api/data/products/stats [get]
func (ctrl *DataController) ProductStats(c *gin.Context) {
	resp, err := ctrl.analytics.ProductStats(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}

// ==================== Detailed lists ====================

// CustomersDetailed
// @Summary Latest customers with their orders
// @Tags Data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CustomersDetailedResponse
// @Router /api/data/customers/detailed [get]
func (ctrl *DataController) CustomersDetailed(c *gin.Context) {
	resp, err := ctrl.analytics.CustomersDetailed(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}

// ProductsDetailed
// @Summary Products with units sold and revenue
// @Tags Data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProductsDetailedResponse
// @Router /api/data/products/detailed [get]
func (ctrl *DataController) ProductsDetailed(c *gin.Context) {
	resp, err := ctrl.analytics.ProductsDetailed(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}

// OrdersDetailed
// @Summary Latest orders with customer and line items
// @Tags Data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.OrdersDetailedResponse
// @Router /api/data/orders/detailed [get]
func (ctrl *DataController) OrdersDetailed(c *gin.Context) {
	resp, err := ctrl.analytics.OrdersDetailed(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}

// ==================== Analytics ====================

// Insights
// @Summary Top products, conversion estimate, store profile and revenue trend
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.InsightsResponse
// @Router /api/data/analytics/insights [get]
func (ctrl *DataController) Insights(c *gin.Context) {
	resp, err := ctrl.analytics.Insights(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}

// AbandonedCarts
// @Summary Recent abandoned checkouts
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AbandonedCartsResponse
// @Router /api/data/analytics/abandoned-carts [get]
func (ctrl *DataController) AbandonedCarts(c *gin.Context) {
	resp, err := ctrl.analytics.AbandonedCarts(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}

// Events
// @Summary Recent store events by type
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.EventsResponse
// @Router /api/data/analytics/events [get]
func (ctrl *DataController) Events(c *gin.Context) {
	resp, err := ctrl.analytics.Events(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}

// Inventory
// @Summary Stock levels and stock value
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.InventoryResponse
// @Router /api/data/analytics/inventory [get]
func (ctrl *DataController) Inventory(c *gin.Context) {
	resp, err := ctrl.analytics.Inventory(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}

// Fulfillment
// @Summary Orders by fulfillment status
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.FulfillmentResponse
// @Router /api/data/analytics/fulfillment [get]
func (ctrl *DataController) Fulfillment(c *gin.Context) {
	resp, err := ctrl.analytics.Fulfillment(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}

// CustomerSegments
// @Summary Customer counts per spend and recency segment
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CustomerSegmentsResponse
// @Router /api/data/analytics/customer-segments [get]
func (ctrl *DataController) CustomerSegments(c *gin.Context) {
	resp, err := ctrl.analytics.CustomerSegments(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}

// ==================== Orders & customers ====================

// FilteredOrders
// @Summary Orders placed within a date range, grouped by day
// @Description startDate and endDate accept 2006-01-02 or RFC3339; a date-only endDate covers the whole day
// @Tags Data
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "range start"
// @Param endDate query string false "range end"
// @Success 200 {object} dto.FilteredOrdersResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/data/orders/filtered [get]
func (ctrl *DataController) FilteredOrders(c *gin.Context) {
	var req dto.FilteredOrdersRequest
	_ = c.ShouldBindQuery(&req)

	start, end, err := service.ParseDateRange(req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	resp, err := ctrl.analytics.FilteredOrders(c.Request.Context(), middleware.GetTenantID(c), start, end)
	reply(c, ctrl.log, resp, err)
}

// TopSpenders
// @Summary Five customers with the highest order spend
// @Tags Data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TopSpendersResponse
// @Router /api/data/customers/top-spenders [get]
func (ctrl *DataController) TopSpenders(c *gin.Context) {
	resp, err := ctrl.analytics.TopSpenders(c.Request.Context(), middleware.GetTenantID(c))
	reply(c, ctrl.log, resp, err)
}
