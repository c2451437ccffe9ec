package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"xenofy_analytics_v1_202610/internal/controller"
	"xenofy_analytics_v1_202610/internal/middleware"
	"xenofy_analytics_v1_202610/internal/model"
	"xenofy_analytics_v1_202610/internal/repository"
	"xenofy_analytics_v1_202610/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type offlineShop struct{}

func (offlineShop) VerifyCredential(context.Context, string, string) error { return nil }

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	log := zap.NewNop()
	accounts := repository.NewAccountUnitOfWork(db)
	store := service.NewStoreRepos(db)
	clients := func(string, string) (service.ShopifyAPI, error) {
		return nil, context.DeadlineExceeded
	}
	ingestion := service.NewIngestionService(
		service.IngestionRepos{StoreRepos: store, Runs: repository.NewIngestionRunRepository(db)},
		repository.NewLeaseRepository(db), clients, nil, log, service.IngestionOptions{})
	t.Cleanup(ingestion.Wait)

	r := SetupRouter(&Controllers{
		Auth:      controller.NewAuthController(service.NewAuthService(accounts, offlineShop{}, ingestion, log), log),
		Data:      controller.NewDataController(service.NewAnalyticsService(store), log),
		Ingestion: controller.NewIngestionController(ingestion, log),
	}, Options{
		Tenants:         accounts.Tenants,
		CORSOrigins:     []string{"http://localhost:3000"},
		TriggerCooldown: time.Minute,
		Logger:          log,
	})

	tenant := &model.Tenant{Name: "Acme", Domain: "acme.myshopify.com", APIKey: "shpat_acme_0123456789"}
	require.NoError(t, accounts.Tenants.Create(context.Background(), tenant))
	token, err := middleware.GenerateToken(tenant.ID, 1, "owner@acme.com")
	require.NoError(t, err)
	return r, "Bearer " + token
}

func serve(r http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRouter_PublicEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Xenofy Backend API"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK"}`, w.Body.String())
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodOptions, "/api/data/dashboard", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSetupRouter_EveryDataRouteIsProtected(t *testing.T) {
	r, auth := newTestRouter(t)
	paths := []string{
		"/api/data/dashboard",
		"/api/data/customers/stats",
		"/api/data/orders/stats",
		"/api/data/products/stats",
		"/api/data/customers/detailed",
		"/api/data/products/detailed",
		"/api/data/orders/detailed",
		"/api/data/analytics/insights",
		"/api/data/analytics/abandoned-carts",
		"/api/data/analytics/events",
		"/api/data/analytics/inventory",
		"/api/data/analytics/fulfillment",
		"/api/data/analytics/customer-segments",
		"/api/data/orders/filtered",
		"/api/data/customers/top-spenders",
		"/api/ingestion/status",
		"/api/ingestion/runs",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, p, "").Code)
			assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, p, auth).Code)
		})
	}
}

func TestSetupRouter_TriggerCooldown(t *testing.T) {
	r, auth := newTestRouter(t)

	// the vendor is unreachable, so the first call fails but still starts the cooldown
	w := serve(r, http.MethodPost, "/api/ingestion/trigger", auth)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = serve(r, http.MethodPost, "/api/ingestion/trigger", auth)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
	assert.NotNil(t, body["retryAfter"])
}
