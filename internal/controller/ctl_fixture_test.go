package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"xenofy_analytics_v1_202610/internal/middleware"
	"xenofy_analytics_v1_202610/internal/model"
	"xenofy_analytics_v1_202610/internal/repository"
	"xenofy_analytics_v1_202610/internal/service"
	"xenofy_analytics_v1_202610/pkg/shopify"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== Fakes ====================

// emptyShop a connected shop with nothing in it
type emptyShop struct{}

func (emptyShop) GetShop(context.Context) (*shopify.Shop, error) {
	return &shopify.Shop{ID: 1, Name: "Acme", Currency: "USD"}, nil
}
func (emptyShop) ListCustomers(context.Context) ([]shopify.Customer, error) { return nil, nil }
func (emptyShop) ListProducts(context.Context) ([]shopify.Product, error)   { return nil, nil }
func (emptyShop) ListInventoryLevels(context.Context, []int64) ([]shopify.InventoryLevel, error) {
	return nil, nil
}
func (emptyShop) ListOrders(context.Context) ([]shopify.Order, error)                { return nil, nil }
func (emptyShop) ListAbandonedCheckouts(context.Context) ([]shopify.Checkout, error) { return nil, nil }
func (emptyShop) ListEvents(context.Context) ([]shopify.Event, error)                { return nil, nil }
func (emptyShop) ListReports(context.Context) ([]shopify.Report, error) {
	return nil, shopify.ErrUnsupported
}

type acceptAll struct{}

func (acceptAll) VerifyCredential(context.Context, string, string) error { return nil }

// ==================== Environment ====================

type ctlEnv struct {
	db        *gorm.DB
	router    *gin.Engine
	store     service.StoreRepos
	accounts  *repository.AccountUnitOfWork
	ingestion *service.IngestionService
	clientErr error
}

func newCtlEnv(t *testing.T) *ctlEnv {
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

	env := &ctlEnv{
		db:       db,
		store:    service.NewStoreRepos(db),
		accounts: repository.NewAccountUnitOfWork(db),
	}
	log := zap.NewNop()

	clients := func(domain, token string) (service.ShopifyAPI, error) {
		if env.clientErr != nil {
			return nil, env.clientErr
		}
		return emptyShop{}, nil
	}
	env.ingestion = service.NewIngestionService(
		service.IngestionRepos{StoreRepos: env.store, Runs: repository.NewIngestionRunRepository(db)},
		repository.NewLeaseRepository(db),
		clients,
		nil,
		log,
		service.IngestionOptions{},
	)
	t.Cleanup(env.ingestion.Wait)

	auth := NewAuthController(service.NewAuthService(env.accounts, acceptAll{}, env.ingestion, log), log)
	data := NewDataController(service.NewAnalyticsService(env.store), log)
	ingestion := NewIngestionController(env.ingestion, log)

	r := gin.New()
	requireAuth := middleware.JWTAuth(env.accounts.Tenants)
	r.POST("/auth/register", auth.Register)
	r.POST("/auth/login", auth.Login)
	r.GET("/auth/me", requireAuth, auth.Me)
	r.POST("/auth/logout", auth.Logout)

	api := r.Group("/api", requireAuth)
	api.GET("/data/dashboard", data.Dashboard)
	api.GET("/data/orders/filtered", data.FilteredOrders)
	api.GET("/data/customers/top-spenders", data.TopSpenders)
	api.GET("/data/analytics/insights", data.Insights)
	api.POST("/ingestion/trigger", ingestion.Trigger)
	api.POST("/ingestion/retry/:runId", ingestion.Retry)
	api.GET("/ingestion/status", ingestion.Status)
	api.GET("/ingestion/runs", ingestion.ListRuns)
	env.router = r
	return env
}

// tenant creates a tenant with one user and returns a bearer header for it
func (e *ctlEnv) tenant(t *testing.T, domain, apiKey string) (*model.Tenant, string) {
	t.Helper()
	ctx := context.Background()
	tenant := &model.Tenant{Name: domain, Domain: domain, APIKey: apiKey}
	require.NoError(t, e.accounts.Tenants.Create(ctx, tenant))
	user := &model.User{TenantID: tenant.ID, Email: "owner@" + domain, PasswordHash: "x"}
	require.NoError(t, e.accounts.Users.Create(ctx, user))

	token, err := middleware.GenerateToken(tenant.ID, user.ID, user.Email)
	require.NoError(t, err)
	return tenant, "Bearer " + token
}

func (e *ctlEnv) do(method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func placed(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

var errVendorDown = errors.New("dial tcp: connection refused")
