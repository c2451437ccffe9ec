package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xenofy_analytics_v1_202610/internal/model"
)

func (e *ctlEnv) order(t *testing.T, tenantID int64, shopifyID string, total int64, at string) {
	t.Helper()
	require.NoError(t, e.store.Orders.Upsert(context.Background(), &model.Order{
		TenantID:         tenantID,
		ShopifyID:        shopifyID,
		Name:             "#" + shopifyID,
		TotalPriceAmount: total,
		FinancialStatus:  model.FinancialStatusPaid,
		ShopifyCreatedAt: placed(at),
	}))
}

func TestDataController_DashboardIsTenantScoped(t *testing.T) {
	env := newCtlEnv(t)
	acme, acmeAuth := env.tenant(t, "acme.myshopify.com", "shpat_acme_0123456789")
	other, otherAuth := env.tenant(t, "other.myshopify.com", "shpat_other_0123456789")

	env.order(t, acme.ID, "1", 12550, "2026-03-01T10:00:00Z")
	env.order(t, acme.ID, "2", 2000, "2026-03-02T10:00:00Z")
	env.order(t, other.ID, "1", 99900, "2026-03-01T10:00:00Z")

	w := env.do(http.MethodGet, "/api/data/dashboard", acmeAuth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	orders := decode(t, w)["orders"].(map[string]interface{})
	assert.EqualValues(t, 2, orders["total"])
	assert.InDelta(t, 145.50, orders["revenue"], 0.001)

	w = env.do(http.MethodGet, "/api/data/dashboard", otherAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders = decode(t, w)["orders"].(map[string]interface{})
	assert.EqualValues(t, 1, orders["total"])
	assert.InDelta(t, 999.0, orders["revenue"], 0.001)
}

func TestDataController_RequiresAuth(t *testing.T) {
	env := newCtlEnv(t)
	for _, path := range []string{"/api/data/dashboard", "/api/data/analytics/insights", "/api/data/customers/top-spenders"} {
		w := env.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestDataController_EmptyTenantGetsZeroes(t *testing.T) {
	env := newCtlEnv(t)
	_, auth := env.tenant(t, "empty.myshopify.com", "shpat_empty_0123456789")

	w := env.do(http.MethodGet, "/api/data/analytics/insights", auth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Empty(t, body["topProducts"])

	w = env.do(http.MethodGet, "/api/data/customers/top-spenders", auth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDataController_FilteredOrders(t *testing.T) {
	env := newCtlEnv(t)
	acme, auth := env.tenant(t, "acme.myshopify.com", "shpat_acme_0123456789")
	env.order(t, acme.ID, "1", 1000, "2026-03-01T10:00:00Z")
	env.order(t, acme.ID, "2", 2000, "2026-03-01T23:59:00Z")
	env.order(t, acme.ID, "3", 4000, "2026-03-05T09:00:00Z")

	tests := []struct {
		name    string
		query   string
		status  int
		count   float64
		revenue float64
	}{
		{"no bounds", "", http.StatusOK, 3, 70},
		{"single day covers the whole day", "?startDate=2026-03-01&endDate=2026-03-01", http.StatusOK, 2, 30},
		{"timestamp end covers its day", "?startDate=2026-03-01&endDate=2026-03-01T08:00:00Z", http.StatusOK, 2, 30},
		{"open end", "?startDate=2026-03-02", http.StatusOK, 1, 40},
		{"bad start", "?startDate=yesterday", http.StatusBadRequest, 0, 0},
		{"bad end", "?endDate=03/05/2026", http.StatusBadRequest, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodGet, "/api/data/orders/filtered"+tt.query, auth, nil)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			body := decode(t, w)
			if tt.status != http.StatusOK {
				assert.Contains(t, body["error"], "Invalid")
				return
			}
			assert.EqualValues(t, tt.count, body["totalOrders"])
			assert.InDelta(t, tt.revenue, body["totalRevenue"], 0.001)
		})
	}
}
