package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"xenofy_analytics_v1_202610/internal/api/dto"
	"xenofy_analytics_v1_202610/internal/model"
	"xenofy_analytics_v1_202610/internal/repository"
)

func TestProvisionService_EnsureDemoAccountIsIdempotent(t *testing.T) {
	db := newStoreTestDB(t)
	ctx := context.Background()
	accounts := repository.NewAccountUnitOfWork(db)
	store := NewStoreRepos(db)
	svc := NewProvisionService(accounts, store, zap.NewNop())
	svc.now = func() time.Time { return analyticsNow }

	tenant, err := svc.EnsureDemoAccount(ctx)
	require.NoError(t, err)
	assert.True(t, tenant.IsDemo)
	assert.Equal(t, model.DemoDomain, tenant.Domain)

	again, err := svc.EnsureDemoAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, again.ID)

	assert.EqualValues(t, len(demoProducts), countRows(t, db, &model.Product{}, tenant.ID))
	assert.EqualValues(t, len(demoCustomers), countRows(t, db, &model.Customer{}, tenant.ID))
	assert.EqualValues(t, len(demoOrders), countRows(t, db, &model.Order{}, tenant.ID))

	// the demo login works against the seeded account
	auth := NewAuthService(accounts, &stubVerifier{}, nil, zap.NewNop())
	resp, err := auth.Login(ctx, &dto.LoginRequest{Email: model.DemoEmail, Password: model.DemoPassword})
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, resp.Tenant.ID)

	// demo tenants stay out of scheduled ingestion
	ingestible, err := accounts.Tenants.ListIngestible(ctx)
	require.NoError(t, err)
	assert.Empty(t, ingestible)
}

func TestProvisionService_DemoDashboardIsPopulated(t *testing.T) {
	db := newStoreTestDB(t)
	ctx := context.Background()
	store := NewStoreRepos(db)
	svc := NewProvisionService(repository.NewAccountUnitOfWork(db), store, zap.NewNop())
	svc.now = func() time.Time { return analyticsNow }

	tenant, err := svc.EnsureDemoAccount(ctx)
	require.NoError(t, err)

	analytics := NewAnalyticsService(store)
	analytics.now = svc.now

	var revenue int64
	for _, o := range demoOrders {
		revenue += demoOrderTotal(o)
	}
	dash, err := analytics.Dashboard(ctx, tenant.ID)
	require.NoError(t, err)
	assert.EqualValues(t, len(demoOrders), dash.Orders.Total)
	assert.InDelta(t, float64(revenue)/100, dash.Orders.Revenue, 0.001)

	inv, err := analytics.Inventory(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.InventoryStats.OutOfStock)

	spenders, err := analytics.TopSpenders(ctx, tenant.ID)
	require.NoError(t, err)
	require.NotEmpty(t, spenders.TopCustomers)
	assert.Equal(t, demoCustomers[0].firstName, spenders.TopCustomers[0].FirstName)

	insights, err := analytics.Insights(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DemoTenantName, insights.StoreInfo.Name)
	assert.Len(t, insights.RecentActivity, recentActivityLimit)
}
