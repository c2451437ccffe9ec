package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"xenofy_analytics_v1_202610/internal/model"
	"xenofy_analytics_v1_202610/internal/repository"
	"xenofy_analytics_v1_202610/pkg/events"
	"xenofy_analytics_v1_202610/pkg/shopify"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.RunCompleted
}

func (p *recordingPublisher) PublishRunCompleted(_ context.Context, evt events.RunCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newIngestionTestService(db *gorm.DB, clients ShopifyClientFactory, pub events.Publisher) *IngestionService {
	repos := IngestionRepos{StoreRepos: NewStoreRepos(db), Runs: repository.NewIngestionRunRepository(db)}
	return NewIngestionService(repos, repository.NewLeaseRepository(db), clients, pub, zap.NewNop(), IngestionOptions{})
}

func countRows(t *testing.T, db *gorm.DB, m interface{}, tenantID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Where("tenant_id = ?", tenantID).Count(&n).Error)
	return n
}

func TestIngestionService_FullRunPersistsEveryEntity(t *testing.T) {
	db := newStoreTestDB(t)
	ctx := context.Background()
	tenant := newStoreTenant(t, db, "acme.myshopify.com")
	shop := sampleShop()
	pub := &recordingPublisher{}
	svc := newIngestionTestService(db, shop.factory(), pub)

	run, err := svc.RunFullIngest(ctx, tenant, model.TriggerManual, 5)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusSuccess, run.Status)
	assert.Empty(t, run.Error)
	require.Len(t, run.Steps, len(model.IngestionSteps))
	for i, st := range run.Steps {
		assert.Equal(t, model.IngestionSteps[i], st.Step)
	}
	assert.Equal(t, model.StepStatusSkipped, run.Steps[len(run.Steps)-1].Status)

	assert.EqualValues(t, 2, countRows(t, db, &model.Customer{}, tenant.ID))
	assert.EqualValues(t, 2, countRows(t, db, &model.Product{}, tenant.ID))
	assert.EqualValues(t, 2, countRows(t, db, &model.Order{}, tenant.ID))
	assert.EqualValues(t, 2, countRows(t, db, &model.OrderItem{}, tenant.ID))
	assert.EqualValues(t, 1, countRows(t, db, &model.OrderAddress{}, tenant.ID))
	assert.EqualValues(t, 1, countRows(t, db, &model.AbandonedCart{}, tenant.ID))
	assert.EqualValues(t, 1, countRows(t, db, &model.StoreEvent{}, tenant.ID))

	repos := NewStoreRepos(db)
	mug, err := repos.Products.GetByShopifyID(ctx, tenant.ID, "201")
	require.NoError(t, err)
	require.NotNil(t, mug)
	assert.Equal(t, 20, mug.InventoryQuantity, "levels from both locations are summed")
	assert.EqualValues(t, 10000, mug.PriceAmount)

	var linked model.Order
	require.NoError(t, db.Where("tenant_id = ? AND shopify_id = ?", tenant.ID, "301").First(&linked).Error)
	require.NotNil(t, linked.CustomerID)
	ann, err := repos.Customers.GetByShopifyID(ctx, tenant.ID, "101")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, *linked.CustomerID)
	assert.EqualValues(t, 20000, linked.TotalPriceAmount)

	info, err := repos.StoreInfo.GetByTenant(ctx, tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Acme", info.Name)

	// a second pass refreshes rows in place
	second, err := svc.RunFullIngest(ctx, tenant, model.TriggerScheduled, 0)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusSuccess, second.Status)
	assert.EqualValues(t, 2, countRows(t, db, &model.Order{}, tenant.ID))
	assert.EqualValues(t, 2, countRows(t, db, &model.OrderItem{}, tenant.ID))

	latest, err := svc.LatestRun(ctx, tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.RunID, latest.RunID)
	assert.Len(t, latest.Steps, len(model.IngestionSteps))
	assert.NotNil(t, latest.FinishedAt)

	runs, err := svc.ListRuns(ctx, tenant.ID, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	require.Len(t, pub.events, 2)
	assert.Equal(t, run.RunID, pub.events[0].RunID)
	assert.Equal(t, model.TriggerManual, pub.events[0].Trigger)
	assert.Len(t, pub.events[0].Steps, len(model.IngestionSteps))
}

func TestIngestionService_FailedStepDoesNotStopLaterSteps(t *testing.T) {
	db := newStoreTestDB(t)
	ctx := context.Background()
	tenant := newStoreTenant(t, db, "acme.myshopify.com")
	shop := sampleShop()
	shop.fail["customers"] = errors.New("rate limited")
	svc := newIngestionTestService(db, shop.factory(), nil)

	run, err := svc.RunFullIngest(ctx, tenant, model.TriggerManual, 0)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusPartial, run.Status)
	assert.Equal(t, []model.IngestionStep{model.StepCustomers}, run.FailedSteps())
	assert.Contains(t, run.Error, "customers")

	// orders still land, without a customer link
	var order model.Order
	require.NoError(t, db.Where("tenant_id = ? AND shopify_id = ?", tenant.ID, "301").First(&order).Error)
	assert.Nil(t, order.CustomerID)
	assert.Equal(t, 1, shop.callCount("orders"))

	delete(shop.fail, "customers")
	retry, err := svc.RetryLatestIfPartial(ctx, tenant)
	require.NoError(t, err)
	require.NotNil(t, retry)
	assert.Equal(t, model.TriggerRetry, retry.Trigger)
	assert.Equal(t, run.RunID, retry.ParentRunID)
	require.Len(t, retry.Steps, 1)
	assert.Equal(t, model.StepCustomers, retry.Steps[0].Step)
	assert.Equal(t, model.RunStatusSuccess, retry.Status)
	assert.Equal(t, 1, shop.callCount("orders"), "retry only runs failed steps")

	again, err := svc.RetryLatestIfPartial(ctx, tenant)
	require.NoError(t, err)
	assert.Nil(t, again)

	_, err = svc.RetryFailedSteps(ctx, tenant, retry.RunID, 0)
	assert.ErrorIs(t, err, ErrNothingToRetry)
	_, err = svc.RetryFailedSteps(ctx, tenant, "missing", 0)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestIngestionService_UnreachableVendor(t *testing.T) {
	db := newStoreTestDB(t)
	tenant := newStoreTenant(t, db, "acme.myshopify.com")
	boom := errors.New("unreachable")
	shop := &fakeShopify{fail: map[string]error{
		"shop": boom, "customers": boom, "products": boom, "orders": boom,
		"checkouts": boom, "events": boom, "reports": boom,
	}}
	svc := newIngestionTestService(db, shop.factory(), nil)

	run, err := svc.RunFullIngest(context.Background(), tenant, model.TriggerManual, 0)
	require.NoError(t, err)
	// inventory has nothing to look up without products, so it is the only step that passes
	assert.Equal(t, model.RunStatusPartial, run.Status)
	assert.Len(t, run.FailedSteps(), len(model.IngestionSteps)-1)
	assert.NotContains(t, run.FailedSteps(), model.StepInventory)
}

func TestIngestionService_ClientFactoryError(t *testing.T) {
	db := newStoreTestDB(t)
	tenant := newStoreTenant(t, db, "acme.myshopify.com")
	svc := newIngestionTestService(db, func(string, string) (ShopifyAPI, error) {
		return nil, errors.New("bad domain")
	}, nil)

	run, err := svc.RunFullIngest(context.Background(), tenant, model.TriggerManual, 0)
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, model.RunStatusFailed, run.Status)
	assert.Contains(t, run.Error, "bad domain")
}

func TestIngestionService_RejectsConcurrentRunAndMissingCredential(t *testing.T) {
	db := newStoreTestDB(t)
	ctx := context.Background()
	tenant := newStoreTenant(t, db, "acme.myshopify.com")
	svc := newIngestionTestService(db, sampleShop().factory(), nil)
	leases := repository.NewLeaseRepository(db)

	held, err := leases.Acquire(ctx, IngestionLeaseKey(tenant.ID), "other-run", time.Hour)
	require.NoError(t, err)
	require.True(t, held)

	_, err = svc.RunFullIngest(ctx, tenant, model.TriggerManual, 0)
	assert.ErrorIs(t, err, ErrIngestionInProgress)

	require.NoError(t, leases.Release(ctx, IngestionLeaseKey(tenant.ID), "other-run"))
	_, err = svc.RunFullIngest(ctx, tenant, model.TriggerManual, 0)
	require.NoError(t, err)

	// the finished run released its lease
	free, err := leases.Acquire(ctx, IngestionLeaseKey(tenant.ID), "next", time.Minute)
	require.NoError(t, err)
	assert.True(t, free)

	noKey := &model.Tenant{BaseModel: model.BaseModel{ID: 99}, Domain: "x.myshopify.com"}
	_, err = svc.RunFullIngest(ctx, noKey, model.TriggerManual, 0)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestIngestionService_ScheduleAfterRegistration(t *testing.T) {
	db := newStoreTestDB(t)
	tenant := newStoreTenant(t, db, "acme.myshopify.com")
	svc := newIngestionTestService(db, sampleShop().factory(), nil)

	svc.ScheduleAfterRegistration(*tenant)
	svc.Wait()

	latest, err := svc.LatestRun(context.Background(), tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, model.TriggerRegistration, latest.Trigger)
	assert.Equal(t, model.RunStatusSuccess, latest.Status)
}

type deadlineShop struct {
	*fakeShopify
	deadline time.Time
	bounded  bool
}

func (d *deadlineShop) GetShop(ctx context.Context) (*shopify.Shop, error) {
	d.deadline, d.bounded = ctx.Deadline()
	return d.fakeShopify.GetShop(ctx)
}

func TestIngestionService_RunEndsBeforeLeaseExpires(t *testing.T) {
	db := newStoreTestDB(t)
	tenant := newStoreTenant(t, db, "acme.myshopify.com")
	shop := &deadlineShop{fakeShopify: sampleShop()}
	clients := func(string, string) (ShopifyAPI, error) { return shop, nil }
	repos := IngestionRepos{StoreRepos: NewStoreRepos(db), Runs: repository.NewIngestionRunRepository(db)}

	// a run timeout longer than the lease is pulled under it
	svc := NewIngestionService(repos, repository.NewLeaseRepository(db), clients, nil, zap.NewNop(),
		IngestionOptions{LeaseTTL: time.Minute, RunTimeout: time.Hour})
	assert.Less(t, svc.opts.RunTimeout, svc.opts.LeaseTTL)

	start := time.Now()
	_, err := svc.RunFullIngest(context.Background(), tenant, model.TriggerManual, 1)
	require.NoError(t, err)

	require.True(t, shop.bounded, "manual run carries a deadline")
	assert.True(t, shop.deadline.Before(start.Add(time.Minute)), "deadline falls inside the lease")
}
