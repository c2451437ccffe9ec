package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"xenofy_analytics_v1_202610/internal/model"
	"xenofy_analytics_v1_202610/internal/service"
)

// ==================== Fakes ====================

type fakeTenants struct {
	tenants []model.Tenant
	err     error
}

func (f *fakeTenants) ListIngestible(context.Context) ([]model.Tenant, error) {
	return f.tenants, f.err
}

type fakeRunner struct {
	mu      sync.Mutex
	results map[int64]string // tenant id -> run status
	errs    map[int64]error
	retried map[int64]bool

	order     []int64
	retries   []int64
	deadlines []bool

	// when set, RunFullIngest signals entered and waits for release
	entered chan struct{}
	release chan struct{}
}

func (f *fakeRunner) RunFullIngest(ctx context.Context, tenant *model.Tenant, trigger string, _ int64) (*model.IngestionRun, error) {
	if f.release != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	f.deadlines = append(f.deadlines, hasDeadline)
	f.order = append(f.order, tenant.ID)
	if trigger != model.TriggerScheduled {
		return nil, errors.New("unexpected trigger " + trigger)
	}
	if err := f.errs[tenant.ID]; err != nil {
		return nil, err
	}
	status := f.results[tenant.ID]
	if status == "" {
		status = model.RunStatusSuccess
	}
	return &model.IngestionRun{RunID: "run", TenantID: tenant.ID, Status: status}, nil
}

func (f *fakeRunner) RetryLatestIfPartial(_ context.Context, tenant *model.Tenant) (*model.IngestionRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retries = append(f.retries, tenant.ID)
	if f.retried[tenant.ID] {
		return &model.IngestionRun{RunID: "retry", TenantID: tenant.ID, Status: model.RunStatusSuccess}, nil
	}
	return nil, nil
}

func tenants(ids ...int64) []model.Tenant {
	out := make([]model.Tenant, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Tenant{BaseModel: model.BaseModel{ID: id}, Domain: "shop.myshopify.com", APIKey: "shpat_0123456789abcdef"})
	}
	return out
}

// ==================== RunNow ====================

func TestIngestionTask_RunNowSummarizesEveryTenant(t *testing.T) {
	runner := &fakeRunner{
		results: map[int64]string{2: model.RunStatusPartial, 3: model.RunStatusFailed},
		errs: map[int64]error{
			4: service.ErrIngestionInProgress,
			5: errors.New("boom"),
		},
	}
	task := NewIngestionTask(&fakeTenants{tenants: tenants(1, 2, 3, 4, 5)}, runner,
		IngestionTaskConfig{Timeout: time.Minute}, zap.NewNop())

	sum := task.RunNow(context.Background())

	assert.Equal(t, PassSummary{Tenants: 5, Succeeded: 1, Partial: 1, Failed: 2, Skipped: 1}, sum)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, runner.order, "tenants run sequentially in list order")
	assert.Empty(t, runner.retries, "retry pass disabled")
	for _, d := range runner.deadlines {
		assert.True(t, d, "each tenant runs under its own timeout")
	}
}

func TestIngestionTask_RetryPassRunsBeforeFullPass(t *testing.T) {
	runner := &fakeRunner{retried: map[int64]bool{7: true}}
	task := NewIngestionTask(&fakeTenants{tenants: tenants(7, 8)}, runner,
		IngestionTaskConfig{RetryFailed: true}, zap.NewNop())

	sum := task.RunNow(context.Background())

	assert.Equal(t, 1, sum.Retried)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Equal(t, []int64{7, 8}, runner.retries)
}

func TestIngestionTask_ListFailureAndEmptyList(t *testing.T) {
	runner := &fakeRunner{}

	sum := NewIngestionTask(&fakeTenants{err: errors.New("db down")}, runner, IngestionTaskConfig{}, zap.NewNop()).
		RunNow(context.Background())
	assert.Equal(t, PassSummary{}, sum)

	sum = NewIngestionTask(&fakeTenants{}, runner, IngestionTaskConfig{}, zap.NewNop()).
		RunNow(context.Background())
	assert.Equal(t, PassSummary{}, sum)
	assert.Empty(t, runner.order)
}

func TestIngestionTask_CancelledContextStopsPass(t *testing.T) {
	runner := &fakeRunner{}
	task := NewIngestionTask(&fakeTenants{tenants: tenants(1, 2)}, runner, IngestionTaskConfig{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum := task.RunNow(ctx)

	assert.Equal(t, 2, sum.Tenants)
	assert.Empty(t, runner.order)
}

func TestIngestionTask_OverlappingPassIsSkipped(t *testing.T) {
	runner := &fakeRunner{entered: make(chan struct{}, 1), release: make(chan struct{})}
	task := NewIngestionTask(&fakeTenants{tenants: tenants(1)}, runner, IngestionTaskConfig{}, zap.NewNop())

	first := make(chan PassSummary, 1)
	go func() { first <- task.RunNow(context.Background()) }()
	<-runner.entered

	done := make(chan PassSummary, 1)
	go func() { done <- task.RunNow(context.Background()) }()
	select {
	case sum := <-done:
		assert.Equal(t, PassSummary{}, sum)
	case <-time.After(2 * time.Second):
		t.Fatal("second pass waited for the first one")
	}

	close(runner.release)
	assert.Equal(t, PassSummary{Tenants: 1, Succeeded: 1}, <-first)
	assert.Equal(t, []int64{1}, runner.order)
}

// ==================== Start / Stop ====================

func TestIngestionTask_StartRejectsBadExpression(t *testing.T) {
	task := NewIngestionTask(&fakeTenants{}, &fakeRunner{}, IngestionTaskConfig{Spec: "not a cron"}, zap.NewNop())
	require.Error(t, task.Start())
}

func TestIngestionTask_RunOnStartThenStop(t *testing.T) {
	runner := &fakeRunner{}
	task := NewIngestionTask(&fakeTenants{tenants: tenants(9)}, runner,
		IngestionTaskConfig{Spec: "0 0 0 1 1 *", RunOnStart: true}, zap.NewNop())

	require.NoError(t, task.Start())
	task.Stop()

	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Equal(t, []int64{9}, runner.order, "startup pass completes before Stop returns")
}
