package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"xenofy_analytics_v1_202610/internal/model"
	"xenofy_analytics_v1_202610/internal/service"
)

// ==================== Dependencies ====================

// TenantLister tenants the scheduler should pull
type TenantLister interface {
	ListIngestible(ctx context.Context) ([]model.Tenant, error)
}

// IngestionRunner the part of IngestionService the scheduler drives
type IngestionRunner interface {
	RunFullIngest(ctx context.Context, tenant *model.Tenant, trigger string, triggeredBy int64) (*model.IngestionRun, error)
	RetryLatestIfPartial(ctx context.Context, tenant *model.Tenant) (*model.IngestionRun, error)
}

// IngestionTaskConfig scheduler settings
type IngestionTaskConfig struct {
	Spec        string        // six-field cron expression
	RunOnStart  bool          // one pass right after Start
	RetryFailed bool          // retry the failed steps of partial runs before the full pass
	Timeout     time.Duration // per tenant
}

// ==================== IngestionTask ====================

// IngestionTask pulls every connected tenant on a cron schedule.
// Tenants run one after another so a single process never hammers several shops at once.
type IngestionTask struct {
	tenants TenantLister
	runner  IngestionRunner
	cfg     IngestionTaskConfig
	log     *zap.Logger
	cron    *cron.Cron

	// held for a whole pass; an overlapping tick is dropped, not queued
	mu      sync.Mutex
	running sync.WaitGroup
}

// PassSummary counts of one scheduler pass
type PassSummary struct {
	Tenants   int
	Succeeded int
	Partial   int
	Failed    int
	Skipped   int
	Retried   int
}

func NewIngestionTask(tenants TenantLister, runner IngestionRunner, cfg IngestionTaskConfig, log *zap.Logger) *IngestionTask {
	if cfg.Spec == "" {
		cfg.Spec = "0 0 * * * *"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &IngestionTask{
		tenants: tenants,
		runner:  runner,
		cfg:     cfg,
		log:     log.Named("ingestion_task"),
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Start registers the cron job; an invalid expression is returned to the caller
func (t *IngestionTask) Start() error {
	_, err := t.cron.AddFunc(t.cfg.Spec, func() {
		t.RunNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("schedule ingestion (%s): %w", t.cfg.Spec, err)
	}

	if t.cfg.RunOnStart {
		t.running.Add(1)
		go func() {
			defer t.running.Done()
			t.RunNow(context.Background())
		}()
	}

	t.cron.Start()
	t.log.Info("ingestion task started", zap.String("spec", t.cfg.Spec), zap.Bool("retry_failed", t.cfg.RetryFailed))
	return nil
}

// Stop halts the schedule and waits for a running pass to return
func (t *IngestionTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	t.running.Wait()
	t.log.Info("ingestion task stopped")
}

// RunNow executes one pass over every ingestible tenant.
// It returns an empty summary at once when another pass is still running.
func (t *IngestionTask) RunNow(ctx context.Context) PassSummary {
	if !t.mu.TryLock() {
		t.log.Warn("previous ingestion pass still running, pass skipped")
		return PassSummary{}
	}
	defer t.mu.Unlock()

	var sum PassSummary
	tenants, err := t.tenants.ListIngestible(ctx)
	if err != nil {
		t.log.Error("list tenants failed", zap.Error(err))
		return sum
	}
	sum.Tenants = len(tenants)
	if len(tenants) == 0 {
		t.log.Debug("no tenants to ingest")
		return sum
	}

	start := time.Now()
	for i := range tenants {
		if ctx.Err() != nil {
			t.log.Warn("ingestion pass interrupted", zap.Int("remaining", len(tenants)-i))
			break
		}
		t.runTenant(ctx, &tenants[i], &sum)
	}

	t.log.Info("ingestion pass finished",
		zap.Int("tenants", sum.Tenants),
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("partial", sum.Partial),
		zap.Int("failed", sum.Failed),
		zap.Int("skipped", sum.Skipped),
		zap.Int("retried", sum.Retried),
		zap.Duration("elapsed", time.Since(start)))
	return sum
}

func (t *IngestionTask) runTenant(parent context.Context, tenant *model.Tenant, sum *PassSummary) {
	ctx, cancel := context.WithTimeout(parent, t.cfg.Timeout)
	defer cancel()
	log := t.log.With(zap.Int64("tenant_id", tenant.ID), zap.String("domain", tenant.Domain))

	if t.cfg.RetryFailed {
		retry, err := t.runner.RetryLatestIfPartial(ctx, tenant)
		switch {
		case err != nil && !errors.Is(err, service.ErrIngestionInProgress):
			log.Warn("retry of partial run failed", zap.Error(err))
		case retry != nil:
			sum.Retried++
			log.Info("partial run retried", zap.String("run_id", retry.RunID), zap.String("status", retry.Status))
		}
	}

	run, err := t.runner.RunFullIngest(ctx, tenant, model.TriggerScheduled, 0)
	if err != nil {
		if errors.Is(err, service.ErrIngestionInProgress) {
			sum.Skipped++
			log.Info("tenant skipped, run in progress")
			return
		}
		sum.Failed++
		log.Error("scheduled ingestion failed", zap.Error(err))
		return
	}

	switch run.Status {
	case model.RunStatusSuccess:
		sum.Succeeded++
	case model.RunStatusPartial:
		sum.Partial++
	default:
		sum.Failed++
	}
	log.Info("scheduled ingestion finished", zap.String("run_id", run.RunID), zap.String("status", run.Status))
}
