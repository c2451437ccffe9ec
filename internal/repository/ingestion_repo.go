package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"xenofy_analytics_v1_202610/internal/model"
)

// ==================== IngestionRunRepository ====================

type IngestionRunRepository interface {
	Create(ctx context.Context, run *model.IngestionRun) error
	SaveStep(ctx context.Context, step *model.IngestionStepResult) error
	Finish(ctx context.Context, run *model.IngestionRun) error
	// GetByRunID run with steps; nil when absent or owned by another tenant
	GetByRunID(ctx context.Context, tenantID int64, runID string) (*model.IngestionRun, error)
	Latest(ctx context.Context, tenantID int64) (*model.IngestionRun, error)
	List(ctx context.Context, tenantID int64, limit int) ([]model.IngestionRun, error)
}

type ingestionRunRepository struct {
	db *gorm.DB
}

func NewIngestionRunRepository(db *gorm.DB) IngestionRunRepository {
	return &ingestionRunRepository{db: db}
}

func (r *ingestionRunRepository) Create(ctx context.Context, run *model.IngestionRun) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(run).Error
}

// SaveStep upserts by (run_id, step)
func (r *ingestionRunRepository) SaveStep(ctx context.Context, step *model.IngestionStepResult) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "run_id"}, {Name: "step"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "records", "error", "duration_ms",
		}),
	}).Create(step).Error
}

func (r *ingestionRunRepository) Finish(ctx context.Context, run *model.IngestionRun) error {
	return r.db.WithContext(ctx).Model(&model.IngestionRun{}).
		Where("run_id = ?", run.RunID).
		Updates(map[string]interface{}{
			"status":      run.Status,
			"error":       run.Error,
			"finished_at": run.FinishedAt,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *ingestionRunRepository) GetByRunID(ctx context.Context, tenantID int64, runID string) (*model.IngestionRun, error) {
	var run model.IngestionRun
	err := r.withSteps(ctx).
		Where("run_id = ? AND tenant_id = ?", runID, tenantID).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *ingestionRunRepository) Latest(ctx context.Context, tenantID int64) (*model.IngestionRun, error) {
	var run model.IngestionRun
	err := r.withSteps(ctx).
		Where("tenant_id = ?", tenantID).
		Order("started_at DESC").
		Order("id DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *ingestionRunRepository) List(ctx context.Context, tenantID int64, limit int) ([]model.IngestionRun, error) {
	var runs []model.IngestionRun
	err := r.withSteps(ctx).
		Where("tenant_id = ?", tenantID).
		Order("started_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

func (r *ingestionRunRepository) withSteps(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// ==================== LeaseRepository ====================

// LeaseRepository row-based mutual exclusion for deployments without redis
type LeaseRepository interface {
	// Acquire takes the lease when free, expired, or already held by owner
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	// Release drops the lease only if owner still holds it
	Release(ctx context.Context, key, owner string) error
}

type leaseRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLeaseRepository(db *gorm.DB) LeaseRepository {
	return &leaseRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *leaseRepository) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	now := r.now()
	lease := &model.IngestionLease{LeaseKey: key, Owner: owner, ExpiresAt: now.Add(ttl)}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(lease)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	res = r.db.WithContext(ctx).Model(&model.IngestionLease{}).
		Where("lease_key = ? AND (expires_at < ? OR owner = ?)", key, now, owner).
		Updates(map[string]interface{}{
			"owner":      owner,
			"expires_at": now.Add(ttl),
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *leaseRepository) Release(ctx context.Context, key, owner string) error {
	return r.db.WithContext(ctx).
		Where("lease_key = ? AND owner = ?", key, owner).
		Delete(&model.IngestionLease{}).Error
}
