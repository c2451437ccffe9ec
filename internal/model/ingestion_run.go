package model

import (
	"time"
)

// ==================== Ingestion steps ====================

// IngestionStep one entity type pulled from the vendor
type IngestionStep string

// Steps in execution order. Orders must follow customers and products.
const (
	StepStoreInfo          IngestionStep = "store_info"
	StepCustomers          IngestionStep = "customers"
	StepProducts           IngestionStep = "products"
	StepInventory          IngestionStep = "inventory"
	StepOrders             IngestionStep = "orders"
	StepAbandonedCheckouts IngestionStep = "abandoned_checkouts"
	StepEvents             IngestionStep = "events"
	StepAnalytics          IngestionStep = "analytics"
)

// IngestionSteps the full pipeline, in order
var IngestionSteps = []IngestionStep{
	StepStoreInfo,
	StepCustomers,
	StepProducts,
	StepInventory,
	StepOrders,
	StepAbandonedCheckouts,
	StepEvents,
	StepAnalytics,
}

// StepPosition index of a step in IngestionSteps, -1 when unknown
func StepPosition(step IngestionStep) int {
	for i, s := range IngestionSteps {
		if s == step {
			return i
		}
	}
	return -1
}

// ==================== Status ====================

// Run statuses.
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusPartial = "partial"
	RunStatusFailed  = "failed"
)

// Step statuses.
const (
	StepStatusSuccess = "success"
	StepStatusFailed  = "failed"
	StepStatusSkipped = "skipped"
)

// Run triggers.
const (
	TriggerManual       = "manual"
	TriggerScheduled    = "scheduled"
	TriggerRegistration = "registration"
	TriggerRetry        = "retry"
)

// ==================== IngestionRun ====================

// IngestionRun one full (or retry) pass for one tenant
type IngestionRun struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	RunID    string `gorm:"size:36;uniqueIndex;not null" json:"runId"`
	TenantID int64  `gorm:"index;not null" json:"tenantId"`

	Trigger     string `gorm:"size:16;not null" json:"trigger"`
	TriggeredBy int64  `json:"triggeredBy,omitempty"`
	// run this one retried, if any
	ParentRunID string `gorm:"size:36" json:"parentRunId,omitempty"`
	Status      string `gorm:"size:16;index;not null" json:"status"`
	Error       string `gorm:"type:text" json:"error,omitempty"`

	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt"`
	CreatedAt  time.Time  `json:"-"`
	UpdatedAt  time.Time  `json:"-"`

	Steps []IngestionStepResult `gorm:"foreignKey:RunID;references:RunID" json:"steps"`
}

func (*IngestionRun) TableName() string {
	return "ingestion_runs"
}

// Finished reports whether the run has completed
func (r *IngestionRun) Finished() bool {
	return r.FinishedAt != nil
}

// FailedSteps steps that failed, in pipeline order
func (r *IngestionRun) FailedSteps() []IngestionStep {
	var failed []IngestionStep
	for _, s := range r.Steps {
		if s.Status == StepStatusFailed {
			failed = append(failed, s.Step)
		}
	}
	return failed
}

// ResolveStatus derives the run status from its step results.
func (r *IngestionRun) ResolveStatus() string {
	var succeeded, failed int
	for _, s := range r.Steps {
		switch s.Status {
		case StepStatusSuccess:
			succeeded++
		case StepStatusFailed:
			failed++
		}
	}
	switch {
	case failed == 0:
		return RunStatusSuccess
	case succeeded == 0:
		return RunStatusFailed
	default:
		return RunStatusPartial
	}
}

// IngestionStepResult outcome of one step within a run
type IngestionStepResult struct {
	ID       int64         `gorm:"primaryKey;autoIncrement" json:"-"`
	RunID    string        `gorm:"size:36;uniqueIndex:idx_step_results_run_step,priority:1;not null" json:"-"`
	TenantID int64         `gorm:"index;not null" json:"-"`
	Step     IngestionStep `gorm:"size:32;uniqueIndex:idx_step_results_run_step,priority:2;not null" json:"step"`
	Position int           `json:"position"`

	Status     string `gorm:"size:16;not null" json:"status"`
	Records    int    `json:"records"`
	Error      string `gorm:"type:text" json:"error,omitempty"`
	DurationMs int64  `json:"durationMs"`

	CreatedAt time.Time `json:"-"`
}

func (*IngestionStepResult) TableName() string {
	return "ingestion_step_results"
}

// ==================== IngestionLease ====================

// IngestionLease store-backed run lock, one row per tenant key
type IngestionLease struct {
	LeaseKey  string    `gorm:"primaryKey;size:128"`
	Owner     string    `gorm:"size:64;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time
}

func (*IngestionLease) TableName() string {
	return "ingestion_leases"
}
