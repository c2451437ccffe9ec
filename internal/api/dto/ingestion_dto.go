package dto

import "xenofy_analytics_v1_202610/internal/model"

// TriggerResponse manual trigger and retry answer
type TriggerResponse struct {
	Message string                      `json:"message"`
	Tenant  string                      `json:"tenant"`
	Status  string                      `json:"status"`
	RunID   string                      `json:"runId"`
	Steps   []model.IngestionStepResult `json:"steps"`
}

// IngestionStatusResponse lastSync is null until a run has finished
type IngestionStatusResponse struct {
	Message  string              `json:"message"`
	LastSync interface{}         `json:"lastSync"`
	LastRun  *model.IngestionRun `json:"lastRun"`
}

type ListRunsResponse struct {
	Total int                  `json:"total"`
	Runs  []model.IngestionRun `json:"runs"`
}
