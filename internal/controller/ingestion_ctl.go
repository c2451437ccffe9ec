package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"xenofy_analytics_v1_202610/internal/api/dto"
	"xenofy_analytics_v1_202610/internal/middleware"
	"xenofy_analytics_v1_202610/internal/model"
	"xenofy_analytics_v1_202610/internal/service"
	apperrors "xenofy_analytics_v1_202610/pkg/errors"
)

const recentRunsLimit = 20

// IngestionController manual runs and run history of the caller's tenant
type IngestionController struct {
	ingestion *service.IngestionService
	log       *zap.Logger
}

func NewIngestionController(ingestion *service.IngestionService, log *zap.Logger) *IngestionController {
	return &IngestionController{ingestion: ingestion, log: log.Named("ingestion_ctl")}
}

// Trigger runs the full pipeline synchronously
// @Summary Run a full ingestion now
// @Tags Ingestion
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TriggerResponse
// @Failure 400 {object} dto.ErrorResponse "API key not configured"
// @Failure 409 {object} dto.ErrorResponse "a run is already in progress"
// @Failure 429 {object} map[string]interface{} "cooldown active"
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/ingestion/trigger [post]
func (ctrl *IngestionController) Trigger(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	ctrl.log.Info("manual ingestion requested",
		zap.Int64("tenant_id", tenant.ID), zap.String("domain", tenant.Domain))

	run, err := ctrl.ingestion.RunFullIngest(c.Request.Context(), tenant, model.TriggerManual, middleware.GetUserID(c))
	ctrl.respondRun(c, tenant, run, err)
}

// Retry re-runs the failed steps of an earlier run
// @Summary Retry failed steps of a run
// @Tags Ingestion
// @Produce json
// @Security BearerAuth
// @Param runId path string true "run id"
// @Success 200 {object} dto.TriggerResponse
// @Failure 400 {object} dto.ErrorResponse "nothing to retry"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/ingestion/retry/{runId} [post]
func (ctrl *IngestionController) Retry(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	run, err := ctrl.ingestion.RetryFailedSteps(c.Request.Context(), tenant, c.Param("runId"), middleware.GetUserID(c))
	ctrl.respondRun(c, tenant, run, err)
}

func (ctrl *IngestionController) respondRun(c *gin.Context, tenant *model.Tenant, run *model.IngestionRun, err error) {
	if err != nil {
		if apperrors.HTTPStatus(err) != http.StatusInternalServerError {
			respondError(c, ctrl.log, err)
			return
		}
		ctrl.log.Error("ingestion failed", zap.Int64("tenant_id", tenant.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to ingest data", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.TriggerResponse{
		Message: "Data ingestion completed successfully",
		Tenant:  tenant.Name,
		Status:  run.Status,
		RunID:   run.RunID,
		Steps:   run.Steps,
	})
}

// Status
// @Summary Latest run and when data was last synced
// @Tags Ingestion
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.IngestionStatusResponse
// @Router /api/ingestion/status [get]
func (ctrl *IngestionController) Status(c *gin.Context) {
	run, err := ctrl.ingestion.LatestRun(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	resp := dto.IngestionStatusResponse{Message: "Ingestion service is ready", LastRun: run}
	if run != nil && run.FinishedAt != nil {
		resp.LastSync = run.FinishedAt
	}
	c.JSON(http.StatusOK, resp)
}

// ListRuns
// @Summary Recent runs with their steps
// @Tags Ingestion
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListRunsResponse
// @Router /api/ingestion/runs [get]
func (ctrl *IngestionController) ListRuns(c *gin.Context) {
	runs, err := ctrl.ingestion.ListRuns(c.Request.Context(), middleware.GetTenantID(c), recentRunsLimit)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListRunsResponse{Total: len(runs), Runs: runs})
}
