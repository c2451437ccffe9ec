package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"xenofy_analytics_v1_202610/internal/api/dto"
	"xenofy_analytics_v1_202610/internal/middleware"
	apperrors "xenofy_analytics_v1_202610/pkg/errors"
)

const msgInternalError = "Internal server error"

// respondError maps typed errors to their status; anything else is logged and hidden behind a 500
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int64("tenant_id", middleware.GetTenantID(c)),
			zap.Error(err))
		_ = c.Error(err)
		c.JSON(status, dto.ErrorResponse{Error: msgInternalError})
		return
	}
	c.JSON(status, dto.ErrorResponse{Error: apperrors.PublicMessage(err)})
}

// reply writes resp as 200 unless err is set
func reply[T any](c *gin.Context, log *zap.Logger, resp T, err error) {
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
