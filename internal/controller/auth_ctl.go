package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"xenofy_analytics_v1_202610/internal/api/dto"
	"xenofy_analytics_v1_202610/internal/middleware"
	"xenofy_analytics_v1_202610/internal/service"
	apperrors "xenofy_analytics_v1_202610/pkg/errors"
)

type AuthController struct {
	authService *service.AuthService
	log         *zap.Logger
}

func NewAuthController(s *service.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{authService: s, log: log.Named("auth_ctl")}
}

// Register
// @Summary Register a tenant
// @Description Creates the tenant and its first user after checking the Shopify credential, then starts the first ingestion in the background
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "account and store credential"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "missing fields or rejected credential"
// @Failure 409 {object} dto.ErrorResponse "email, domain or API key already registered"
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	// a malformed body is reported like an empty one
	_ = c.ShouldBindJSON(&req)

	resp, err := ctrl.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	_ = c.ShouldBindJSON(&req)

	resp, err := ctrl.authService.Login(c.Request.Context(), &req)
	reply(c, ctrl.log, resp, err)
}

// Me
// @Summary Current user and tenant
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (ctrl *AuthController) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		respondError(c, ctrl.log, &apperrors.ErrUnauthorized{Message: "Access token required"})
		return
	}
	resp, err := ctrl.authService.Me(c.Request.Context(), claims.UserID)
	reply(c, ctrl.log, resp, err)
}

// Logout tokens are stateless; the client drops its copy
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}
