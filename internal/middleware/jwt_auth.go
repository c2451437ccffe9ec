package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"xenofy_analytics_v1_202610/internal/model"
)

// ==================== JWT config ====================

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
	Issuer    string
}

func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey: "xenofy-secret-key-change-in-production",
		TTL:       24 * time.Hour,
		Issuer:    "xenofy",
	}
}

var jwtConfig = DefaultJWTConfig()

// SetJWTConfig replaces the process-wide signing config; call once at startup.
func SetJWTConfig(cfg *JWTConfig) {
	jwtConfig = cfg
}

func GetJWTConfig() *JWTConfig {
	return jwtConfig
}

// ==================== Claims ====================

// TenantClaims session claims; every token is bound to exactly one tenant
type TenantClaims struct {
	TenantID int64  `json:"tenantId"`
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// ==================== Token ====================

// GenerateToken signs an HS256 session token valid for the configured TTL
func GenerateToken(tenantID, userID int64, email string) (string, error) {
	now := time.Now()
	claims := &TenantClaims{
		TenantID: tenantID,
		UserID:   userID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtConfig.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SecretKey))
}

func ParseToken(tokenString string) (*TenantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TenantClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtConfig.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*TenantClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// ==================== Gin middleware ====================

const (
	ContextKeyTenant   = "tenant"
	ContextKeyTenantID = "tenant_id"
	ContextKeyUserID   = "user_id"
	ContextKeyEmail    = "email"
	ContextKeyClaims   = "claims"
)

// TenantLookup resolves the tenant a token points at
type TenantLookup interface {
	GetByID(ctx context.Context, id int64) (*model.Tenant, error)
}

// JWTAuth verifies the bearer token and loads its tenant. Downstream handlers
// read the tenant from the gin context or, via TenantFromContext, the request context.
func JWTAuth(tenants TenantLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if authHeader == "" || len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		tenant, err := tenants.GetByID(c.Request.Context(), claims.TenantID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if tenant == nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
			return
		}

		c.Set(ContextKeyTenant, tenant)
		c.Set(ContextKeyTenantID, tenant.ID)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyClaims, claims)

		c.Request = c.Request.WithContext(WithTenant(c.Request.Context(), TenantInfo{
			TenantID: tenant.ID,
			UserID:   claims.UserID,
			Email:    claims.Email,
		}))

		c.Next()
	}
}

// ==================== Helpers ====================

func GetTenant(c *gin.Context) *model.Tenant {
	if t, exists := c.Get(ContextKeyTenant); exists {
		return t.(*model.Tenant)
	}
	return nil
}

func GetTenantID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyTenantID); exists {
		return id.(int64)
	}
	return 0
}

func GetUserID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyUserID); exists {
		return id.(int64)
	}
	return 0
}

func GetEmail(c *gin.Context) string {
	if email, exists := c.Get(ContextKeyEmail); exists {
		return email.(string)
	}
	return ""
}

func GetClaims(c *gin.Context) *TenantClaims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		return claims.(*TenantClaims)
	}
	return nil
}
