package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"xenofy_analytics_v1_202610/internal/api/dto"
	"xenofy_analytics_v1_202610/internal/middleware"
	"xenofy_analytics_v1_202610/internal/model"
	"xenofy_analytics_v1_202610/internal/repository"
	apperrors "xenofy_analytics_v1_202610/pkg/errors"
	"xenofy_analytics_v1_202610/pkg/shopify"
)

// PasswordCost bcrypt work factor for stored passwords
const PasswordCost = 10

var (
	ErrMissingRegistrationFields = &apperrors.ErrValidation{Message: "Email, password, name, domain, and API key are required"}
	ErrMissingLoginFields        = &apperrors.ErrValidation{Message: "Email and password are required"}
	ErrInvalidCredentials        = &apperrors.ErrUnauthorized{Message: "Invalid email or password"}
	ErrEmailTaken                = &apperrors.ErrConflict{Message: "Email already registered"}
	ErrDomainTaken               = &apperrors.ErrConflict{Message: "Domain already registered"}
	ErrAPIKeyTaken               = &apperrors.ErrConflict{Message: "API key already in use"}
	ErrUserNotFound              = &apperrors.ErrNotFound{Resource: "User"}
)

// ==================== Collaborators ====================

// CredentialVerifier checks a store credential against the vendor before it is saved
type CredentialVerifier interface {
	VerifyCredential(ctx context.Context, domain, apiKey string) error
}

// RegistrationScheduler starts the first ingestion of a new tenant
type RegistrationScheduler interface {
	ScheduleAfterRegistration(tenant model.Tenant)
}

// ShopifyCredentialVerifier verifies through a GetShop call
type ShopifyCredentialVerifier struct {
	clients ShopifyClientFactory
}

func NewShopifyCredentialVerifier(clients ShopifyClientFactory) *ShopifyCredentialVerifier {
	return &ShopifyCredentialVerifier{clients: clients}
}

// VerifyCredential returns an ErrValidation carrying the merchant-facing reason
func (v *ShopifyCredentialVerifier) VerifyCredential(ctx context.Context, domain, apiKey string) error {
	api, err := v.clients(domain, strings.TrimSpace(apiKey))
	if err == nil {
		_, err = api.GetShop(ctx)
	}
	if err == nil {
		return nil
	}

	var credErr *shopify.CredentialError
	if !errors.As(shopify.ClassifyCredentialError(err), &credErr) {
		return err
	}
	return &apperrors.ErrValidation{Message: credErr.Message}
}

// ==================== AuthService ====================

// AuthService tenant registration and sessions
type AuthService struct {
	accounts  *repository.AccountUnitOfWork
	verifier  CredentialVerifier
	scheduler RegistrationScheduler
	log       *zap.Logger
}

func NewAuthService(accounts *repository.AccountUnitOfWork, verifier CredentialVerifier, scheduler RegistrationScheduler, log *zap.Logger) *AuthService {
	return &AuthService{
		accounts:  accounts,
		verifier:  verifier,
		scheduler: scheduler,
		log:       log.Named("auth"),
	}
}

// Register creates a tenant and its first user in one transaction, then
// queues the tenant's first ingestion in the background.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Domain = strings.TrimSpace(req.Domain)
	req.APIKey = strings.TrimSpace(req.APIKey)
	if req.Email == "" || req.Password == "" || req.Name == "" || req.Domain == "" || req.APIKey == "" {
		return nil, ErrMissingRegistrationFields
	}

	if err := s.checkAvailable(ctx, req); err != nil {
		return nil, err
	}

	if model.IsDemoAccount(req.Name, req.Domain, req.APIKey) {
		s.log.Info("skipping credential check for demo account", zap.String("domain", req.Domain))
	} else if err := s.verifier.VerifyCredential(ctx, req.Domain, req.APIKey); err != nil {
		s.log.Warn("store credential rejected", zap.String("domain", req.Domain), zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// IsDemo stays false: only the provisioned demo tenant is excluded from scheduled runs
	tenant := &model.Tenant{Name: req.Name, Domain: req.Domain, APIKey: req.APIKey}
	user := &model.User{Email: req.Email, PasswordHash: string(hash)}
	err = s.accounts.Transaction(ctx, func(uow *repository.AccountUnitOfWork) error {
		if err := uow.Tenants.Create(ctx, tenant); err != nil {
			return err
		}
		user.TenantID = tenant.ID
		return uow.Users.Create(ctx, user)
	})
	if err != nil {
		// a concurrent registration won the unique index between the checks and the insert
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &apperrors.ErrConflict{Message: "Email, domain or API key already registered"}
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	token, err := middleware.GenerateToken(tenant.ID, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	if s.scheduler != nil {
		s.scheduler.ScheduleAfterRegistration(*tenant)
	}
	s.log.Info("tenant registered", zap.Int64("tenant_id", tenant.ID), zap.Int64("user_id", user.ID))

	return &dto.AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		Tenant:  ToTenantInfo(tenant),
		User:    ToUserProfile(user),
	}, nil
}

func (s *AuthService) checkAvailable(ctx context.Context, req *dto.RegisterRequest) error {
	taken, err := s.accounts.Users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}

	if taken, err = s.accounts.Tenants.ExistsByDomain(ctx, req.Domain); err != nil {
		return err
	}
	if taken {
		return ErrDomainTaken
	}

	if taken, err = s.accounts.Tenants.ExistsByAPIKey(ctx, req.APIKey); err != nil {
		return err
	}
	if taken {
		return ErrAPIKeyTaken
	}
	return nil
}

// Login checks the password and issues a session token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingLoginFields
	}

	user, err := s.accounts.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := middleware.GenerateToken(user.TenantID, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &dto.AuthResponse{
		Message: "Login successful",
		Token:   token,
		Tenant:  ToTenantInfo(user.Tenant),
		User:    ToUserProfile(user),
	}, nil
}

// Me profile of the session's user
func (s *AuthService) Me(ctx context.Context, userID int64) (*dto.MeResponse, error) {
	user, err := s.accounts.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &dto.MeResponse{User: ToUserProfile(user), Tenant: ToTenantInfo(user.Tenant)}, nil
}
