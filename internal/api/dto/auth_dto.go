package dto

// ==================== Register ====================

// RegisterRequest field presence is checked by the service so the error
// message stays the same for every missing field.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	APIKey   string `json:"apiKey"`
}

// ==================== Login ====================

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse register and login answer
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	Tenant  TenantInfo  `json:"tenant"`
	User    UserProfile `json:"user"`
}

// ==================== Me ====================

type MeResponse struct {
	User   UserProfile `json:"user"`
	Tenant TenantInfo  `json:"tenant"`
}

type TenantInfo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

type UserProfile struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse error body for every endpoint
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
