package handler

import (
	"time"

	"juridico/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"atendimento@escritorio.com.br"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// RegisterRequest represents the customer sign-up request body.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required" example:"cliente@email.com"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
	FullName string `json:"full_name" binding:"required" example:"Maria Silva"`
}

// CreateUserRequest represents the create user request body.
type CreateUserRequest struct {
	Email    string          `json:"email" binding:"required" example:"operador@escritorio.com.br"`
	Password string          `json:"password" binding:"required" example:"securepassword123"`
	FullName string          `json:"full_name" binding:"required" example:"João Souza"`
	Role     domain.UserRole `json:"role" binding:"required" example:"admin"`
}

// RequirementItem is one cart line sent to the requirements endpoint.
type RequirementItem struct {
	ID       string   `json:"id" example:"cart-1"`
	Title    string   `json:"title" binding:"required" example:"Consulta Trabalhista Inicial"`
	Features []string `json:"features" example:"Atendimento online"`
}

// RequirementsRequest represents the required documents request body.
type RequirementsRequest struct {
	Items []RequirementItem `json:"items" binding:"required,min=1,dive"`
}

// UpdateStatusRequest represents the order status change request body.
type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required" example:"processing"`
}

// --- Response Types ---

// TokenResponse represents the authentication token response.
type TokenResponse struct {
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt    time.Time `json:"expires_at" example:"2026-01-15T10:30:00Z"`
}

// ItemRequirements lists the documents one cart line needs.
type ItemRequirements struct {
	ID         string   `json:"id" example:"cart-1"`
	Title      string   `json:"title" example:"Consulta Trabalhista Inicial"`
	TemplateID string   `json:"template_id,omitempty" example:"consulta-trabalhista-inicial"`
	Source     string   `json:"source" example:"template"`
	Documents  []string `json:"documents" example:"RG e CPF"`
}

// DownloadURLResponse carries a presigned download link.
type DownloadURLResponse struct {
	URL string `json:"url" example:"https://bucket.s3.amazonaws.com/documents/...?X-Amz-Signature=..."`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"store not reachable"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool     `json:"success" example:"true"`
	Data    any      `json:"data,omitempty"`
	Meta    *PagMeta `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
