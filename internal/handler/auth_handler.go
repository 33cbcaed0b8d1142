package handler

import (
	"github.com/gin-gonic/gin"

	"juridico/internal/service"
)

// AuthHandler serves the public /auth routes. None of them require a token.
type AuthHandler struct {
	auth     service.AuthService
	register service.RegistrationService
}

func NewAuthHandler(auth service.AuthService, register service.RegistrationService) *AuthHandler {
	return &AuthHandler{auth: auth, register: register}
}

// Login handles POST /api/v1/auth/login
// @Summary Log in
// @Description Authenticate with email and password and receive a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} Response{data=TokenResponse}
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), input)
	respondTokens(c, pair, err)
}

// RefreshToken handles POST /api/v1/auth/refresh
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} Response{data=TokenResponse}
// @Failure 401 {object} ErrorResponseBody "Invalid refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input service.RefreshInput
	if !bindJSON(c, &input) {
		return
	}

	pair, err := h.auth.RefreshToken(c.Request.Context(), input.RefreshToken)
	respondTokens(c, pair, err)
}

// Register handles POST /api/v1/auth/register
// @Summary Register a customer account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account details"
// @Success 201 {object} Response{data=service.RegisterOutput}
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "Email already exists"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input service.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	out, err := h.register.Register(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, out)
}

func respondTokens(c *gin.Context, pair *service.TokenPair, err error) {
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, pair)
}
