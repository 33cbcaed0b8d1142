package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"juridico/internal/domain"
	"juridico/internal/handler"
	"juridico/internal/service"
	"juridico/mocks"
)

func newAuthHandler() (*handler.AuthHandler, *mocks.MockAuthService, *mocks.MockRegistrationService) {
	authSvc := new(mocks.MockAuthService)
	regSvc := new(mocks.MockRegistrationService)
	return handler.NewAuthHandler(authSvc, regSvc), authSvc, regSvc
}

func TestAuthHandler_Login_Success(t *testing.T) {
	h, authSvc, _ := newAuthHandler()
	authSvc.On("Login", mock.Anything, service.LoginInput{Email: "admin@escritorio.com", Password: "password123"}).
		Return(&service.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(time.Hour)}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "admin@escritorio.com", "password": "password123",
	})

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "access", decode(t, w).Data.(map[string]any)["access_token"])
}

func TestAuthHandler_Login_InvalidBody(t *testing.T) {
	h, authSvc, _ := newAuthHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "not-an-email"})

	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	authSvc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h, authSvc, _ := newAuthHandler()
	authSvc.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "admin@escritorio.com", "password": "wrongpassword",
	})

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	h, authSvc, _ := newAuthHandler()
	authSvc.On("RefreshToken", mock.Anything, "old").Return(nil, domain.ErrUnauthorized)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": "old"})

	h.RefreshToken(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Register(t *testing.T) {
	h, _, regSvc := newAuthHandler()
	regSvc.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).
		Return(&service.RegisterOutput{User: &domain.User{ID: uuid.New(), Role: domain.RoleCustomer}}, nil).Once()
	regSvc.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).
		Return(nil, domain.ErrDuplicateEmail).Once()

	body := map[string]string{"email": "cliente@mail.com", "password": "password123", "full_name": "Cliente"}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/auth/register", body)
	h.Register(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/auth/register", body)
	h.Register(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}
