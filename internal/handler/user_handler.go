package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"juridico/internal/middleware"
	"juridico/internal/service"
)

// UserHandler serves account lookups for the signed-in user and admin account management.
type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create handles POST /api/v1/admin/users
// @Summary Create a user
// @Description Create a back-office operator or customer account (admin only)
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User details"
// @Success 201 {object} Response{data=domain.User} "User created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Failure 409 {object} ErrorResponseBody "Email already exists"
// @Security BearerAuth
// @Router /admin/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var input service.CreateUserInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.users.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, user)
}

// GetByID handles GET /api/v1/admin/users/:id
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} Response{data=domain.User}
// @Failure 404 {object} ErrorResponseBody "User not found"
// @Security BearerAuth
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	userID, ok := pathID(c, "id", "user")
	if !ok {
		return
	}

	h.respondUser(c, userID)
}

// Me handles GET /api/v1/users/me
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} Response{data=domain.User}
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	h.respondUser(c, userID)
}

func (h *UserHandler) respondUser(c *gin.Context, userID uuid.UUID) {
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, user)
}
