package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"juridico/internal/domain"
	"juridico/internal/middleware"
	"juridico/internal/service"
)

// OrderHandler handles storefront checkout and back-office order management.
type OrderHandler struct {
	orderService  service.OrderService
	uploadService service.UploadService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService service.OrderService, uploadService service.UploadService) *OrderHandler {
	return &OrderHandler{orderService: orderService, uploadService: uploadService}
}

// Create handles POST /api/v1/orders
// @Summary Create an order
// @Description Create an order from the cart. Signed-in customers get the order linked to their account.
// @Tags orders
// @Accept json
// @Produce json
// @Param request body service.CreateOrderInput true "Cart and customer details"
// @Success 201 {object} Response{data=domain.Order}
// @Failure 400 {object} ErrorResponseBody "Empty cart or invalid payment method"
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var input service.CreateOrderInput
	if !bindJSON(c, &input) {
		return
	}
	if userID, err := middleware.GetUserID(c); err == nil {
		input.UserID = &userID
	}

	order, err := h.orderService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, order)
}

// GetByID handles GET /api/v1/orders/:id
// @Summary Get an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} Response{data=domain.Order}
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Router /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, order)
}

// Progress handles GET /api/v1/orders/:id/progress
// @Summary Document checklist of an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} Response{data=service.OrderProgress}
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Router /orders/{id}/progress [get]
func (h *OrderHandler) Progress(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	progress, err := h.uploadService.Progress(c.Request.Context(), orderID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, progress)
}

// Checkout handles POST /api/v1/orders/:id/checkout
// @Summary Finish checkout
// @Description Requires every document to be uploaded; moves the order to pending.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} Response{data=domain.Order}
// @Failure 400 {object} ErrorResponseBody "Order is not awaiting checkout"
// @Failure 422 {object} ErrorResponseBody "Documents missing"
// @Router /orders/{id}/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), orderID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, order)
}

// ListMine handles GET /api/v1/users/me/orders
// @Summary Orders of the signed-in customer
// @Tags orders
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} Response{data=[]domain.Order,meta=PagMeta}
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /users/me/orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	offset, limit := parsePagination(c)
	orders, total, err := h.orderService.ListByUser(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, orders, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// List handles GET /api/v1/admin/orders
// @Summary List orders
// @Tags admin
// @Produce json
// @Param status query string false "Status filter"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} Response{data=[]domain.Order,meta=PagMeta}
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Security BearerAuth
// @Router /admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter domain.OrderFilter
	if s := c.Query("status"); s != "" {
		status := domain.OrderStatus(s)
		filter.Status = &status
	}

	offset, limit := parsePagination(c)
	orders, total, err := h.orderService.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, orders, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Details handles GET /api/v1/admin/orders/:id
// @Summary Order details with document checklist
// @Tags admin
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} Response{data=service.OrderDetails}
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Security BearerAuth
// @Router /admin/orders/{id} [get]
func (h *OrderHandler) Details(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	details, err := h.orderService.Details(c.Request.Context(), orderID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, details)
}

// UpdateStatus handles PUT /api/v1/admin/orders/:id/status
// @Summary Change order status
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} Response{data=domain.Order}
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Security BearerAuth
// @Router /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, order)
}

func parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	return pathID(c, "id", "order")
}
