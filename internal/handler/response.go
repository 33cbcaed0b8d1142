package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"juridico/internal/domain"
	"juridico/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *PagMeta  `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data any, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// errorMappings is checked in order; the first errors.Is match wins.
var errorMappings = []errorMapping{
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "resource not found"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "forbidden"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"},
	{domain.ErrUserInactive, http.StatusForbidden, "USER_INACTIVE", "user is inactive"},
	{domain.ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL", "email already exists"},
	{domain.ErrInvalidRole, http.StatusBadRequest, "INVALID_ROLE", "invalid role; allowed: admin, customer"},

	{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png, webp"},
	{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"},
	{domain.ErrUploadFailed, http.StatusBadGateway, "UPLOAD_FAILED", "file upload to storage failed; please try again"},
	{domain.ErrDocumentNotRequired, http.StatusBadRequest, "DOCUMENT_NOT_REQUIRED", "document is not required for this item"},
	{domain.ErrItemNotInOrder, http.StatusNotFound, "ITEM_NOT_IN_ORDER", "item does not belong to this order"},
	{domain.ErrDocumentsIncomplete, http.StatusUnprocessableEntity, "DOCUMENTS_INCOMPLETE", "required documents are missing"},
	{domain.ErrOrderNotEditable, http.StatusConflict, "ORDER_NOT_EDITABLE", "order no longer accepts document changes"},

	{domain.ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART", "order has no items"},
	{domain.ErrInvalidQuantity, http.StatusBadRequest, "INVALID_QUANTITY", "item quantity must be positive"},
	{domain.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS", "invalid order status for this action"},
	{domain.ErrInvalidPaymentMethod, http.StatusBadRequest, "INVALID_PAYMENT_METHOD", "invalid payment method; allowed: pix, credit_card, whatsapp"},
}

// MapDomainError translates a domain error into status, code and message.
// Unknown errors become 500 INTERNAL_ERROR.
func MapDomainError(err error) (status int, code, msg string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code, m.message
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
}

// HandleError responds with the mapped error. Server-side failures are logged
// with the request ID; everything is attached to the gin context.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", c.GetString(middleware.ContextKeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	RespondError(c, status, code, msg)
}

// bindJSON decodes the body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return false
	}
	return true
}

// pathID parses a UUID path parameter; what names it in the 400 message.
func pathID(c *gin.Context, param, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parsePagination reads offset and limit, falling back to the first page of 20.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	return offset, limit
}
