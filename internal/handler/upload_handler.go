package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"juridico/internal/service"
)

// UploadHandler handles the per-document upload workflow of an order item.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// List handles GET /api/v1/orders/:id/documents
// @Summary Upload records of an order
// @Tags documents
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} Response{data=[]domain.UploadRecord}
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Router /orders/{id}/documents [get]
func (h *UploadHandler) List(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	records, err := h.uploadService.Records(c.Request.Context(), orderID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, records)
}

// Upload handles POST /api/v1/orders/:id/items/:itemId/documents
// @Summary Upload a required document
// @Description Upload one required document (PDF, JPG, PNG or WEBP) for an order item.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Order ID"
// @Param itemId path string true "Item ID"
// @Param document formData string true "Required document name"
// @Param file formData file true "Document file"
// @Success 201 {object} Response{data=domain.UploadRecord}
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type or document not required"
// @Failure 409 {object} ErrorResponseBody "Order no longer accepts documents"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 502 {object} ErrorResponseBody "Storage failure"
// @Router /orders/{id}/items/{itemId}/documents [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	orderID, itemID, ok := parseItemPath(c)
	if !ok {
		return
	}

	// Names are matched exactly against the required list, padding included.
	document := c.PostForm("document")
	if strings.TrimSpace(document) == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "document field is required")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	rec, err := h.uploadService.Upload(c.Request.Context(), service.DocumentUploadInput{
		OrderID:  orderID,
		ItemID:   itemID,
		Document: document,
		File:     file,
		Header:   header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, rec)
}

// Remove handles DELETE /api/v1/orders/:id/items/:itemId/documents?document=...
// @Summary Remove an uploaded document
// @Tags documents
// @Produce json
// @Param id path string true "Order ID"
// @Param itemId path string true "Item ID"
// @Param document query string true "Required document name"
// @Success 200 {object} Response{data=domain.UploadRecord}
// @Failure 404 {object} ErrorResponseBody "Record not found"
// @Router /orders/{id}/items/{itemId}/documents [delete]
func (h *UploadHandler) Remove(c *gin.Context) {
	orderID, itemID, ok := parseItemPath(c)
	if !ok {
		return
	}
	document, ok := documentQuery(c)
	if !ok {
		return
	}

	rec, err := h.uploadService.Remove(c.Request.Context(), orderID, itemID, document)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// Download handles GET /api/v1/admin/orders/:id/items/:itemId/documents/download?document=...
// @Summary Presigned download URL of an uploaded document
// @Tags admin
// @Produce json
// @Param id path string true "Order ID"
// @Param itemId path string true "Item ID"
// @Param document query string true "Required document name"
// @Success 200 {object} Response{data=DownloadURLResponse}
// @Failure 404 {object} ErrorResponseBody "Document not uploaded"
// @Security BearerAuth
// @Router /admin/orders/{id}/items/{itemId}/documents/download [get]
func (h *UploadHandler) Download(c *gin.Context) {
	orderID, itemID, ok := parseItemPath(c)
	if !ok {
		return
	}
	document, ok := documentQuery(c)
	if !ok {
		return
	}

	url, err := h.uploadService.DownloadURL(c.Request.Context(), orderID, itemID, document)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, DownloadURLResponse{URL: url})
}

func parseItemPath(c *gin.Context) (orderID, itemID uuid.UUID, ok bool) {
	orderID, ok = parseOrderID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	itemID, ok = pathID(c, "itemId", "item")
	return orderID, itemID, ok
}

func documentQuery(c *gin.Context) (string, bool) {
	document := c.Query("document")
	if strings.TrimSpace(document) == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "document query parameter is required")
		return "", false
	}
	return document, true
}
