package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"juridico/internal/catalog"
	"juridico/internal/metrics"
)

// CatalogHandler exposes the service template table and document requirements.
type CatalogHandler struct {
	catalog *catalog.Catalog
	metrics *metrics.Registry
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cat *catalog.Catalog, m *metrics.Registry) *CatalogHandler {
	return &CatalogHandler{catalog: cat, metrics: m}
}

// ListTemplates handles GET /api/v1/catalog/templates
// @Summary List service templates
// @Tags catalog
// @Produce json
// @Success 200 {object} Response{data=[]catalog.Template}
// @Router /catalog/templates [get]
func (h *CatalogHandler) ListTemplates(c *gin.Context) {
	RespondOK(c, h.catalog.Templates())
}

// GetTemplate handles GET /api/v1/catalog/templates/:id
// @Summary Get a service template
// @Tags catalog
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} Response{data=catalog.Template}
// @Failure 404 {object} ErrorResponseBody "Template not found"
// @Router /catalog/templates/{id} [get]
func (h *CatalogHandler) GetTemplate(c *gin.Context) {
	tmpl, ok := h.catalog.Get(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "TEMPLATE_NOT_FOUND", "template not found")
		return
	}
	RespondOK(c, tmpl)
}

// Resolve handles GET /api/v1/catalog/resolve?title=...
// @Summary Resolve a product title to a template
// @Tags catalog
// @Produce json
// @Param title query string true "Product title"
// @Success 200 {object} Response{data=catalog.Template}
// @Failure 400 {object} ErrorResponseBody "Missing title"
// @Failure 404 {object} ErrorResponseBody "No template matches"
// @Router /catalog/resolve [get]
func (h *CatalogHandler) Resolve(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "title query parameter is required")
		return
	}

	tmpl, ok := h.catalog.Resolve(title)
	if !ok {
		RespondError(c, http.StatusNotFound, "TEMPLATE_NOT_FOUND", "no template matches this title")
		return
	}
	RespondOK(c, tmpl)
}

// Requirements handles POST /api/v1/catalog/requirements
// @Summary Required documents for cart items
// @Description Returns the documents the customer must upload for each item
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body RequirementsRequest true "Cart items"
// @Success 200 {object} Response{data=[]ItemRequirements}
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Router /catalog/requirements [post]
func (h *CatalogHandler) Requirements(c *gin.Context) {
	var req RequirementsRequest
	if !bindJSON(c, &req) {
		return
	}

	out := make([]ItemRequirements, len(req.Items))
	for i, it := range req.Items {
		item := catalog.Item{ID: it.ID, Title: it.Title, Features: it.Features}
		docs, src := h.catalog.Requirements(item)
		h.metrics.RecordResolution(string(src))

		out[i] = ItemRequirements{ID: it.ID, Title: it.Title, Source: string(src), Documents: docs}
		if src == catalog.SourceTemplate {
			tmpl, _ := h.catalog.Resolve(it.Title)
			out[i].TemplateID = tmpl.ID
		}
	}
	RespondOK(c, out)
}
