package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"juridico/internal/csvexport"
	"juridico/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SalesHandler serves the back-office sales panel.
type SalesHandler struct {
	salesService service.SalesService
}

// NewSalesHandler creates a new SalesHandler.
func NewSalesHandler(salesService service.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService}
}

// Summary handles GET /api/v1/admin/sales
// @Summary Sales summary
// @Tags admin
// @Produce json
// @Success 200 {object} Response{data=domain.SalesSummary}
// @Security BearerAuth
// @Router /admin/sales [get]
func (h *SalesHandler) Summary(c *gin.Context) {
	summary, err := h.salesService.Summary(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}

// ExportCSV handles GET /api/v1/admin/sales/export/csv
// @Summary Export orders as CSV
// @Tags admin
// @Produce text/csv
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/sales/export/csv [get]
func (h *SalesHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.salesService.ExportCSV(c.Request.Context(), &buf); err != nil {
		HandleError(c, err)
		return
	}
	h.attach(c, buf.Bytes(), "csv", "text/csv; charset=utf-8")
}

// ExportXLSX handles GET /api/v1/admin/sales/export/xlsx
// @Summary Export orders as an Excel workbook
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/sales/export/xlsx [get]
func (h *SalesHandler) ExportXLSX(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.salesService.ExportXLSX(c.Request.Context(), &buf); err != nil {
		HandleError(c, err)
		return
	}
	h.attach(c, buf.Bytes(), "xlsx", xlsxContentType)
}

// attach sends a fully rendered export as a download.
func (h *SalesHandler) attach(c *gin.Context, data []byte, ext, contentType string) {
	filename := csvexport.BuildFilename("Relatório de Vendas", ext, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
