package handler_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"juridico/internal/domain"
	"juridico/internal/handler"
	"juridico/mocks"
)

func TestSalesHandler_Summary(t *testing.T) {
	svc := new(mocks.MockSalesService)
	h := handler.NewSalesHandler(svc)
	svc.On("Summary", mock.Anything).Return(&domain.SalesSummary{TotalOrders: 4, DeliveredRevenue: 500}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/admin/sales", http.NoBody)
	h.Summary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, 4.0, data["total_orders"])
	assert.Equal(t, 500.0, data["delivered_revenue"])
}

func TestSalesHandler_ExportCSV(t *testing.T) {
	svc := new(mocks.MockSalesService)
	h := handler.NewSalesHandler(svc)
	svc.On("ExportCSV", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_, _ = io.WriteString(args.Get(1).(io.Writer), "Pedido,Cliente\n")
		}).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/admin/sales/export/csv", http.NoBody)
	h.ExportCSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Relat_rio_de_Vendas_")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Equal(t, "Pedido,Cliente\n", w.Body.String())
}

func TestSalesHandler_ExportXLSX_Error(t *testing.T) {
	svc := new(mocks.MockSalesService)
	h := handler.NewSalesHandler(svc)
	svc.On("ExportXLSX", mock.Anything, mock.Anything).Return(errors.New("db down"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/admin/sales/export/xlsx", http.NoBody)
	h.ExportXLSX(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}
