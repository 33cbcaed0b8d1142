package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"juridico/internal/csvexport"
	"juridico/internal/domain"
	"juridico/internal/service"
	"juridico/mocks"
)

func salesOrders() []domain.Order {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Order{
		{ID: uuid.New(), CustomerName: "Ana", Status: domain.OrderStatusDelivered, Total: 200, CreatedAt: at, UpdatedAt: at},
		{ID: uuid.New(), CustomerName: "Bruno", Status: domain.OrderStatusProcessing, Total: 80, CreatedAt: at, UpdatedAt: at},
	}
}

func TestSalesService_Summary(t *testing.T) {
	salesRepo := new(mocks.MockSalesRepo)
	svc := service.NewSalesService(salesRepo, new(mocks.MockOrderRepo))

	want := &domain.SalesSummary{TotalOrders: 3, DeliveredCount: 1, DeliveredRevenue: 100, AverageTicket: 100}
	salesRepo.On("Summary", mock.Anything).Return(want, nil)

	got, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, got)
	salesRepo.AssertExpectations(t)
}

func TestSalesService_ExportCSV(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepo)
	svc := service.NewSalesService(new(mocks.MockSalesRepo), orderRepo)
	orderRepo.On("ListAll", mock.Anything).Return(salesOrders(), nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, csvexport.BOM))
	lines := strings.Split(strings.TrimSpace(string(out[len(csvexport.BOM):])), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Pedido,Cliente,"))
	assert.Contains(t, lines[1], "Ana")
}

func TestSalesService_ExportXLSX(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepo)
	svc := service.NewSalesService(new(mocks.MockSalesRepo), orderRepo)
	orderRepo.On("ListAll", mock.Anything).Return(salesOrders(), nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportXLSX(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Pedidos")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	pending, err := f.GetCellValue("Resumo", "B5")
	require.NoError(t, err)
	assert.Equal(t, "80", pending)
}

func TestSalesService_Export_RepoError(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepo)
	svc := service.NewSalesService(new(mocks.MockSalesRepo), orderRepo)
	orderRepo.On("ListAll", mock.Anything).Return(nil, errors.New("boom"))

	var buf bytes.Buffer
	assert.Error(t, svc.ExportXLSX(context.Background(), &buf))
	assert.Error(t, svc.ExportCSV(context.Background(), &buf))
	assert.Zero(t, buf.Len())
}
