package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"juridico/internal/domain"
)

// MockSalesService is a mock implementation of service.SalesService.
type MockSalesService struct {
	mock.Mock
}

func (m *MockSalesService) Summary(ctx context.Context) (*domain.SalesSummary, error) {
	args := m.Called(ctx)
	return result[*domain.SalesSummary](args, 0), args.Error(1)
}

func (m *MockSalesService) ExportCSV(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockSalesService) ExportXLSX(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
