package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"juridico/internal/domain"
)

// MockSalesRepo is a mock implementation of port.SalesRepository.
type MockSalesRepo struct {
	mock.Mock
}

func (m *MockSalesRepo) Summary(ctx context.Context) (*domain.SalesSummary, error) {
	args := m.Called(ctx)
	return result[*domain.SalesSummary](args, 0), args.Error(1)
}
