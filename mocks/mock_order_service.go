package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"juridico/internal/domain"
	"juridico/internal/service"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, input service.CreateOrderInput) (*domain.Order, error) {
	args := m.Called(ctx, input)
	return result[*domain.Order](args, 0), args.Error(1)
}

func (m *MockOrderService) Checkout(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	return result[*domain.Order](args, 0), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	return result[*domain.Order](args, 0), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	return result[[]domain.Order](args, 0), args.Int(1), args.Error(2)
}

func (m *MockOrderService) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Order, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	return result[[]domain.Order](args, 0), args.Int(1), args.Error(2)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, orderID, status)
	return result[*domain.Order](args, 0), args.Error(1)
}

func (m *MockOrderService) Details(ctx context.Context, orderID uuid.UUID) (*service.OrderDetails, error) {
	args := m.Called(ctx, orderID)
	return result[*service.OrderDetails](args, 0), args.Error(1)
}
