package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"juridico/internal/domain"
)

// MockOrderRepo is a mock implementation of port.OrderRepository.
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) GetByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	return result[*domain.Order](args, 0), args.Error(1)
}

func (m *MockOrderRepo) List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	return result[[]domain.Order](args, 0), args.Int(1), args.Error(2)
}

func (m *MockOrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return result[[]domain.Order](args, 0), args.Error(1)
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderRepo) AssignUser(ctx context.Context, orderID, userID uuid.UUID) error {
	args := m.Called(ctx, orderID, userID)
	return args.Error(0)
}

func (m *MockOrderRepo) SaveItemDocuments(ctx context.Context, orderID uuid.UUID, docs map[uuid.UUID]domain.OrderDocuments) error {
	args := m.Called(ctx, orderID, docs)
	return args.Error(0)
}
