package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"juridico/internal/domain"
)

// MockUploadRepo is a mock implementation of port.UploadRepository.
type MockUploadRepo struct {
	mock.Mock
}

func (m *MockUploadRepo) EnsureEmpty(ctx context.Context, records []domain.UploadRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockUploadRepo) Get(ctx context.Context, orderID, itemID uuid.UUID, document string) (*domain.UploadRecord, error) {
	args := m.Called(ctx, orderID, itemID, document)
	return result[*domain.UploadRecord](args, 0), args.Error(1)
}

func (m *MockUploadRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.UploadRecord, error) {
	args := m.Called(ctx, orderID)
	return result[[]domain.UploadRecord](args, 0), args.Error(1)
}

func (m *MockUploadRepo) Save(ctx context.Context, record *domain.UploadRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
