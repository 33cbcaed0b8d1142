package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"juridico/internal/catalog"
	"juridico/internal/domain"
	"juridico/internal/service"
)

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) StartWorkflow(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockUploadService) Upload(ctx context.Context, input service.DocumentUploadInput) (*domain.UploadRecord, error) {
	args := m.Called(ctx, input)
	return result[*domain.UploadRecord](args, 0), args.Error(1)
}

func (m *MockUploadService) Remove(ctx context.Context, orderID, itemID uuid.UUID, document string) (*domain.UploadRecord, error) {
	args := m.Called(ctx, orderID, itemID, document)
	return result[*domain.UploadRecord](args, 0), args.Error(1)
}

func (m *MockUploadService) Records(ctx context.Context, orderID uuid.UUID) ([]domain.UploadRecord, error) {
	args := m.Called(ctx, orderID)
	return result[[]domain.UploadRecord](args, 0), args.Error(1)
}

func (m *MockUploadService) State(ctx context.Context, orderID uuid.UUID) (catalog.UploadState, error) {
	args := m.Called(ctx, orderID)
	return result[catalog.UploadState](args, 0), args.Error(1)
}

func (m *MockUploadService) Progress(ctx context.Context, orderID uuid.UUID) (*service.OrderProgress, error) {
	args := m.Called(ctx, orderID)
	return result[*service.OrderProgress](args, 0), args.Error(1)
}

func (m *MockUploadService) DownloadURL(ctx context.Context, orderID, itemID uuid.UUID, document string) (string, error) {
	args := m.Called(ctx, orderID, itemID, document)
	return args.String(0), args.Error(1)
}
