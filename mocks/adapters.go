package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"juridico/internal/domain"
	"juridico/internal/port"
)

var (
	_ port.ObjectStorage = (*MockObjectStorage)(nil)
	_ port.Notifier      = (*MockNotifier)(nil)
)

// MockObjectStorage stands in for the S3 and GCS buckets.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Put(ctx context.Context, input port.ObjectInput) (*port.StoredObject, error) {
	args := m.Called(ctx, input)
	return result[*port.StoredObject](args, 0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockObjectStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyDocumentsComplete(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockNotifier) NotifyStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) error {
	return m.Called(ctx, order, previous).Error(0)
}
