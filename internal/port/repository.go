package port

import (
	"context"

	"github.com/google/uuid"

	"juridico/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// OrderRepository defines the contract for order persistence.
// Orders are always loaded together with their items.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, int, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
	// AssignUser links a guest order to an account. Orders that already have an owner are left untouched.
	AssignUser(ctx context.Context, orderID, userID uuid.UUID) error
	SaveItemDocuments(ctx context.Context, orderID uuid.UUID, docs map[uuid.UUID]domain.OrderDocuments) error
}

// UploadRepository defines the contract for per-document upload state.
// Records are keyed by (order, item, document); Save is last-write-wins.
type UploadRepository interface {
	EnsureEmpty(ctx context.Context, records []domain.UploadRecord) error
	Get(ctx context.Context, orderID, itemID uuid.UUID, document string) (*domain.UploadRecord, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.UploadRecord, error)
	Save(ctx context.Context, record *domain.UploadRecord) error
}
