package port

import (
	"context"

	"juridico/internal/domain"
)

// Notifier tells the back office about order events.
type Notifier interface {
	NotifyDocumentsComplete(ctx context.Context, order *domain.Order) error
	NotifyStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) error
}
