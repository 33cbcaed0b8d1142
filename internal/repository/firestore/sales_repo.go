package firestore

import (
	"context"
	"fmt"

	"juridico/internal/domain"
	"juridico/internal/port"
)

type salesRepo struct {
	orders port.OrderRepository
}

// NewSalesRepo aggregates sales in memory over the order collection.
func NewSalesRepo(orders port.OrderRepository) port.SalesRepository {
	return &salesRepo{orders: orders}
}

func (r *salesRepo) Summary(ctx context.Context) (*domain.SalesSummary, error) {
	orders, err := r.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore.salesRepo.Summary: %w", err)
	}
	return domain.Summarize(orders), nil
}
