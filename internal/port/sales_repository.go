package port

import (
	"context"

	"juridico/internal/domain"
)

// SalesRepository provides aggregate sales queries for the back office.
type SalesRepository interface {
	Summary(ctx context.Context) (*domain.SalesSummary, error)
}
