package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"juridico/internal/domain"
	"juridico/internal/port"
)

type salesRepo struct {
	db *sqlx.DB
}

// NewSalesRepo creates a new PostgreSQL-backed SalesRepository.
func NewSalesRepo(db *sqlx.DB) port.SalesRepository {
	return &salesRepo{db: db}
}

const salesSummaryQuery = `SELECT
	COUNT(*) AS total_orders,
	COUNT(CASE WHEN status IN ('delivered', 'finalizado') THEN 1 END) AS delivered_count,
	COALESCE(SUM(CASE WHEN status IN ('delivered', 'finalizado') THEN total END), 0) AS delivered_revenue,
	COALESCE(SUM(CASE WHEN status IN ('pending', 'processing', 'shipped') THEN total END), 0) AS pending_revenue
FROM orders`

const salesByStatusQuery = `SELECT status, COUNT(*) AS count FROM orders GROUP BY status`

type salesRow struct {
	TotalOrders      int     `db:"total_orders"`
	DeliveredCount   int     `db:"delivered_count"`
	DeliveredRevenue float64 `db:"delivered_revenue"`
	PendingRevenue   float64 `db:"pending_revenue"`
}

type statusCountRow struct {
	Status domain.OrderStatus `db:"status"`
	Count  int                `db:"count"`
}

func (r *salesRepo) Summary(ctx context.Context) (*domain.SalesSummary, error) {
	var row salesRow
	if err := r.db.GetContext(ctx, &row, salesSummaryQuery); err != nil {
		return nil, fmt.Errorf("salesRepo.Summary totals: %w", err)
	}

	var counts []statusCountRow
	if err := r.db.SelectContext(ctx, &counts, salesByStatusQuery); err != nil {
		return nil, fmt.Errorf("salesRepo.Summary by status: %w", err)
	}

	summary := &domain.SalesSummary{
		TotalOrders:      row.TotalOrders,
		DeliveredCount:   row.DeliveredCount,
		DeliveredRevenue: row.DeliveredRevenue,
		PendingRevenue:   row.PendingRevenue,
		ByStatus:         make(map[domain.OrderStatus]int, len(counts)),
	}
	for _, c := range counts {
		summary.ByStatus[c.Status] = c.Count
	}
	summary.AverageTicket = domain.AverageTicket(summary.DeliveredRevenue, summary.DeliveredCount)
	return summary, nil
}
