package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"juridico/internal/domain"
	"juridico/internal/port"
)

type orderRepo struct {
	db *sqlx.DB
}

// NewOrderRepo creates a new PostgreSQL-backed OrderRepository.
func NewOrderRepo(db *sqlx.DB) port.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("orderRepo.Create begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `INSERT INTO orders (
		id, user_id, customer_name, customer_email, customer_phone,
		payment_method, status, total, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID, order.UserID, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.PaymentMethod, order.Status, order.Total, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("orderRepo.Create: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		item.Position = i
		_, err = tx.ExecContext(ctx, `INSERT INTO order_items (
			id, order_id, position, product_id, title, price, quantity, features, documents
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			item.ID, item.OrderID, item.Position, item.ProductID, item.Title,
			item.Price, item.Quantity, item.Features, item.Documents)
		if err != nil {
			return fmt.Errorf("orderRepo.Create item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("orderRepo.Create commit: %w", err)
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orderRepo.GetByID: %w", err)
	}

	err = r.db.SelectContext(ctx, &order.Items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY position", orderID)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.GetByID items: %w", err)
	}
	return &order, nil
}

func (r *orderRepo) List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM orders"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("orderRepo.List count: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	var orders []domain.Order
	if err := r.db.SelectContext(ctx, &orders, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("orderRepo.List: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, fmt.Errorf("orderRepo.List items: %w", err)
	}
	return orders, total, nil
}

func (r *orderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := r.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("orderRepo.ListAll: %w", err)
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, fmt.Errorf("orderRepo.ListAll items: %w", err)
	}
	return orders, nil
}

// attachItems loads the items of every order in one query.
func (r *orderRepo) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
	}

	query, args, err := sqlx.In("SELECT * FROM order_items WHERE order_id IN (?) ORDER BY order_id, position", ids)
	if err != nil {
		return err
	}
	var items []domain.OrderItem
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return err
	}
	for _, item := range items {
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("orderRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepo) AssignUser(ctx context.Context, orderID, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE orders SET user_id = $1, updated_at = $2 WHERE id = $3 AND user_id IS NULL",
		userID, time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("orderRepo.AssignUser: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepo) SaveItemDocuments(ctx context.Context, orderID uuid.UUID, docs map[uuid.UUID]domain.OrderDocuments) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("orderRepo.SaveItemDocuments begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for itemID, d := range docs {
		result, err := tx.ExecContext(ctx,
			"UPDATE order_items SET documents = $1 WHERE id = $2 AND order_id = $3",
			d, itemID, orderID)
		if err != nil {
			return fmt.Errorf("orderRepo.SaveItemDocuments: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return domain.ErrItemNotInOrder
		}
	}

	if _, err := tx.ExecContext(ctx, "UPDATE orders SET updated_at = $1 WHERE id = $2", time.Now().UTC(), orderID); err != nil {
		return fmt.Errorf("orderRepo.SaveItemDocuments touch: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("orderRepo.SaveItemDocuments commit: %w", err)
	}
	return nil
}
