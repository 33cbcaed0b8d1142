package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"juridico/internal/domain"
	"juridico/internal/port"
)

type uploadRepo struct {
	db *sqlx.DB
}

// NewUploadRepo creates a new PostgreSQL-backed UploadRepository.
func NewUploadRepo(db *sqlx.DB) port.UploadRepository {
	return &uploadRepo{db: db}
}

func (r *uploadRepo) EnsureEmpty(ctx context.Context, records []domain.UploadRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("uploadRepo.EnsureEmpty begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	for i := range records {
		rec := &records[i]
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		rec.Status = domain.UploadStatusEmpty
		rec.CreatedAt = now
		rec.UpdatedAt = now
		_, err := tx.ExecContext(ctx, `INSERT INTO order_uploads (id, order_id, item_id, document, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (order_id, item_id, document) DO NOTHING`,
			rec.ID, rec.OrderID, rec.ItemID, rec.Document, rec.Status, rec.CreatedAt, rec.UpdatedAt)
		if err != nil {
			return fmt.Errorf("uploadRepo.EnsureEmpty: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("uploadRepo.EnsureEmpty commit: %w", err)
	}
	return nil
}

func (r *uploadRepo) Get(ctx context.Context, orderID, itemID uuid.UUID, document string) (*domain.UploadRecord, error) {
	var rec domain.UploadRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM order_uploads WHERE order_id = $1 AND item_id = $2 AND document = $3",
		orderID, itemID, document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("uploadRepo.Get: %w", err)
	}
	return &rec, nil
}

func (r *uploadRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.UploadRecord, error) {
	var records []domain.UploadRecord
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM order_uploads WHERE order_id = $1 ORDER BY created_at, document", orderID)
	if err != nil {
		return nil, fmt.Errorf("uploadRepo.ListByOrder: %w", err)
	}
	return records, nil
}

func (r *uploadRepo) Save(ctx context.Context, rec *domain.UploadRecord) error {
	now := time.Now().UTC()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `INSERT INTO order_uploads (
		id, order_id, item_id, document, status, object_key, url,
		file_name, content_type, file_size, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (order_id, item_id, document) DO UPDATE SET
		status = EXCLUDED.status,
		object_key = EXCLUDED.object_key,
		url = EXCLUDED.url,
		file_name = EXCLUDED.file_name,
		content_type = EXCLUDED.content_type,
		file_size = EXCLUDED.file_size,
		updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.OrderID, rec.ItemID, rec.Document, rec.Status, rec.ObjectKey, rec.URL,
		rec.FileName, rec.ContentType, rec.FileSize, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("uploadRepo.Save: %w", err)
	}
	return nil
}
