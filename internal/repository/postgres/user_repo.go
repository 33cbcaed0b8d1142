package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"juridico/internal/domain"
	"juridico/internal/port"
)

const (
	userColumns = "id, email, password_hash, full_name, role, is_active, created_at, updated_at"

	pgUniqueViolation = "23505"
)

type userRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new PostgreSQL-backed UserRepository.
func NewUserRepo(db *sqlx.DB) port.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.New()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		VALUES (:id, :email, :password_hash, :full_name, :role, :is_active, :created_at, :updated_at)`, user)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("userRepo.Create: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, "userRepo.GetByID", "id = $1", userID)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "userRepo.GetByEmail", "email = $1", strings.ToLower(email))
}

func (r *userRepo) getOne(ctx context.Context, op, where string, arg any) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE "+where, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
