package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"juridico/internal/domain"
	"juridico/internal/port"
)

// GuestOrderLinker attaches guest orders to the account registered with the
// customer email of the order.
type GuestOrderLinker struct {
	orderRepo port.OrderRepository
	userRepo  port.UserRepository
	log       *zap.Logger
}

// NewGuestOrderLinker creates a new GuestOrderLinker.
func NewGuestOrderLinker(orderRepo port.OrderRepository, userRepo port.UserRepository, log *zap.Logger) *GuestOrderLinker {
	return &GuestOrderLinker{orderRepo: orderRepo, userRepo: userRepo, log: log.Named("linker")}
}

// PlannedLink pairs a guest order with the account it would be attached to.
type PlannedLink struct {
	Index   int // position in the slice passed to Plan
	OrderID uuid.UUID
	UserID  uuid.UUID
	Email   string
}

// Plan resolves the account of every ownerless order without writing anything.
func (l *GuestOrderLinker) Plan(ctx context.Context, orders []domain.Order) ([]PlannedLink, error) {
	users := make(map[string]*domain.User)
	var plan []PlannedLink
	for i := range orders {
		o := &orders[i]
		email := normalizeEmail(o.CustomerEmail)
		if o.UserID != nil || email == "" {
			continue
		}

		user, seen := users[email]
		if !seen {
			u, err := l.userRepo.GetByEmail(ctx, email)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("looking up %s: %w", email, err)
			}
			user = u
			users[email] = u
		}
		if user != nil {
			plan = append(plan, PlannedLink{Index: i, OrderID: o.ID, UserID: user.ID, Email: email})
		}
	}
	return plan, nil
}

// Link assigns every ownerless order whose email matches an account and
// returns how many orders were linked. Orders claimed in the meantime are skipped.
func (l *GuestOrderLinker) Link(ctx context.Context, orders []domain.Order) (int, error) {
	plan, err := l.Plan(ctx, orders)
	if err != nil {
		return 0, err
	}

	linked := 0
	for _, p := range plan {
		if err := l.orderRepo.AssignUser(ctx, p.OrderID, p.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return linked, err
		}
		userID := p.UserID
		orders[p.Index].UserID = &userID
		linked++
		l.log.Info("guest order linked",
			zap.String("order_id", p.OrderID.String()),
			zap.String("user_id", p.UserID.String()),
		)
	}
	return linked, nil
}
