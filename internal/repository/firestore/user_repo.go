package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"juridico/internal/domain"
	"juridico/internal/port"
)

type userRepo struct {
	client *firestore.Client
}

// NewUserRepo creates a Firestore-backed UserRepository.
func NewUserRepo(client *firestore.Client) port.UserRepository {
	return &userRepo{client: client}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	if _, err := r.GetByEmail(ctx, user.Email); err == nil {
		return domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	user.ID = uuid.New()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err := r.client.Collection(usersCollection).Doc(user.ID.String()).Create(ctx, toUserDoc(user)); err != nil {
		return fmt.Errorf("firestore.userRepo.Create: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	snap, err := r.client.Collection(usersCollection).Doc(userID.String()).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore.userRepo.GetByID: %w", err)
	}
	return decodeUser(snap)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	iter := r.client.Collection(usersCollection).
		Where("email", "==", strings.ToLower(email)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("firestore.userRepo.GetByEmail: %w", err)
	}
	return decodeUser(snap)
}

func decodeUser(snap *firestore.DocumentSnapshot) (*domain.User, error) {
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decoding user %s: %w", snap.Ref.ID, err)
	}
	return d.toDomain()
}
