package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"juridico/internal/domain"
	"juridico/internal/port"
)

type uploadRepo struct {
	client     *firestore.Client
	collection string
}

// NewUploadRepo creates a Firestore-backed UploadRepository. Each
// (item, document) pair maps to one document with a derived id.
func NewUploadRepo(client *firestore.Client, collection string) port.UploadRepository {
	return &uploadRepo{client: client, collection: collection}
}

func (r *uploadRepo) doc(itemID uuid.UUID, document string) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(uploadDocID(itemID, document))
}

func (r *uploadRepo) EnsureEmpty(ctx context.Context, records []domain.UploadRecord) error {
	now := time.Now().UTC()
	for i := range records {
		rec := &records[i]
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		rec.Status = domain.UploadStatusEmpty
		rec.CreatedAt = now
		rec.UpdatedAt = now
		_, err := r.doc(rec.ItemID, rec.Document).Create(ctx, toUploadDoc(rec))
		if err != nil && !isAlreadyExists(err) {
			return fmt.Errorf("firestore.uploadRepo.EnsureEmpty: %w", err)
		}
	}
	return nil
}

func (r *uploadRepo) Get(ctx context.Context, orderID, itemID uuid.UUID, document string) (*domain.UploadRecord, error) {
	snap, err := r.doc(itemID, document).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore.uploadRepo.Get: %w", err)
	}
	rec, err := decodeUpload(snap)
	if err != nil {
		return nil, err
	}
	if rec.OrderID != orderID {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (r *uploadRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.UploadRecord, error) {
	iter := r.client.Collection(r.collection).Where("orderId", "==", orderID.String()).Documents(ctx)
	defer iter.Stop()

	var records []domain.UploadRecord
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore.uploadRepo.ListByOrder: %w", err)
		}
		rec, err := decodeUpload(snap)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].Document < records[j].Document
	})
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
	if _, err := r.doc(rec.ItemID, rec.Document).Set(ctx, toUploadDoc(rec)); err != nil {
		return fmt.Errorf("firestore.uploadRepo.Save: %w", err)
	}
	return nil
}

func decodeUpload(snap *firestore.DocumentSnapshot) (*domain.UploadRecord, error) {
	var d uploadDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decoding upload %s: %w", snap.Ref.ID, err)
	}
	rec, err := d.toDomain()
	if err != nil {
		return nil, fmt.Errorf("decoding upload %s: %w", snap.Ref.ID, err)
	}
	return rec, nil
}
