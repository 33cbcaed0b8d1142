package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"juridico/internal/domain"
	"juridico/internal/port"
)

type orderRepo struct {
	client     *firestore.Client
	collection string
}

// NewOrderRepo creates a Firestore-backed OrderRepository. Items are embedded
// in the order document.
func NewOrderRepo(client *firestore.Client, collection string) port.OrderRepository {
	return &orderRepo{client: client, collection: collection}
}

func (r *orderRepo) doc(id uuid.UUID) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(id.String())
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		order.Items[i].Position = i
	}

	if _, err := r.doc(order.ID).Create(ctx, toOrderDoc(order)); err != nil {
		return fmt.Errorf("firestore.orderRepo.Create: %w", err)
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	snap, err := r.doc(orderID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore.orderRepo.GetByID: %w", err)
	}
	return decodeOrder(snap)
}

func (r *orderRepo) List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, int, error) {
	q := r.client.Collection(r.collection).Query
	if filter.Status != nil {
		q = q.Where("status", "==", string(*filter.Status))
	}
	if filter.UserID != nil {
		q = q.Where("userId", "==", filter.UserID.String())
	}

	total, err := count(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("firestore.orderRepo.List count: %w", err)
	}

	orders, err := collectOrders(ctx, q.OrderBy("createdAt", firestore.Desc).Offset(offset).Limit(limit))
	if err != nil {
		return nil, 0, fmt.Errorf("firestore.orderRepo.List: %w", err)
	}
	return orders, total, nil
}

func (r *orderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := collectOrders(ctx, r.client.Collection(r.collection).OrderBy("createdAt", firestore.Desc))
	if err != nil {
		return nil, fmt.Errorf("firestore.orderRepo.ListAll: %w", err)
	}
	return orders, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	_, err := r.doc(orderID).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(status)},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		if isNotFound(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("firestore.orderRepo.UpdateStatus: %w", err)
	}
	return nil
}

func (r *orderRepo) AssignUser(ctx context.Context, orderID, userID uuid.UUID) error {
	ref := r.doc(orderID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var d orderDoc
		if err := snap.DataTo(&d); err != nil {
			return err
		}
		if d.UserID != "" {
			return domain.ErrNotFound
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "userId", Value: userID.String()},
			{Path: "updatedAt", Value: time.Now().UTC()},
		})
	})
	if err != nil {
		if isNotFound(err) || errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("firestore.orderRepo.AssignUser: %w", err)
	}
	return nil
}

func (r *orderRepo) SaveItemDocuments(ctx context.Context, orderID uuid.UUID, docs map[uuid.UUID]domain.OrderDocuments) error {
	ref := r.doc(orderID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var d orderDoc
		if err := snap.DataTo(&d); err != nil {
			return err
		}

		matched := 0
		for i := range d.Items {
			itemID, err := uuid.Parse(d.Items[i].ID)
			if err != nil {
				return err
			}
			itemDocs, ok := docs[itemID]
			if !ok {
				continue
			}
			matched++
			d.Items[i].Documents = make([]documentDoc, len(itemDocs))
			for j, doc := range itemDocs {
				d.Items[i].Documents[j] = documentDoc(doc)
			}
		}
		if matched != len(docs) {
			return domain.ErrItemNotInOrder
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "items", Value: d.Items},
			{Path: "updatedAt", Value: time.Now().UTC()},
		})
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrItemNotInOrder):
		return err
	case isNotFound(err):
		return domain.ErrNotFound
	default:
		return fmt.Errorf("firestore.orderRepo.SaveItemDocuments: %w", err)
	}
}

func decodeOrder(snap *firestore.DocumentSnapshot) (*domain.Order, error) {
	var d orderDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decoding order %s: %w", snap.Ref.ID, err)
	}
	o, err := d.toDomain()
	if err != nil {
		return nil, fmt.Errorf("decoding order %s: %w", snap.Ref.ID, err)
	}
	return o, nil
}

func collectOrders(ctx context.Context, q firestore.Query) ([]domain.Order, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var orders []domain.Order
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		o, err := decodeOrder(snap)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// count runs a server-side COUNT aggregation over q.
func count(ctx context.Context, q firestore.Query) (int, error) {
	res, err := q.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, err
	}
	switch v := res["total"].(type) {
	case *firestorepb.Value:
		return int(v.GetIntegerValue()), nil
	case int64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("unexpected count result %T", v)
	}
}
