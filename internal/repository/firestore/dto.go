package firestore

import (
	"time"

	"github.com/google/uuid"

	"juridico/internal/domain"
)

type orderDoc struct {
	ID            string    `firestore:"id"`
	UserID        string    `firestore:"userId"`
	CustomerName  string    `firestore:"customerName"`
	CustomerEmail string    `firestore:"customerEmail"`
	CustomerPhone string    `firestore:"customerPhone"`
	PaymentMethod string    `firestore:"paymentMethod"`
	Status        string    `firestore:"status"`
	Total         float64   `firestore:"total"`
	Items         []itemDoc `firestore:"items"`
	CreatedAt     time.Time `firestore:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt"`
}

type itemDoc struct {
	ID        string        `firestore:"id"`
	ProductID string        `firestore:"productId"`
	Title     string        `firestore:"title"`
	Price     float64       `firestore:"price"`
	Quantity  int           `firestore:"quantity"`
	Features  []string      `firestore:"features"`
	Documents []documentDoc `firestore:"documents"`
}

type documentDoc struct {
	Name       string    `firestore:"name"`
	URL        string    `firestore:"url"`
	UploadedAt time.Time `firestore:"uploadedAt"`
}

type uploadDoc struct {
	ID          string    `firestore:"id"`
	OrderID     string    `firestore:"orderId"`
	ItemID      string    `firestore:"itemId"`
	Document    string    `firestore:"document"`
	Status      string    `firestore:"status"`
	ObjectKey   string    `firestore:"objectKey"`
	URL         string    `firestore:"url"`
	FileName    string    `firestore:"fileName"`
	ContentType string    `firestore:"contentType"`
	FileSize    int64     `firestore:"fileSize"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

type userDoc struct {
	ID           string    `firestore:"id"`
	Email        string    `firestore:"email"`
	PasswordHash string    `firestore:"passwordHash"`
	FullName     string    `firestore:"fullName"`
	Role         string    `firestore:"role"`
	IsActive     bool      `firestore:"isActive"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

// uploadDocID derives a stable document id for (item, document); document
// names can contain characters Firestore ids reject.
func uploadDocID(itemID uuid.UUID, document string) string {
	return uuid.NewSHA1(itemID, []byte(document)).String()
}

func toOrderDoc(o *domain.Order) orderDoc {
	d := orderDoc{
		ID:            o.ID.String(),
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		Total:         o.Total,
		Items:         make([]itemDoc, len(o.Items)),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.UserID != nil {
		d.UserID = o.UserID.String()
	}
	for i := range o.Items {
		d.Items[i] = toItemDoc(&o.Items[i])
	}
	return d
}

func toItemDoc(it *domain.OrderItem) itemDoc {
	d := itemDoc{
		ID:        it.ID.String(),
		ProductID: it.ProductID,
		Title:     it.Title,
		Price:     it.Price,
		Quantity:  it.Quantity,
		Features:  append([]string{}, it.Features...),
		Documents: make([]documentDoc, len(it.Documents)),
	}
	for i, doc := range it.Documents {
		d.Documents[i] = documentDoc(doc)
	}
	return d
}

func (d *orderDoc) toDomain() (*domain.Order, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	o := &domain.Order{
		ID:            id,
		CustomerName:  d.CustomerName,
		CustomerEmail: d.CustomerEmail,
		CustomerPhone: d.CustomerPhone,
		PaymentMethod: domain.PaymentMethod(d.PaymentMethod),
		Status:        domain.OrderStatus(d.Status),
		Total:         d.Total,
		Items:         make([]domain.OrderItem, len(d.Items)),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.UserID != "" {
		uid, err := uuid.Parse(d.UserID)
		if err != nil {
			return nil, err
		}
		o.UserID = &uid
	}
	for i, it := range d.Items {
		itemID, err := uuid.Parse(it.ID)
		if err != nil {
			return nil, err
		}
		item := domain.OrderItem{
			ID:        itemID,
			OrderID:   id,
			Position:  i,
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Features:  domain.StringList(it.Features),
			Documents: make(domain.OrderDocuments, len(it.Documents)),
		}
		for j, doc := range it.Documents {
			item.Documents[j] = domain.OrderDocument(doc)
		}
		o.Items[i] = item
	}
	return o, nil
}

func toUploadDoc(r *domain.UploadRecord) uploadDoc {
	return uploadDoc{
		ID:          r.ID.String(),
		OrderID:     r.OrderID.String(),
		ItemID:      r.ItemID.String(),
		Document:    r.Document,
		Status:      string(r.Status),
		ObjectKey:   r.ObjectKey,
		URL:         r.URL,
		FileName:    r.FileName,
		ContentType: r.ContentType,
		FileSize:    r.FileSize,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (d *uploadDoc) toDomain() (*domain.UploadRecord, error) {
	var ids [3]uuid.UUID
	for i, s := range []string{d.ID, d.OrderID, d.ItemID} {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return &domain.UploadRecord{
		ID:          ids[0],
		OrderID:     ids[1],
		ItemID:      ids[2],
		Document:    d.Document,
		Status:      domain.UploadStatus(d.Status),
		ObjectKey:   d.ObjectKey,
		URL:         d.URL,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		FileSize:    d.FileSize,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:           u.ID.String(),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d *userDoc) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           id,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FullName:     d.FullName,
		Role:         domain.UserRole(d.Role),
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}
