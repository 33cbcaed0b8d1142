package domain

import (
	"time"

	"github.com/google/uuid"

	"juridico/internal/catalog"
)

// User represents a back-office operator or a storefront customer.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Order is a checkout of one or more legal services.
type Order struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	UserID        *uuid.UUID    `db:"user_id" json:"user_id,omitempty"`
	CustomerName  string        `db:"customer_name" json:"customer_name"`
	CustomerEmail string        `db:"customer_email" json:"customer_email"`
	CustomerPhone string        `db:"customer_phone" json:"customer_phone"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"payment_method"`
	Status        OrderStatus   `db:"status" json:"status"`
	Total         float64       `db:"total" json:"total"`
	Items         []OrderItem   `db:"-" json:"items"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// OrderItem is one service line of an order.
type OrderItem struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	OrderID   uuid.UUID      `db:"order_id" json:"order_id"`
	Position  int            `db:"position" json:"position"`
	ProductID string         `db:"product_id" json:"product_id"`
	Title     string         `db:"title" json:"title"`
	Price     float64        `db:"price" json:"price"`
	Quantity  int            `db:"quantity" json:"quantity"`
	Features  StringList     `db:"features" json:"features,omitempty"`
	Documents OrderDocuments `db:"documents" json:"documents"`
}

// CatalogItem adapts the line to the resolver's view of an item.
func (i OrderItem) CatalogItem() catalog.Item {
	return catalog.Item{ID: i.ID.String(), Title: i.Title, Features: i.Features}
}

// CatalogItems adapts every line of the order.
func (o *Order) CatalogItems() []catalog.Item {
	items := make([]catalog.Item, len(o.Items))
	for i := range o.Items {
		items[i] = o.Items[i].CatalogItem()
	}
	return items
}

// Item returns the line with the given ID.
func (o *Order) Item(itemID uuid.UUID) (*OrderItem, bool) {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i], true
		}
	}
	return nil, false
}

// OrderDocument is the persisted record of a delivered document.
type OrderDocument struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// UploadRecord tracks one required document of one order item.
type UploadRecord struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	OrderID     uuid.UUID    `db:"order_id" json:"order_id"`
	ItemID      uuid.UUID    `db:"item_id" json:"item_id"`
	Document    string       `db:"document" json:"document"`
	Status      UploadStatus `db:"status" json:"status"`
	ObjectKey   string       `db:"object_key" json:"-"`
	URL         string       `db:"url" json:"url,omitempty"`
	FileName    string       `db:"file_name" json:"file_name,omitempty"`
	ContentType string       `db:"content_type" json:"content_type,omitempty"`
	FileSize    int64        `db:"file_size" json:"file_size,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// Uploaded reports whether the document reached durable storage.
func (r *UploadRecord) Uploaded() bool {
	return r.Status == UploadStatusUploaded && r.URL != ""
}

// Reset returns the record to the empty state.
func (r *UploadRecord) Reset() {
	r.Status = UploadStatusEmpty
	r.ObjectKey = ""
	r.URL = ""
	r.FileName = ""
	r.ContentType = ""
	r.FileSize = 0
}

// UploadStateOf converts upload records into the resolver's read-only state.
func UploadStateOf(records []UploadRecord) catalog.UploadState {
	state := make(catalog.UploadState, len(records))
	for i := range records {
		r := &records[i]
		state[catalog.UploadKey{ItemID: r.ItemID.String(), Document: r.Document}] = catalog.UploadStatus{
			Uploaded: r.Uploaded(),
			URL:      r.URL,
		}
	}
	return state
}

// SalesSummary aggregates orders for the back-office sales panel.
type SalesSummary struct {
	TotalOrders      int                 `json:"total_orders"`
	DeliveredCount   int                 `json:"delivered_count"`
	DeliveredRevenue float64             `json:"delivered_revenue"`
	PendingRevenue   float64             `json:"pending_revenue"`
	AverageTicket    float64             `json:"average_ticket"`
	ByStatus         map[OrderStatus]int `json:"by_status"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status *OrderStatus
	UserID *uuid.UUID
}

// AverageTicket is delivered revenue per delivered order, 0 when none.
func AverageTicket(deliveredRevenue float64, deliveredCount int) float64 {
	if deliveredCount == 0 {
		return 0
	}
	return deliveredRevenue / float64(deliveredCount)
}

// Summarize aggregates orders in memory. Backends without SQL aggregation use it.
func Summarize(orders []Order) *SalesSummary {
	s := &SalesSummary{
		TotalOrders: len(orders),
		ByStatus:    make(map[OrderStatus]int),
	}
	for i := range orders {
		o := &orders[i]
		s.ByStatus[o.Status]++
		switch {
		case o.Status.IsDelivered():
			s.DeliveredCount++
			s.DeliveredRevenue += o.Total
		case o.Status.IsOpen():
			s.PendingRevenue += o.Total
		}
	}
	s.AverageTicket = AverageTicket(s.DeliveredRevenue, s.DeliveredCount)
	return s
}
