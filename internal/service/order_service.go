package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"juridico/internal/catalog"
	"juridico/internal/domain"
	"juridico/internal/metrics"
	"juridico/internal/port"
)

// CartItem is one line of the checkout cart.
type CartItem struct {
	ProductID string   `json:"product_id"`
	Title     string   `json:"title" binding:"required"`
	Price     float64  `json:"price" binding:"gte=0"`
	Quantity  int      `json:"quantity" binding:"required"`
	Features  []string `json:"features"`
}

// CreateOrderInput is the DTO for order creation.
type CreateOrderInput struct {
	UserID        *uuid.UUID           `json:"-"`
	CustomerName  string               `json:"customer_name" binding:"required"`
	CustomerEmail string               `json:"customer_email" binding:"required,email"`
	CustomerPhone string               `json:"customer_phone"`
	PaymentMethod domain.PaymentMethod `json:"payment_method" binding:"required"`
	Items         []CartItem           `json:"items"`
}

// OrderDetails is the back-office view of one order.
type OrderDetails struct {
	Order    *domain.Order         `json:"order"`
	Progress *OrderProgress        `json:"progress"`
	Uploads  []domain.UploadRecord `json:"uploads"`
}

// OrderService defines the order lifecycle contract.
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	Checkout(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, int, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	Details(ctx context.Context, orderID uuid.UUID) (*OrderDetails, error)
}

type orderService struct {
	orderRepo  port.OrderRepository
	uploadRepo port.UploadRepository
	uploads    UploadService
	catalog    *catalog.Catalog
	notifier   port.Notifier
	metrics    *metrics.Registry
	log        *zap.Logger
}

// NewOrderService creates a new OrderService implementation.
func NewOrderService(
	orderRepo port.OrderRepository,
	uploadRepo port.UploadRepository,
	uploads UploadService,
	cat *catalog.Catalog,
	notifier port.Notifier,
	m *metrics.Registry,
	log *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		uploadRepo: uploadRepo,
		uploads:    uploads,
		catalog:    cat,
		notifier:   notifier,
		metrics:    m,
		log:        log.Named("orders"),
	}
}

func (s *orderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if !input.PaymentMethod.IsValid() {
		return nil, domain.ErrInvalidPaymentMethod
	}

	order := &domain.Order{
		ID:            uuid.New(),
		UserID:        input.UserID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: normalizeEmail(input.CustomerEmail),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		PaymentMethod: input.PaymentMethod,
		Status:        domain.OrderStatusPendingPayment,
		Items:         make([]domain.OrderItem, len(input.Items)),
	}
	for i, ci := range input.Items {
		if ci.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		order.Items[i] = domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Position:  i,
			ProductID: ci.ProductID,
			Title:     ci.Title,
			Price:     ci.Price,
			Quantity:  ci.Quantity,
			Features:  domain.StringList(ci.Features),
		}
		order.Total += ci.Price * float64(ci.Quantity)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}
	s.metrics.RecordOrderCreated(string(order.PaymentMethod))
	for _, item := range order.CatalogItems() {
		_, src := s.catalog.Requirements(item)
		s.metrics.RecordResolution(string(src))
	}
	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total),
	)

	// Records are also created on first upload, so a failure here only loses
	// the pre-populated empty checklist.
	if err := s.uploads.StartWorkflow(ctx, order.ID); err != nil {
		s.log.Warn("starting upload workflow", zap.String("order_id", order.ID.String()), zap.Error(err))
	}
	return order, nil
}

func (s *orderService) Checkout(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPendingPayment {
		return nil, domain.ErrInvalidStatus
	}

	records, err := s.uploadRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("loading upload records: %w", err)
	}
	state := domain.UploadStateOf(records)
	if !s.catalog.IsOrderComplete(order.CatalogItems(), state) {
		return nil, domain.ErrDocumentsIncomplete
	}

	docs := make(map[uuid.UUID]domain.OrderDocuments, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		var itemDocs domain.OrderDocuments
		for _, name := range s.catalog.RequiredDocuments(item.CatalogItem()) {
			rec := findRecord(records, item.ID, name)
			if rec == nil {
				return nil, domain.ErrDocumentsIncomplete
			}
			itemDocs = append(itemDocs, domain.OrderDocument{Name: name, URL: rec.URL, UploadedAt: rec.UpdatedAt})
		}
		docs[item.ID] = itemDocs
		item.Documents = itemDocs
	}

	if err := s.orderRepo.SaveItemDocuments(ctx, orderID, docs); err != nil {
		return nil, fmt.Errorf("saving order documents: %w", err)
	}
	return s.transition(ctx, order, domain.OrderStatusPending)
}

func (s *orderService) Get(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.GetByID(ctx, orderID)
}

func (s *orderService) List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, int, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, domain.ErrInvalidStatus
	}
	return s.orderRepo.List(ctx, filter, offset, limit)
}

func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Order, int, error) {
	return s.orderRepo.List(ctx, domain.OrderFilter{UserID: &userID}, offset, limit)
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	return s.transition(ctx, order, status)
}

func (s *orderService) Details(ctx context.Context, orderID uuid.UUID) (*OrderDetails, error) {
	var (
		order   *domain.Order
		records []domain.UploadRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		order, err = s.orderRepo.GetByID(gctx, orderID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.uploadRepo.ListByOrder(gctx, orderID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &OrderDetails{
		Order:    order,
		Progress: BuildProgress(s.catalog, order, domain.UploadStateOf(records)),
		Uploads:  records,
	}, nil
}

func (s *orderService) transition(ctx context.Context, order *domain.Order, status domain.OrderStatus) (*domain.Order, error) {
	previous := order.Status
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, err
	}
	order.Status = status
	s.log.Info("order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)
	if err := s.notifier.NotifyStatusChanged(ctx, order, previous); err != nil {
		s.log.Warn("notifying status change", zap.String("order_id", order.ID.String()), zap.Error(err))
	}
	return order, nil
}
