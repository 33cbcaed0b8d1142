package noop

import (
	"context"

	"go.uber.org/zap"

	"juridico/internal/domain"
	"juridico/internal/port"
)

type noopNotifier struct {
	log *zap.Logger
}

// NewNoopNotifier creates a Notifier that only logs what it would send.
func NewNoopNotifier(log *zap.Logger) port.Notifier {
	return &noopNotifier{log: log}
}

func (n *noopNotifier) NotifyDocumentsComplete(_ context.Context, order *domain.Order) error {
	n.log.Info("noop notifier: documents complete",
		zap.String("order_id", order.ID.String()),
		zap.String("customer", order.CustomerEmail),
		zap.Int("items", len(order.Items)),
	)
	return nil
}

func (n *noopNotifier) NotifyStatusChanged(_ context.Context, order *domain.Order, previous domain.OrderStatus) error {
	n.log.Info("noop notifier: status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(order.Status)),
	)
	return nil
}
