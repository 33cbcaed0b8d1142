package service

import (
	"context"
	"fmt"
	"io"

	"juridico/internal/csvexport"
	"juridico/internal/domain"
	"juridico/internal/port"
	"juridico/internal/xlsxexport"
)

// SalesService provides the back-office sales panel and its exports.
type SalesService interface {
	Summary(ctx context.Context) (*domain.SalesSummary, error)
	ExportCSV(ctx context.Context, w io.Writer) error
	ExportXLSX(ctx context.Context, w io.Writer) error
}

type salesService struct {
	salesRepo port.SalesRepository
	orderRepo port.OrderRepository
}

// NewSalesService creates a new SalesService implementation.
func NewSalesService(salesRepo port.SalesRepository, orderRepo port.OrderRepository) SalesService {
	return &salesService{salesRepo: salesRepo, orderRepo: orderRepo}
}

func (s *salesService) Summary(ctx context.Context) (*domain.SalesSummary, error) {
	return s.salesRepo.Summary(ctx)
}

func (s *salesService) ExportCSV(ctx context.Context, w io.Writer) error {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("loading orders: %w", err)
	}

	if _, err := w.Write(csvexport.BOM); err != nil {
		return err
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteOrders(orders); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (s *salesService) ExportXLSX(ctx context.Context, w io.Writer) error {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("loading orders: %w", err)
	}
	return xlsxexport.Write(w, orders, domain.Summarize(orders))
}
