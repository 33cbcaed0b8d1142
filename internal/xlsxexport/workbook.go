// Package xlsxexport renders the back-office sales workbook.
package xlsxexport

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"juridico/internal/csvexport"
	"juridico/internal/domain"
)

const (
	OrdersSheet  = "Pedidos"
	SummarySheet = "Resumo"
)

// Write renders orders and their summary as an .xlsx workbook into w.
func Write(w io.Writer, orders []domain.Order, summary *domain.SalesSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OrdersSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	if err := writeOrders(f, orders); err != nil {
		return err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("xlsx: new sheet: %w", err)
	}
	if err := writeSummary(f, summary); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func writeOrders(f *excelize.File, orders []domain.Order) error {
	if err := setRow(f, OrdersSheet, 1, toAny(csvexport.Columns)); err != nil {
		return err
	}
	for i := range orders {
		row := toAny(csvexport.OrderRow(&orders[i]))
		row[csvexport.TotalColumn] = orders[i].Total
		if err := setRow(f, OrdersSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(OrdersSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("xlsx: freeze header: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, s *domain.SalesSummary) error {
	rows := [][]any{
		{"Indicador", "Valor"},
		{"Total de pedidos", s.TotalOrders},
		{"Pedidos entregues", s.DeliveredCount},
		{"Receita entregue", s.DeliveredRevenue},
		{"Receita pendente", s.PendingRevenue},
		{"Ticket médio", s.AverageTicket},
		{},
		{"Status", "Pedidos"},
	}

	statuses := make([]string, 0, len(s.ByStatus))
	for st := range s.ByStatus {
		statuses = append(statuses, string(st))
	}
	sort.Strings(statuses)
	for _, st := range statuses {
		rows = append(rows, []any{st, s.ByStatus[domain.OrderStatus(st)]})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
