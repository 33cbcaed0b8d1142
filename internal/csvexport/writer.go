package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"juridico/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns defines the order export header row.
var Columns = []string{
	"Pedido",
	"Cliente",
	"E-mail",
	"Telefone",
	"Pagamento",
	"Status",
	"Serviços",
	"Quantidade",
	"Total",
	"Documentos",
	"Criado em",
	"Atualizado em",
}

// TotalColumn is the index of the numeric total column.
const TotalColumn = 8

// Writer wraps csv.Writer for exporting orders as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns)
}

// WriteOrders converts a batch of orders to CSV rows and writes them.
func (w *Writer) WriteOrders(orders []domain.Order) error {
	for i := range orders {
		if err := w.csv.Write(OrderRow(&orders[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// OrderRow converts one order to a row matching Columns.
func OrderRow(o *domain.Order) []string {
	row := make([]string, len(Columns))

	titles := make([]string, len(o.Items))
	quantity := 0
	documents := 0
	for i, item := range o.Items {
		titles[i] = item.Title
		quantity += item.Quantity
		documents += len(item.Documents)
	}

	row[0] = o.ID.String()
	row[1] = o.CustomerName
	row[2] = o.CustomerEmail
	row[3] = o.CustomerPhone
	row[4] = string(o.PaymentMethod)
	row[5] = string(o.Status)
	row[6] = strings.Join(titles, "; ")
	row[7] = strconv.Itoa(quantity)
	row[TotalColumn] = FormatMoney(o.Total)
	row[9] = strconv.Itoa(documents)
	row[10] = o.CreatedAt.Format(time.RFC3339)
	row[11] = o.UpdatedAt.Format(time.RFC3339)
	return row
}

// FormatMoney renders v with two decimals.
func FormatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), now.Format("2006-01-02"), ext)
}
