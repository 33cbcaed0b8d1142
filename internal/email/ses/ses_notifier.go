package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"juridico/internal/config"
	"juridico/internal/domain"
	"juridico/internal/port"
)

// emailAPI is the subset of the SES client the notifier calls.
type emailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesNotifier struct {
	client        emailAPI
	fromAddress   string
	fromName      string
	notifyTo      string
	backofficeURL string
}

// NewSESNotifier creates a new SES-backed Notifier.
func NewSESNotifier(ctx context.Context, cfg *config.EmailConfig) (port.Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return newNotifier(sesv2.NewFromConfig(awsCfg), cfg), nil
}

func newNotifier(client emailAPI, cfg *config.EmailConfig) *sesNotifier {
	return &sesNotifier{
		client:        client,
		fromAddress:   cfg.FromAddress,
		fromName:      cfg.FromName,
		notifyTo:      cfg.NotifyTo,
		backofficeURL: strings.TrimRight(cfg.BackofficeURL, "/"),
	}
}

// NotifyDocumentsComplete tells the back office that an order has every
// required document and can be reviewed.
func (s *sesNotifier) NotifyDocumentsComplete(ctx context.Context, order *domain.Order) error {
	if s.notifyTo == "" {
		return nil
	}
	orderURL := fmt.Sprintf("%s/orders/%s", s.backofficeURL, order.ID)
	subject := fmt.Sprintf("Pedido %s: documentação completa", shortID(order))

	var lines []string
	for _, item := range order.Items {
		lines = append(lines, "- "+item.Title)
	}
	textBody := fmt.Sprintf("O cliente %s enviou todos os documentos do pedido %s.\n\nServiços:\n%s\n\nAbrir no painel: %s\n",
		order.CustomerName, order.ID, strings.Join(lines, "\n"), orderURL)
	htmlBody := buildDocumentsCompleteHTML(order, orderURL)

	return s.send(ctx, s.notifyTo, subject, htmlBody, textBody)
}

// NotifyStatusChanged tells the customer their order moved to a new status.
func (s *sesNotifier) NotifyStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) error {
	if order.CustomerEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("Seu pedido %s foi atualizado", shortID(order))
	textBody := fmt.Sprintf("Olá %s,\n\nO status do seu pedido mudou de %s para %s.\n\nEquipe Jurídico\n",
		order.CustomerName, statusLabel(previous), statusLabel(order.Status))
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Pedido atualizado</h2>
  <p>Olá %s,</p>
  <p>O status do seu pedido mudou de <strong>%s</strong> para <strong>%s</strong>.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Equipe Jurídico</p>
</body>
</html>`, html.EscapeString(order.CustomerName), statusLabel(previous), statusLabel(order.Status))

	return s.send(ctx, order.CustomerEmail, subject, htmlBody, textBody)
}

func (s *sesNotifier) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildDocumentsCompleteHTML(order *domain.Order, orderURL string) string {
	var items strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&items, "    <li>%s</li>\n", html.EscapeString(item.Title))
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Documentação completa</h2>
  <p>O cliente %s (%s) enviou todos os documentos exigidos.</p>
  <ul>
%s  </ul>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #1E3A8A; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Abrir pedido</a>
  </p>
</body>
</html>`, html.EscapeString(order.CustomerName), html.EscapeString(order.CustomerEmail), items.String(), orderURL)
}

func shortID(order *domain.Order) string {
	return strings.ToUpper(order.ID.String()[:8])
}

var statusLabels = map[domain.OrderStatus]string{
	domain.OrderStatusPendingPayment: "Aguardando pagamento",
	domain.OrderStatusPending:        "Pendente",
	domain.OrderStatusProcessing:     "Em andamento",
	domain.OrderStatusShipped:        "Enviado",
	domain.OrderStatusDelivered:      "Entregue",
	domain.OrderStatusFinalized:      "Finalizado",
	domain.OrderStatusCancelled:      "Cancelado",
}

func statusLabel(s domain.OrderStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}
