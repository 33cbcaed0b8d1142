package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"juridico/internal/config"
	"juridico/internal/domain"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sesv2.SendEmailOutput{}, f.err
}

func testConfig() *config.EmailConfig {
	return &config.EmailConfig{
		FromAddress:   "noreply@juridico.local",
		FromName:      "Jurídico",
		NotifyTo:      "backoffice@juridico.local",
		BackofficeURL: "https://admin.juridico.local/",
	}
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:            uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e"),
		CustomerName:  "Ana <Souza>",
		CustomerEmail: "ana@example.com",
		Status:        domain.OrderStatusProcessing,
		Items:         []domain.OrderItem{{Title: "Inclusão de Novo Sócio"}},
	}
}

func TestNotifyDocumentsComplete(t *testing.T) {
	fake := &fakeSES{}
	n := newNotifier(fake, testConfig())

	require.NoError(t, n.NotifyDocumentsComplete(context.Background(), testOrder()))
	require.Len(t, fake.inputs, 1)

	in := fake.inputs[0]
	assert.Equal(t, []string{"backoffice@juridico.local"}, in.Destination.ToAddresses)
	assert.Equal(t, "Jurídico <noreply@juridico.local>", *in.FromEmailAddress)
	assert.Contains(t, *in.Content.Simple.Subject.Data, "0F8FAD5B")
	body := *in.Content.Simple.Body.Html.Data
	assert.Contains(t, body, "https://admin.juridico.local/orders/0f8fad5b-d9cb-469f-a165-70867728950e")
	assert.Contains(t, body, "Ana &lt;Souza&gt;")
	assert.Contains(t, body, "Inclusão de Novo Sócio")
}

func TestNotifyDocumentsComplete_NoRecipient(t *testing.T) {
	fake := &fakeSES{}
	cfg := testConfig()
	cfg.NotifyTo = ""

	require.NoError(t, newNotifier(fake, cfg).NotifyDocumentsComplete(context.Background(), testOrder()))
	assert.Empty(t, fake.inputs)
}

func TestNotifyStatusChanged(t *testing.T) {
	fake := &fakeSES{}
	n := newNotifier(fake, testConfig())

	require.NoError(t, n.NotifyStatusChanged(context.Background(), testOrder(), domain.OrderStatusPending))
	require.Len(t, fake.inputs, 1)
	assert.Equal(t, []string{"ana@example.com"}, fake.inputs[0].Destination.ToAddresses)
	assert.Contains(t, *fake.inputs[0].Content.Simple.Body.Text.Data, "de Pendente para Em andamento")
}

func TestNotify_WrapsSendError(t *testing.T) {
	fake := &fakeSES{err: errors.New("throttled")}
	err := newNotifier(fake, testConfig()).NotifyStatusChanged(context.Background(), testOrder(), domain.OrderStatusPending)
	assert.ErrorContains(t, err, "throttled")
}
