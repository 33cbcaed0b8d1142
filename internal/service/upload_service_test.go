package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"juridico/internal/catalog"
	"juridico/internal/config"
	"juridico/internal/domain"
	"juridico/internal/metrics"
	"juridico/internal/port"
	"juridico/internal/resilience"
	"juridico/internal/service"
	"juridico/mocks"
)

const (
	docID       = "RG e CPF"
	docContract = "Contrato social"
)

type uploadFixture struct {
	orders   *mocks.MockOrderRepo
	uploads  *mocks.MockUploadRepo
	storage  *mocks.MockObjectStorage
	notifier *mocks.MockNotifier
	svc      service.UploadService
}

func newUploadFixture() *uploadFixture {
	f := &uploadFixture{
		orders:   new(mocks.MockOrderRepo),
		uploads:  new(mocks.MockUploadRepo),
		storage:  new(mocks.MockObjectStorage),
		notifier: new(mocks.MockNotifier),
	}
	executor := resilience.NewExecutor(resilience.Policy{
		RetryMaxAttempts:    1,
		RetryInitialBackoff: time.Millisecond,
		BreakerEnabled:      false,
	}, zap.NewNop())
	f.svc = service.NewUploadService(
		f.orders, f.uploads, f.storage, catalog.Default(), executor, f.notifier,
		metrics.New("test"), zap.NewNop(),
		config.UploadConfig{MaxFileSizeMB: 1},
		config.StorageConfig{PresignExpiry: 15 * time.Minute},
	)
	return f
}

func (f *uploadFixture) assertExpectations(t *testing.T) {
	f.orders.AssertExpectations(t)
	f.uploads.AssertExpectations(t)
	f.storage.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

// customOrder has one item whose requirements come from its features.
func customOrder(status domain.OrderStatus) *domain.Order {
	orderID := uuid.New()
	return &domain.Order{
		ID:     orderID,
		Status: status,
		Items: []domain.OrderItem{{
			ID:       uuid.New(),
			OrderID:  orderID,
			Title:    "Pacote personalizado",
			Quantity: 1,
			Features: domain.StringList{docID, docContract},
		}},
	}
}

func record(order *domain.Order, document string, uploaded bool) domain.UploadRecord {
	r := domain.UploadRecord{
		ID:       uuid.New(),
		OrderID:  order.ID,
		ItemID:   order.Items[0].ID,
		Document: document,
		Status:   domain.UploadStatusEmpty,
	}
	if uploaded {
		r.Status = domain.UploadStatusUploaded
		r.ObjectKey = "documents/old/" + document
		r.URL = "https://bucket.example/" + document
	}
	return r
}

// stored makes the upload repo report r as the currently recorded state.
func (f *uploadFixture) stored(r domain.UploadRecord) {
	f.uploads.On("Get", mock.Anything, r.OrderID, r.ItemID, r.Document).Return(&r, nil)
}

func createMultipartFile(filename string, content []byte, contentType string) (multipart.File, *multipart.FileHeader) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, _ := writer.CreatePart(h)
	_, _ = part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content) + 1024))
	file, _ := form.File["file"][0].Open()
	return file, form.File["file"][0]
}

func pdfContent() []byte {
	return []byte("%PDF-1.4 test content that is at least a few bytes long for detection purposes")
}

func pngContent() []byte {
	header := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return append(header, bytes.Repeat([]byte{0x00}, 100)...)
}

func uploadInput(order *domain.Order, document, filename string, content []byte) service.DocumentUploadInput {
	file, header := createMultipartFile(filename, content, "application/octet-stream")
	return service.DocumentUploadInput{
		OrderID:  order.ID,
		ItemID:   order.Items[0].ID,
		Document: document,
		File:     file,
		Header:   header,
	}
}

func TestUploadService_StartWorkflow(t *testing.T) {
	f := newUploadFixture()
	order := customOrder(domain.OrderStatusPendingPayment)

	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	f.uploads.On("EnsureEmpty", mock.Anything, mock.MatchedBy(func(rs []domain.UploadRecord) bool {
		return len(rs) == 2 &&
			rs[0].Document == docID && rs[1].Document == docContract &&
			rs[0].ItemID == order.Items[0].ID && rs[0].OrderID == order.ID
	})).Return(nil)

	err := f.svc.StartWorkflow(context.Background(), order.ID)

	assert.NoError(t, err)
	f.assertExpectations(t)
}

func TestUploadService_Upload_CompletesOrderAndNotifies(t *testing.T) {
	f := newUploadFixture()
	order := customOrder(domain.OrderStatusPendingPayment)
	records := []domain.UploadRecord{record(order, docID, true), record(order, docContract, false)}

	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	f.uploads.On("ListByOrder", mock.Anything, order.ID).Return(records, nil)
	f.uploads.On("Save", mock.Anything, mock.AnythingOfType("*domain.UploadRecord")).Return(nil).Twice()
	f.stored(records[1])
	f.storage.On("Put", mock.Anything, mock.MatchedBy(func(in port.ObjectInput) bool {
		return in.ContentType == "application/pdf" && in.Size == int64(len(pdfContent()))
	})).Return(&port.StoredObject{URL: "https://bucket.example/new.pdf"}, nil)
	f.notifier.On("NotifyDocumentsComplete", mock.Anything, order).Return(nil)

	rec, err := f.svc.Upload(context.Background(), uploadInput(order, docContract, "contrato.pdf", pdfContent()))

	require.NoError(t, err)
	assert.Equal(t, domain.UploadStatusUploaded, rec.Status)
	assert.Equal(t, "https://bucket.example/new.pdf", rec.URL)
	assert.Equal(t, "contrato.pdf", rec.FileName)
	assert.Contains(t, rec.ObjectKey, "documents/"+order.ID.String()+"/"+order.Items[0].ID.String()+"/contrato_social_")
	f.assertExpectations(t)
}

func TestUploadService_Upload_PartialDoesNotNotify(t *testing.T) {
	f := newUploadFixture()
	order := customOrder(domain.OrderStatusPendingPayment)
	records := []domain.UploadRecord{record(order, docID, false), record(order, docContract, false)}

	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	f.uploads.On("ListByOrder", mock.Anything, order.ID).Return(records, nil)
	f.uploads.On("Save", mock.Anything, mock.AnythingOfType("*domain.UploadRecord")).Return(nil)
	f.storage.On("Put", mock.Anything, mock.AnythingOfType("port.ObjectInput")).
		Return(&port.StoredObject{URL: "https://bucket.example/rg.png"}, nil)
	f.stored(records[0])

	rec, err := f.svc.Upload(context.Background(), uploadInput(order, docID, "rg.png", pngContent()))

	require.NoError(t, err)
	assert.Equal(t, "image/png", rec.ContentType)
	f.notifier.AssertNotCalled(t, "NotifyDocumentsComplete", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestUploadService_Upload_ReplaceDeletesPreviousObject(t *testing.T) {
	f := newUploadFixture()
	order := customOrder(domain.OrderStatusPending)
	records := []domain.UploadRecord{record(order, docID, true), record(order, docContract, true)}

	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	f.uploads.On("ListByOrder", mock.Anything, order.ID).Return(records, nil)
	f.uploads.On("Save", mock.Anything, mock.AnythingOfType("*domain.UploadRecord")).Return(nil)
	f.storage.On("Put", mock.Anything, mock.AnythingOfType("port.ObjectInput")).
		Return(&port.StoredObject{URL: "https://bucket.example/v2.pdf"}, nil)
	f.storage.On("Delete", mock.Anything, "documents/old/"+docID).Return(nil)
	f.stored(records[0])

	rec, err := f.svc.Upload(context.Background(), uploadInput(order, docID, "rg-v2.pdf", pdfContent()))

	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example/v2.pdf", rec.URL)
	f.notifier.AssertNotCalled(t, "NotifyDocumentsComplete", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestUploadService_Upload_StorageFailureResetsRecord(t *testing.T) {
	f := newUploadFixture()
	order := customOrder(domain.OrderStatusPendingPayment)
	records := []domain.UploadRecord{record(order, docID, false), record(order, docContract, false)}

	var statuses []domain.UploadStatus
	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	f.uploads.On("ListByOrder", mock.Anything, order.ID).Return(records, nil)
	f.uploads.On("Save", mock.Anything, mock.AnythingOfType("*domain.UploadRecord")).
		Run(func(args mock.Arguments) {
			rec := args.Get(1).(*domain.UploadRecord)
			statuses = append(statuses, rec.Status)
			if rec.Status == domain.UploadStatusFailed {
				assert.Empty(t, rec.URL)
				assert.Empty(t, rec.ObjectKey)
			}
		}).Return(nil)
	f.storage.On("Put", mock.Anything, mock.AnythingOfType("port.ObjectInput")).
		Return(nil, errors.New("connection reset"))
	f.stored(records[0])

	rec, err := f.svc.Upload(context.Background(), uploadInput(order, docID, "rg.pdf", pdfContent()))

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.Equal(t, []domain.UploadStatus{domain.UploadStatusUploading, domain.UploadStatusFailed}, statuses)
	f.assertExpectations(t)
}

func TestUploadService_Upload_FailedReplacementKeepsStoredDocument(t *testing.T) {
	f := newUploadFixture()
	order := customOrder(domain.OrderStatusPending)
	records := []domain.UploadRecord{record(order, docID, true), record(order, docContract, true)}
	inFlight := records[0]
	inFlight.Status = domain.UploadStatusUploading

	var saved []domain.UploadRecord
	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	f.uploads.On("ListByOrder", mock.Anything, order.ID).Return(records, nil)
	f.uploads.On("Save", mock.Anything, mock.AnythingOfType("*domain.UploadRecord")).
		Run(func(args mock.Arguments) {
			saved = append(saved, *args.Get(1).(*domain.UploadRecord))
		}).Return(nil)
	f.storage.On("Put", mock.Anything, mock.AnythingOfType("port.ObjectInput")).
		Return(nil, errors.New("connection reset"))
	f.stored(inFlight)

	_, err := f.svc.Upload(context.Background(), uploadInput(order, docID, "rg-v2.pdf", pdfContent()))

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	require.Len(t, saved, 2)
	last := saved[1]
	assert.Equal(t, domain.UploadStatusUploaded, last.Status)
	assert.Equal(t, "documents/old/"+docID, last.ObjectKey)
	assert.Equal(t, "https://bucket.example/"+docID, last.URL)
	assert.True(t, last.Uploaded())
	f.storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestUploadService_Upload_DeletesKeyStoredByConcurrentUpload(t *testing.T) {
	f := newUploadFixture()
	order := customOrder(domain.OrderStatusPending)
	records := []domain.UploadRecord{record(order, docID, false), record(order, docContract, true)}
	winner := records[0]
	winner.Status = domain.UploadStatusUploaded
	winner.ObjectKey = "documents/concurrent/" + docID
	winner.URL = "https://bucket.example/concurrent"

	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	f.uploads.On("ListByOrder", mock.Anything, order.ID).Return(records, nil)
	f.uploads.On("Save", mock.Anything, mock.AnythingOfType("*domain.UploadRecord")).Return(nil)
	f.storage.On("Put", mock.Anything, mock.AnythingOfType("port.ObjectInput")).
		Return(&port.StoredObject{URL: "https://bucket.example/mine.pdf"}, nil)
	f.stored(winner)
	f.storage.On("Delete", mock.Anything, winner.ObjectKey).Return(nil)
	f.notifier.On("NotifyDocumentsComplete", mock.Anything, order).Return(nil)

	rec, err := f.svc.Upload(context.Background(), uploadInput(order, docID, "rg.pdf", pdfContent()))

	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example/mine.pdf", rec.URL)
	f.assertExpectations(t)
}

func TestUploadService_Upload_Rejections(t *testing.T) {
	big := append(pdfContent(), bytes.Repeat([]byte{'a'}, 1024*1024)...)

	tests := []struct {
		name     string
		status   domain.OrderStatus
		document string
		filename string
		content  []byte
		itemID   *uuid.UUID
		wantErr  error
	}{
		{"unsupported extension", domain.OrderStatusPendingPayment, docID, "notes.txt", []byte("hello"), nil, domain.ErrUnsupportedFileType},
		{"content does not match extension", domain.OrderStatusPendingPayment, docID, "fake.pdf", []byte("just some plain text"), nil, domain.ErrUnsupportedFileType},
		{"too large", domain.OrderStatusPendingPayment, docID, "big.pdf", big, nil, domain.ErrFileTooLarge},
		{"document not required", domain.OrderStatusPendingPayment, "Certidão de casamento", "c.pdf", pdfContent(), nil, domain.ErrDocumentNotRequired},
		{"order not editable", domain.OrderStatusProcessing, docID, "rg.pdf", pdfContent(), nil, domain.ErrOrderNotEditable},
		{"unknown item", domain.OrderStatusPendingPayment, docID, "rg.pdf", pdfContent(), new(uuid.UUID), domain.ErrItemNotInOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUploadFixture()
			order := customOrder(tt.status)
			f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)

			input := uploadInput(order, tt.document, tt.filename, tt.content)
			if tt.itemID != nil {
				input.ItemID = *tt.itemID
			}
			rec, err := f.svc.Upload(context.Background(), input)

			assert.Nil(t, rec)
			assert.ErrorIs(t, err, tt.wantErr)
			f.uploads.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			f.storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
		})
	}
}

func TestUploadService_Upload_OrderNotFound(t *testing.T) {
	f := newUploadFixture()
	order := customOrder(domain.OrderStatusPendingPayment)
	f.orders.On("GetByID", mock.Anything, order.ID).Return(nil, domain.ErrNotFound)

	_, err := f.svc.Upload(context.Background(), uploadInput(order, docID, "rg.pdf", pdfContent()))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUploadService_Remove(t *testing.T) {
	f := newUploadFixture()
	order := customOrder(domain.OrderStatusPendingPayment)
	existing := record(order, docID, true)

	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	f.uploads.On("Get", mock.Anything, order.ID, order.Items[0].ID, docID).Return(&existing, nil)
	f.storage.On("Delete", mock.Anything, "documents/old/"+docID).Return(nil)
	f.uploads.On("Save", mock.Anything, mock.MatchedBy(func(r *domain.UploadRecord) bool {
		return r.Status == domain.UploadStatusEmpty && r.URL == "" && r.ObjectKey == ""
	})).Return(nil)

	rec, err := f.svc.Remove(context.Background(), order.ID, order.Items[0].ID, docID)

	require.NoError(t, err)
	assert.False(t, rec.Uploaded())
	f.assertExpectations(t)
}

func TestUploadService_Remove_StorageErrorIsBestEffort(t *testing.T) {
	f := newUploadFixture()
	order := customOrder(domain.OrderStatusPendingPayment)
	existing := record(order, docID, true)

	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	f.uploads.On("Get", mock.Anything, order.ID, order.Items[0].ID, docID).Return(&existing, nil)
	f.storage.On("Delete", mock.Anything, mock.Anything).Return(errors.New("timeout"))
	f.uploads.On("Save", mock.Anything, mock.AnythingOfType("*domain.UploadRecord")).Return(nil)

	_, err := f.svc.Remove(context.Background(), order.ID, order.Items[0].ID, docID)

	assert.NoError(t, err)
}

func TestUploadService_Progress(t *testing.T) {
	f := newUploadFixture()
	order := customOrder(domain.OrderStatusPendingPayment)
	records := []domain.UploadRecord{record(order, docID, true), record(order, docContract, false)}

	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	f.uploads.On("ListByOrder", mock.Anything, order.ID).Return(records, nil)

	p, err := f.svc.Progress(context.Background(), order.ID)

	require.NoError(t, err)
	assert.False(t, p.Complete)
	assert.Equal(t, 0, p.CompletedItems)
	assert.Equal(t, 1, p.TotalItems)
	require.Len(t, p.Items, 1)
	assert.Equal(t, []string{docID, docContract}, p.Items[0].Required)
	assert.Equal(t, []string{docID}, p.Items[0].Uploaded)
	assert.Empty(t, p.Items[0].TemplateID)
}

func TestUploadService_DownloadURL(t *testing.T) {
	f := newUploadFixture()
	order := customOrder(domain.OrderStatusPending)
	uploaded := record(order, docID, true)
	empty := record(order, docContract, false)

	f.uploads.On("Get", mock.Anything, order.ID, order.Items[0].ID, docID).Return(&uploaded, nil)
	f.uploads.On("Get", mock.Anything, order.ID, order.Items[0].ID, docContract).Return(&empty, nil)
	f.storage.On("SignedURL", mock.Anything, uploaded.ObjectKey, 15*time.Minute).Return("https://signed", nil)

	url, err := f.svc.DownloadURL(context.Background(), order.ID, order.Items[0].ID, docID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)

	_, err = f.svc.DownloadURL(context.Background(), order.ID, order.Items[0].ID, docContract)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestObjectKey(t *testing.T) {
	orderID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	itemID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	key := service.ObjectKey(orderID, itemID, "RG e CPF", "my file (1).pdf", time.UnixMilli(1700000000000))

	assert.Equal(t,
		"documents/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222/rg_e_cpf_1700000000000_my_file__1_.pdf",
		key)
}

func TestObjectKey_StripsDirectories(t *testing.T) {
	key := service.ObjectKey(uuid.Nil, uuid.Nil, "!!!", "../../etc/passwd", time.UnixMilli(1))
	assert.Equal(t, "documents/"+uuid.Nil.String()+"/"+uuid.Nil.String()+"/documento_1_passwd", key)
}
