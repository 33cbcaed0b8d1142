package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"juridico/internal/catalog"
	"juridico/internal/config"
	"juridico/internal/domain"
	"juridico/internal/handler"
	"juridico/internal/metrics"
	"juridico/internal/port"
	"juridico/internal/resilience"
	"juridico/internal/service"
	"juridico/mocks"
)

const paddedFeature = " Contrato social "

// uploadFlow wires a real UploadService behind the handler so document names
// travel the whole path from form field to required-document check.
type uploadFlow struct {
	orders  *mocks.MockOrderRepo
	uploads *mocks.MockUploadRepo
	storage *mocks.MockObjectStorage
	order   *domain.Order
	h       *handler.UploadHandler
}

func newUploadFlow() *uploadFlow {
	orderID := uuid.New()
	f := &uploadFlow{
		orders:  new(mocks.MockOrderRepo),
		uploads: new(mocks.MockUploadRepo),
		storage: new(mocks.MockObjectStorage),
		order: &domain.Order{
			ID:     orderID,
			Status: domain.OrderStatusPendingPayment,
			Items: []domain.OrderItem{{
				ID:       uuid.New(),
				OrderID:  orderID,
				Title:    "Pacote sob medida",
				Quantity: 1,
				Features: domain.StringList{paddedFeature},
			}},
		},
	}
	notifier := new(mocks.MockNotifier)
	notifier.On("NotifyDocumentsComplete", mock.Anything, mock.Anything).Return(nil)
	executor := resilience.NewExecutor(resilience.Policy{RetryMaxAttempts: 1, RetryInitialBackoff: time.Millisecond}, zap.NewNop())

	svc := service.NewUploadService(f.orders, f.uploads, f.storage, catalog.Default(), executor, notifier,
		metrics.New("test"), zap.NewNop(), config.UploadConfig{MaxFileSizeMB: 1}, config.StorageConfig{PresignExpiry: time.Minute})
	f.h = handler.NewUploadHandler(svc)
	f.orders.On("GetByID", mock.Anything, orderID).Return(f.order, nil)
	return f
}

func (f *uploadFlow) itemID() uuid.UUID { return f.order.Items[0].ID }

func TestUploadFlow_PaddedFeatureNameUploads(t *testing.T) {
	f := newUploadFlow()
	f.uploads.On("ListByOrder", mock.Anything, f.order.ID).Return([]domain.UploadRecord{}, nil)
	f.uploads.On("Save", mock.Anything, mock.MatchedBy(func(r *domain.UploadRecord) bool {
		return r.Document == paddedFeature
	})).Return(nil)
	f.uploads.On("Get", mock.Anything, f.order.ID, f.itemID(), paddedFeature).Return(nil, domain.ErrNotFound)
	f.storage.On("Put", mock.Anything, mock.AnythingOfType("port.ObjectInput")).
		Return(&port.StoredObject{URL: "https://bucket.example/contrato.pdf"}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/documents", map[string]string{"document": paddedFeature},
		"contrato.pdf", []byte("%PDF-1.4 contrato social assinado pelos socios"))
	c.Params = itemParams(f.order.ID, f.itemID())

	f.h.Upload(c)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	f.uploads.AssertExpectations(t)
	f.storage.AssertExpectations(t)
}

func TestUploadFlow_PaddedFeatureNameRemoves(t *testing.T) {
	f := newUploadFlow()
	existing := &domain.UploadRecord{
		OrderID:   f.order.ID,
		ItemID:    f.itemID(),
		Document:  paddedFeature,
		Status:    domain.UploadStatusUploaded,
		ObjectKey: "documents/contrato.pdf",
		URL:       "https://bucket.example/contrato.pdf",
	}
	f.uploads.On("Get", mock.Anything, f.order.ID, f.itemID(), paddedFeature).Return(existing, nil)
	f.storage.On("Delete", mock.Anything, "documents/contrato.pdf").Return(nil)
	f.uploads.On("Save", mock.Anything, mock.AnythingOfType("*domain.UploadRecord")).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/documents?document="+url.QueryEscape(paddedFeature), http.NoBody)
	c.Params = itemParams(f.order.ID, f.itemID())

	f.h.Remove(c)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	f.storage.AssertExpectations(t)
}

func TestUploadFlow_BlankDocumentRejected(t *testing.T) {
	f := newUploadFlow()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/documents", map[string]string{"document": "   "}, "a.pdf", []byte("%PDF-1.4"))
	c.Params = itemParams(f.order.ID, f.itemID())

	f.h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)
}
