package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"juridico/internal/catalog"
	"juridico/internal/config"
	"juridico/internal/domain"
	"juridico/internal/metrics"
	"juridico/internal/port"
	"juridico/internal/resilience"
)

// DocumentUploadInput is the DTO for one required-document upload.
type DocumentUploadInput struct {
	OrderID  uuid.UUID
	ItemID   uuid.UUID
	Document string
	File     multipart.File
	Header   *multipart.FileHeader
}

// ItemProgress is the per-item view of the upload checklist.
type ItemProgress struct {
	ItemID     uuid.UUID `json:"item_id"`
	Title      string    `json:"title"`
	TemplateID string    `json:"template_id,omitempty"`
	Required   []string  `json:"required"`
	Uploaded   []string  `json:"uploaded"`
	Complete   bool      `json:"complete"`
}

// OrderProgress is the checklist of a whole order.
type OrderProgress struct {
	catalog.Progress
	OrderID  uuid.UUID      `json:"order_id"`
	Items    []ItemProgress `json:"items"`
	Complete bool           `json:"complete"`
}

// UploadService manages the per-document upload workflow of an order.
type UploadService interface {
	StartWorkflow(ctx context.Context, orderID uuid.UUID) error
	Upload(ctx context.Context, input DocumentUploadInput) (*domain.UploadRecord, error)
	Remove(ctx context.Context, orderID, itemID uuid.UUID, document string) (*domain.UploadRecord, error)
	Records(ctx context.Context, orderID uuid.UUID) ([]domain.UploadRecord, error)
	State(ctx context.Context, orderID uuid.UUID) (catalog.UploadState, error)
	Progress(ctx context.Context, orderID uuid.UUID) (*OrderProgress, error)
	DownloadURL(ctx context.Context, orderID, itemID uuid.UUID, document string) (string, error)
}

type uploadService struct {
	orderRepo     port.OrderRepository
	uploadRepo    port.UploadRepository
	storage       port.ObjectStorage
	catalog       *catalog.Catalog
	executor      *resilience.Executor
	notifier      port.Notifier
	metrics       *metrics.Registry
	log           *zap.Logger
	maxBytes      int64
	presignExpiry time.Duration
	now           func() time.Time
}

// NewUploadService creates a new UploadService implementation.
func NewUploadService(
	orderRepo port.OrderRepository,
	uploadRepo port.UploadRepository,
	storage port.ObjectStorage,
	cat *catalog.Catalog,
	executor *resilience.Executor,
	notifier port.Notifier,
	m *metrics.Registry,
	log *zap.Logger,
	uploadCfg config.UploadConfig,
	storageCfg config.StorageConfig,
) UploadService {
	return &uploadService{
		orderRepo:     orderRepo,
		uploadRepo:    uploadRepo,
		storage:       storage,
		catalog:       cat,
		executor:      executor,
		notifier:      notifier,
		metrics:       m,
		log:           log.Named("uploads"),
		maxBytes:      uploadCfg.MaxBytes(),
		presignExpiry: storageCfg.PresignExpiry,
		now:           time.Now,
	}
}

func (s *uploadService) StartWorkflow(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	var records []domain.UploadRecord
	for i := range order.Items {
		item := &order.Items[i]
		for _, doc := range s.catalog.RequiredDocuments(item.CatalogItem()) {
			records = append(records, domain.UploadRecord{
				OrderID:  order.ID,
				ItemID:   item.ID,
				Document: doc,
			})
		}
	}

	if err := s.uploadRepo.EnsureEmpty(ctx, records); err != nil {
		return fmt.Errorf("starting upload workflow: %w", err)
	}
	s.log.Debug("upload workflow started",
		zap.String("order_id", orderID.String()),
		zap.Int("documents", len(records)),
	)
	return nil
}

func (s *uploadService) Upload(ctx context.Context, input DocumentUploadInput) (*domain.UploadRecord, error) {
	order, item, err := s.requiredItem(ctx, input.OrderID, input.ItemID, input.Document)
	if err != nil {
		s.metrics.RecordUpload(metrics.OutcomeRejected, 0)
		return nil, err
	}

	data, contentType, err := s.readAndValidate(input)
	if err != nil {
		s.metrics.RecordUpload(metrics.OutcomeRejected, 0)
		return nil, err
	}

	records, err := s.uploadRepo.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("loading upload records: %w", err)
	}
	wasComplete := s.catalog.IsOrderComplete(order.CatalogItems(), domain.UploadStateOf(records))

	rec := findRecord(records, item.ID, input.Document)
	if rec == nil {
		rec = &domain.UploadRecord{OrderID: order.ID, ItemID: item.ID, Document: input.Document}
	}
	previous := *rec

	rec.Status = domain.UploadStatusUploading
	if err := s.uploadRepo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("marking upload in progress: %w", err)
	}

	key := ObjectKey(order.ID, item.ID, input.Document, input.Header.Filename, s.now())
	var out *port.StoredObject
	err = s.executor.Execute(ctx, "storage.upload", func(ctx context.Context) error {
		var uerr error
		out, uerr = s.storage.Put(ctx, port.ObjectInput{
			Key:         key,
			Body:        bytes.NewReader(data),
			ContentType: contentType,
			Size:        int64(len(data)),
		})
		return uerr
	}, nil)
	if err != nil {
		s.log.Error("document upload failed",
			zap.String("order_id", order.ID.String()),
			zap.String("item_id", item.ID.String()),
			zap.String("document", input.Document),
			zap.Error(err),
		)
		s.settleFailedUpload(ctx, previous)
		s.metrics.RecordUpload(metrics.OutcomeFailed, 0)
		return nil, domain.ErrUploadFailed
	}

	superseded := s.storedKey(ctx, previous)

	rec.Status = domain.UploadStatusUploaded
	rec.ObjectKey = key
	rec.URL = out.URL
	rec.FileName = input.Header.Filename
	rec.ContentType = contentType
	rec.FileSize = int64(len(data))
	if err := s.uploadRepo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("recording upload: %w", err)
	}
	s.metrics.RecordUpload(metrics.OutcomeUploaded, rec.FileSize)
	s.log.Info("document uploaded",
		zap.String("order_id", order.ID.String()),
		zap.String("item_id", item.ID.String()),
		zap.String("document", input.Document),
		zap.Int64("size", rec.FileSize),
	)

	if superseded != "" && superseded != key {
		s.deleteObject(ctx, superseded)
	}

	if !wasComplete {
		s.notifyIfComplete(ctx, order, records, *rec)
	}
	return rec, nil
}

func (s *uploadService) Remove(ctx context.Context, orderID, itemID uuid.UUID, document string) (*domain.UploadRecord, error) {
	if _, _, err := s.requiredItem(ctx, orderID, itemID, document); err != nil {
		return nil, err
	}

	rec, err := s.uploadRepo.Get(ctx, orderID, itemID, document)
	if err != nil {
		return nil, err
	}
	if rec.ObjectKey != "" {
		s.deleteObject(ctx, rec.ObjectKey)
	}

	rec.Reset()
	if err := s.uploadRepo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("resetting upload: %w", err)
	}
	s.metrics.RecordUpload(metrics.OutcomeRemoved, 0)
	return rec, nil
}

func (s *uploadService) Records(ctx context.Context, orderID uuid.UUID) ([]domain.UploadRecord, error) {
	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.uploadRepo.ListByOrder(ctx, orderID)
}

func (s *uploadService) State(ctx context.Context, orderID uuid.UUID) (catalog.UploadState, error) {
	records, err := s.uploadRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return domain.UploadStateOf(records), nil
}

func (s *uploadService) Progress(ctx context.Context, orderID uuid.UUID) (*OrderProgress, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	state, err := s.State(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return BuildProgress(s.catalog, order, state), nil
}

func (s *uploadService) DownloadURL(ctx context.Context, orderID, itemID uuid.UUID, document string) (string, error) {
	rec, err := s.uploadRepo.Get(ctx, orderID, itemID, document)
	if err != nil {
		return "", err
	}
	if !rec.Uploaded() || rec.ObjectKey == "" {
		return "", domain.ErrNotFound
	}
	return s.storage.SignedURL(ctx, rec.ObjectKey, s.presignExpiry)
}

// BuildProgress computes the checklist of order against state.
func BuildProgress(cat *catalog.Catalog, order *domain.Order, state catalog.UploadState) *OrderProgress {
	items := order.CatalogItems()
	p := &OrderProgress{
		Progress: cat.Progress(items, state),
		OrderID:  order.ID,
		Items:    make([]ItemProgress, len(items)),
		Complete: cat.IsOrderComplete(items, state),
	}
	for i, item := range items {
		ip := ItemProgress{
			ItemID:   order.Items[i].ID,
			Title:    item.Title,
			Required: cat.RequiredDocuments(item),
			Uploaded: []string{},
			Complete: cat.IsItemComplete(item, state),
		}
		if tmpl, ok := cat.Resolve(item.Title); ok {
			ip.TemplateID = tmpl.ID
		}
		for _, doc := range ip.Required {
			if state.IsUploaded(item.ID, doc) {
				ip.Uploaded = append(ip.Uploaded, doc)
			}
		}
		p.Items[i] = ip
	}
	return p
}

// requiredItem loads the order and checks that document is required for the item
// and that the order still accepts document changes.
func (s *uploadService) requiredItem(ctx context.Context, orderID, itemID uuid.UUID, document string) (*domain.Order, *domain.OrderItem, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !order.Status.AcceptsDocuments() {
		return nil, nil, domain.ErrOrderNotEditable
	}
	item, ok := order.Item(itemID)
	if !ok {
		return nil, nil, domain.ErrItemNotInOrder
	}
	if !slices.Contains(s.catalog.RequiredDocuments(item.CatalogItem()), document) {
		return nil, nil, domain.ErrDocumentNotRequired
	}
	return order, item, nil
}

func (s *uploadService) readAndValidate(input DocumentUploadInput) ([]byte, string, error) {
	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, "", domain.ErrUnsupportedFileType
	}

	if input.Header.Size > s.maxBytes {
		return nil, "", domain.ErrFileTooLarge
	}

	// The header size is client supplied; bound the actual read as well.
	data, err := io.ReadAll(io.LimitReader(input.File, s.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, "", domain.ErrFileTooLarge
	}

	// Magic-byte detection must agree with the allow list.
	detected := http.DetectContentType(data[:min(len(data), 512)])
	if _, ok := domain.AllowedContentTypes[detected]; !ok {
		return nil, "", domain.ErrUnsupportedFileType
	}
	return data, domain.AllowedFileTypes[fileType], nil
}

// storedKey returns the object key currently recorded for the document. A
// concurrent upload may have replaced the key read before the transfer.
func (s *uploadService) storedKey(ctx context.Context, previous domain.UploadRecord) string {
	current, err := s.uploadRepo.Get(ctx, previous.OrderID, previous.ItemID, previous.Document)
	switch {
	case err == nil:
		return current.ObjectKey
	case !errors.Is(err, domain.ErrNotFound):
		s.log.Warn("re-reading upload record", zap.String("document", previous.Document), zap.Error(err))
	}
	return previous.ObjectKey
}

// settleFailedUpload keeps a document that is still stored uploaded and marks
// the record failed only when no stored object remains.
func (s *uploadService) settleFailedUpload(ctx context.Context, previous domain.UploadRecord) {
	rec := &previous
	if current, err := s.uploadRepo.Get(ctx, previous.OrderID, previous.ItemID, previous.Document); err == nil {
		rec = current
	}
	if rec.ObjectKey != "" && rec.URL != "" {
		rec.Status = domain.UploadStatusUploaded
	} else {
		rec.Reset()
		rec.Status = domain.UploadStatusFailed
	}
	if err := s.uploadRepo.Save(ctx, rec); err != nil {
		s.log.Error("settling failed upload", zap.String("document", rec.Document), zap.Error(err))
	}
}

func (s *uploadService) deleteObject(ctx context.Context, key string) {
	err := s.executor.Execute(ctx, "storage.delete", func(ctx context.Context) error {
		return s.storage.Delete(ctx, key)
	}, nil)
	if err != nil {
		s.log.Warn("deleting stored document", zap.String("key", key), zap.Error(err))
	}
}

func (s *uploadService) notifyIfComplete(ctx context.Context, order *domain.Order, before []domain.UploadRecord, saved domain.UploadRecord) {
	records := make([]domain.UploadRecord, 0, len(before)+1)
	replaced := false
	for _, r := range before {
		if r.ItemID == saved.ItemID && r.Document == saved.Document {
			r = saved
			replaced = true
		}
		records = append(records, r)
	}
	if !replaced {
		records = append(records, saved)
	}

	if !s.catalog.IsOrderComplete(order.CatalogItems(), domain.UploadStateOf(records)) {
		return
	}
	s.metrics.RecordOrderComplete()
	if err := s.notifier.NotifyDocumentsComplete(ctx, order); err != nil {
		s.log.Warn("notifying documents complete", zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}

func findRecord(records []domain.UploadRecord, itemID uuid.UUID, document string) *domain.UploadRecord {
	for i := range records {
		if records[i].ItemID == itemID && records[i].Document == document {
			rec := records[i]
			return &rec
		}
	}
	return nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ObjectKey builds the storage key of an uploaded document:
// documents/<order>/<item>/<document>_<unix millis>_<file name>.
func ObjectKey(orderID, itemID uuid.UUID, document, fileName string, at time.Time) string {
	doc := strings.ReplaceAll(catalog.Normalize(document), " ", "_")
	if doc == "" {
		doc = "documento"
	}
	return fmt.Sprintf("documents/%s/%s/%s_%d_%s",
		orderID, itemID, doc, at.UnixMilli(), unsafeFileChars.ReplaceAllString(filepath.Base(fileName), "_"))
}
