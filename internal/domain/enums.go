package domain

// FileType represents the allowed file types for document upload.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeWEBP FileType = "webp"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJPG:  "image/jpeg",
	FileTypePNG:  "image/png",
	FileTypeWEBP: "image/webp",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"image/webp":      FileTypeWEBP,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"webp": FileTypeWEBP,
}

// UserRole distinguishes back-office operators from storefront customers.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

// IsValid reports whether r is a known role.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusFinalized      OrderStatus = "finalizado"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPendingPayment,
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusFinalized,
	OrderStatusCancelled,
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsDelivered reports whether the order counts as realised revenue.
func (s OrderStatus) IsDelivered() bool {
	return s == OrderStatusDelivered || s == OrderStatusFinalized
}

// IsOpen reports whether the order counts as pending revenue.
func (s OrderStatus) IsOpen() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing || s == OrderStatusShipped
}

// AcceptsDocuments reports whether customers may still change uploaded documents.
func (s OrderStatus) AcceptsDocuments() bool {
	return s == OrderStatusPendingPayment || s == OrderStatusPending
}

// PaymentMethod is how the customer pays for the order.
type PaymentMethod string

const (
	PaymentPIX        PaymentMethod = "pix"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentWhatsApp   PaymentMethod = "whatsapp"
)

// IsValid reports whether m is a supported payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentPIX, PaymentCreditCard, PaymentWhatsApp:
		return true
	default:
		return false
	}
}

// UploadStatus represents the lifecycle of one required document upload.
type UploadStatus string

const (
	UploadStatusEmpty     UploadStatus = "empty"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusUploaded  UploadStatus = "uploaded"
	UploadStatusFailed    UploadStatus = "failed"
)
