package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserInactive         = errors.New("user is inactive")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrInvalidRole          = errors.New("invalid user role")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed         = errors.New("file upload to storage failed")
	ErrEmptyCart            = errors.New("order has no items")
	ErrInvalidQuantity      = errors.New("item quantity must be positive")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrDocumentNotRequired  = errors.New("document is not required for this item")
	ErrItemNotInOrder       = errors.New("item does not belong to this order")
	ErrDocumentsIncomplete  = errors.New("required documents are missing")
	ErrOrderNotEditable     = errors.New("order no longer accepts document changes")
)
