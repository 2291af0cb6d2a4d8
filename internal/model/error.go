package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInvalidDiscount   = "INVALID_DISCOUNT"
	ErrCodeInvalidSignature  = "INVALID_SIGNATURE"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure carrying an API error code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports a rejected request field.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// Common domain errors
var (
	ErrProductNotFound      = NewDomainError(ErrCodeNotFound, "product not found")
	ErrCategoryNotFound     = NewDomainError(ErrCodeNotFound, "category not found")
	ErrOrderNotFound        = NewDomainError(ErrCodeNotFound, "order not found")
	ErrAddressNotFound      = NewDomainError(ErrCodeNotFound, "address not found")
	ErrReviewNotFound       = NewDomainError(ErrCodeNotFound, "review not found")
	ErrVendorNotFound       = NewDomainError(ErrCodeNotFound, "vendor not found")
	ErrSubscriptionNotFound = NewDomainError(ErrCodeNotFound, "subscription not found")
	ErrDiscountNotFound     = NewDomainError(ErrCodeNotFound, "discount code not found")
	ErrCartItemNotFound     = NewDomainError(ErrCodeNotFound, "item is not in the cart")
	ErrCartKeyRequired      = NewDomainError(ErrCodeValidation, "cart session is required")
	ErrInvalidQuantity      = NewDomainError(ErrCodeInvalidQuantity, "quantity must be greater than zero")
	ErrInvalidDiscount      = NewDomainError(ErrCodeInvalidDiscount, "discount code is not valid for this order")
	ErrInvalidSignature     = NewDomainError(ErrCodeInvalidSignature, "payment signature verification failed")
	ErrDuplicateReview      = NewDomainError(ErrCodeConflict, "you have already reviewed this product for this order")
	ErrDuplicateSlug        = NewDomainError(ErrCodeConflict, "slug already exists")
	ErrDuplicateOrder       = NewDomainError(ErrCodeConflict, "order number already exists")
	ErrAmountMismatch       = NewDomainError(ErrCodeConflict, "paid amount does not match the order total")
	ErrUnauthorised         = NewDomainError(ErrCodeUnauthorised, "authentication required")
	ErrForbidden            = NewDomainError(ErrCodeForbidden, "not allowed to modify this resource")
)

// UpstreamError wraps a failure from the data store or payment gateway.
// The upstream message is surfaced to the client as details.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
