package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the cart/checkout failure taxonomy. Local validation
// failures are always recoverable by user correction; transport and merge
// failures leave cart state untouched.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrConflict            = errors.New("conflict")
	ErrServiceUnavail      = errors.New("service unavailable")
	ErrSelectionIncomplete = errors.New("selection incomplete")
	ErrFetchFailed         = errors.New("cart fetch failed")
	ErrDuplicateItem       = errors.New("duplicate cart item")
	ErrMergeFailed         = errors.New("guest cart merge failed")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrProfileIncomplete   = errors.New("profile incomplete")
	ErrOrderCreation       = errors.New("order creation failed")
)

// AppError carries a machine-readable code, a user-facing message, and the
// HTTP status the edge surface should answer with.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a 401 error. The checkout handler translates this into
// the "authenticate first" redirect for guest checkout attempts.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// ServiceUnavailable creates a 503 error.
func ServiceUnavailable(message string) *AppError {
	return &AppError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     ErrServiceUnavail,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// SelectionIncomplete creates a 422 error for a session/location/price chain
// that cannot be completed. Callers must never fabricate a price in this case.
func SelectionIncomplete(message string) *AppError {
	return &AppError{
		Code:    "SELECTION_INCOMPLETE",
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrSelectionIncomplete,
	}
}

// FetchFailed creates a 502 error distinguishing "cart state unknown" from an
// authoritatively empty cart.
func FetchFailed(err error) *AppError {
	return &AppError{
		Code:    "FETCH_FAILED",
		Message: "could not fetch the authenticated cart",
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", ErrFetchFailed, err),
	}
}

// DuplicateItem creates a 409 error for a backend-rejected duplicate add.
// It is user-visible and non-fatal; callers must not retry automatically.
func DuplicateItem(courseID, sessionID string) *AppError {
	return &AppError{
		Code:    "DUPLICATE_ITEM",
		Message: fmt.Sprintf("course %s session %s is already in the cart", courseID, sessionID),
		Status:  http.StatusConflict,
		Err:     ErrDuplicateItem,
	}
}

// MergeFailed creates a 502 error; the guest cart remains intact for retry.
func MergeFailed(err error) *AppError {
	return &AppError{
		Code:    "MERGE_FAILED",
		Message: "guest cart could not be merged; it has been kept for retry",
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", ErrMergeFailed, err),
	}
}

// EmptyCart creates a 400 error for checkout attempts on zero items.
func EmptyCart() *AppError {
	return &AppError{
		Code:    "EMPTY_CART",
		Message: "cannot check out an empty cart",
		Status:  http.StatusBadRequest,
		Err:     ErrEmptyCart,
	}
}

// ProfileIncomplete creates a 400 error listing the missing contact fields.
func ProfileIncomplete(message string) *AppError {
	return &AppError{
		Code:    "PROFILE_INCOMPLETE",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrProfileIncomplete,
	}
}

// OrderCreationFailed creates a 502 error carrying the backend's message
// verbatim, as the checkout contract requires.
func OrderCreationFailed(message string) *AppError {
	return &AppError{
		Code:    "ORDER_CREATION_FAILED",
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     ErrOrderCreation,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrEmptyCart), errors.Is(err, ErrProfileIncomplete):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicateItem):
		return http.StatusConflict
	case errors.Is(err, ErrSelectionIncomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrFetchFailed), errors.Is(err, ErrMergeFailed), errors.Is(err, ErrOrderCreation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
