package errors

import (
	defError "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// APIError is the error type every handler reports through ctx.Error.
type APIError struct {
	Status   int    `json:"-"`
	Message  string `json:"error"`
	Details  any    `json:"details,omitempty"`
	Internal error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Internal
}

// WithDetails returns a copy of the error carrying a structured payload
func (e *APIError) WithDetails(details any) *APIError {
	return &APIError{
		Status:   e.Status,
		Message:  e.Message,
		Details:  details,
		Internal: e.Internal,
	}
}

func New(status int, message string, err error) *APIError {
	return &APIError{
		Status:   status,
		Message:  message,
		Internal: err,
	}
}

func BadRequest(message string, err error) *APIError {
	return New(http.StatusBadRequest, message, err)
}

func Unauthorized(message string, err error) *APIError {
	return New(http.StatusUnauthorized, message, err)
}

// Forbidden always renders the same message so responses never reveal
// anything about another tenant's records.
func Forbidden(err error) *APIError {
	return New(http.StatusForbidden, "Not authorized", err)
}

func NotFound(message string, err error) *APIError {
	return New(http.StatusNotFound, message, err)
}

func Conflict(message string, err error) *APIError {
	return New(http.StatusConflict, message, err)
}

func UnprocessableEntity(message string, err error) *APIError {
	return New(http.StatusUnprocessableEntity, message, err)
}

func Internal(err error) *APIError {
	return New(http.StatusInternalServerError, "Internal server error", err)
}

// Storage wraps a failed store round trip. The client only sees the generic
// message; op is kept for the server log.
func Storage(op string, err error) *APIError {
	return Internal(fmt.Errorf("%s: %w", op, err))
}

// Validation builds a 400 whose details address individual fields.
func Validation(fields map[string]string) *APIError {
	return BadRequest("Validation failed", nil).WithDetails(fields)
}

// NewValidationError converts binding errors into a field-addressed 400.
func NewValidationError(err error) *APIError {
	var verrs validator.ValidationErrors
	if defError.As(err, &verrs) {
		return Validation(FieldErrors(verrs, ""))
	}
	return BadRequest("Invalid request body", err)
}

// FieldErrors maps validator errors to "prefix.field" -> message.
func FieldErrors(verrs validator.ValidationErrors, prefix string) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldPath(fe.Namespace(), prefix)
		fields[key] = describe(fe)
	}
	return fields
}

// fieldPath drops the root struct name validator puts in front of every namespace.
func fieldPath(namespace, prefix string) string {
	path := namespace
	if i := strings.Index(namespace, "."); i >= 0 {
		path = namespace[i+1:]
	}
	path = strings.ToLower(path)
	if prefix == "" {
		return path
	}
	return prefix + "." + path
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "email":
		return "must be a valid email"
	case "url", "http_url":
		return "must be a valid URL"
	case "slug":
		return "must contain only lowercase letters, digits and hyphens"
	case "hexcolor":
		return "must be a hex color"
	}
	return "is invalid"
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return defError.As(err, &apiErr) && apiErr.Status == status
}
