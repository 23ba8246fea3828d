package platformerrors

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	ErrorTypeNotFound              ErrorType = "NOT_FOUND"
	ErrorTypeValidation            ErrorType = "VALIDATION"
	ErrorTypeConflict              ErrorType = "CONFLICT"
	ErrorTypeUnresolvedParticipant ErrorType = "UNRESOLVED_PARTICIPANT"
	ErrorTypeUnauthorized          ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden             ErrorType = "FORBIDDEN"
	ErrorTypeInternal              ErrorType = "INTERNAL"
	ErrorTypeExternal              ErrorType = "EXTERNAL"
	ErrorTypeOracle                ErrorType = "ORACLE"
	ErrorTypeDatabaseError         ErrorType = "DATABASE_ERROR"
)

// Layer represents the application layer where the error occurred.
type Layer string

const (
	LayerRepository     Layer = "repository"
	LayerDomain         Layer = "domain"
	LayerHandler        Layer = "handler"
	LayerRoute          Layer = "route"
	LayerInfrastructure Layer = "infrastructure"
)

// PlatformError carries the error category plus request metadata.
type PlatformError struct {
	Type      ErrorType
	Message   string
	Err       error
	RequestID string
	Layer     Layer
	Timestamp time.Time
}

// Error implements the error interface.
func (e *PlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s][%s] %s: %v", e.Layer, e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s][%s] %s", e.Layer, e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *PlatformError) Unwrap() error {
	return e.Err
}

// GetErrorType returns the error type.
func (e *PlatformError) GetErrorType() ErrorType {
	return e.Type
}

// GetRequestID returns the request ID.
func (e *PlatformError) GetRequestID() string {
	return e.RequestID
}

type requestIDKey struct{}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext extracts the request ID from the context.
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return requestID
	}
	return ""
}

// NewError creates a PlatformError tagged with the originating layer.
func NewError(ctx context.Context, layer Layer, errorType ErrorType, message string, err error) *PlatformError {
	return &PlatformError{
		Type:      errorType,
		Message:   message,
		Err:       err,
		RequestID: RequestIDFromContext(ctx),
		Layer:     layer,
		Timestamp: time.Now().UTC(),
	}
}

// ErrorTypeToHTTPStatus maps the error taxonomy onto HTTP status codes.
func ErrorTypeToHTTPStatus(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeValidation, ErrorTypeUnresolvedParticipant:
		return http.StatusBadRequest
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeExternal, ErrorTypeOracle:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
