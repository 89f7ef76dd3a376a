package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeMennaError = "MENNA_ERROR"
	CodeTransport  = "TRANSPORT_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION_ERROR"
	CodeConfig     = "CONFIG_ERROR"
	CodeCache      = "CACHE_ERROR"
)

type MennaError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *MennaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *MennaError) Unwrap() error {
	return e.Cause
}

func NewMennaError(message, code string, statusCode int, context map[string]any) *MennaError {
	return &MennaError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *MennaError) WithCause(cause error) *MennaError {
	e.Cause = cause
	return e
}

// TransportError reports a failed round trip or a non-success HTTP status.
// StatusCode is 0 when no response was received.
type TransportError struct {
	*MennaError
	URL string
}

func NewTransportError(message string, statusCode int, url string, context map[string]any) *TransportError {
	if context == nil {
		context = map[string]any{}
	}
	context["url"] = url
	return &TransportError{
		MennaError: &MennaError{
			Message:    message,
			Code:       CodeTransport,
			StatusCode: statusCode,
			Context:    context,
		},
		URL: url,
	}
}

func (e *TransportError) WithCause(cause error) *TransportError {
	e.Cause = cause
	return e
}

type NotFoundError struct {
	*TransportError
	Resource string
}

func NewNotFoundError(resource, url string) *NotFoundError {
	te := NewTransportError(fmt.Sprintf("%s not found", resource), http.StatusNotFound, url, map[string]any{
		"resource": resource,
	})
	te.Code = CodeNotFound
	return &NotFoundError{
		TransportError: te,
		Resource:       resource,
	}
}

// WithStatus records the HTTP status that produced the not-found result.
func (e *NotFoundError) WithStatus(status int) *NotFoundError {
	e.StatusCode = status
	return e
}

func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.Cause = cause
	return e
}

type ValidationError struct {
	*MennaError
	Field string
	Value any
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		MennaError: &MennaError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: http.StatusUnprocessableEntity,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.Cause = cause
	return e
}

type ConfigError struct {
	*MennaError
	Key string
}

func NewConfigError(message, key string) *ConfigError {
	return &ConfigError{
		MennaError: &MennaError{
			Message: message,
			Code:    CodeConfig,
			Context: map[string]any{
				"key": key,
			},
		},
		Key: key,
	}
}

func (e *ConfigError) WithCause(cause error) *ConfigError {
	e.Cause = cause
	return e
}

type CacheError struct {
	*MennaError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		MennaError: &MennaError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

// IsTransport reports whether err carries a TransportError, including NotFoundError.
func IsTransport(err error) bool {
	var te *TransportError
	if stderrors.As(err, &te) {
		return true
	}
	var nf *NotFoundError
	return stderrors.As(err, &nf)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return stderrors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}

func IsConfig(err error) bool {
	var ce *ConfigError
	return stderrors.As(err, &ce)
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var nf *NotFoundError
	if stderrors.As(err, &nf) {
		return nf.StatusCode
	}
	var te *TransportError
	if stderrors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
