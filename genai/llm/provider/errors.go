package provider

import (
	"errors"
	"fmt"
)

// ErrorType classifies adapter failures into the taxonomy ModelSampleResult
// surfaces (§4.1).
type ErrorType string

const (
	ErrorAuthentication ErrorType = "authentication"
	ErrorAuthorization  ErrorType = "authorization"
	ErrorRateLimit      ErrorType = "rate_limit"
	ErrorModelNotFound  ErrorType = "model_not_found"
	ErrorContentPolicy  ErrorType = "content_policy"
	ErrorTokenLimit     ErrorType = "token_limit"
	ErrorProvider       ErrorType = "provider_error"
	ErrorTimeout        ErrorType = "timeout"
	ErrorNetwork        ErrorType = "network"
	ErrorParsing        ErrorType = "parsing_error"
	ErrorUnknown        ErrorType = "unknown"
)

// AdapterError is the error shape every Adapter method returns on failure so
// the scheduler can classify it without backend-specific type assertions.
type AdapterError struct {
	Type       ErrorType
	Code       string
	HTTPStatus int
	Message    string
	Err        error
}

func (e *AdapterError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Type, e.Err)
	}
	return string(e.Type)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// NewAdapterError builds an AdapterError wrapping cause under errType.
func NewAdapterError(errType ErrorType, message string, cause error) *AdapterError {
	return &AdapterError{Type: errType, Message: message, Err: cause}
}

// Classify extracts the ErrorType from err, defaulting to ErrorUnknown when
// err is not an *AdapterError.
func Classify(err error) ErrorType {
	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae.Type
	}
	return ErrorUnknown
}

// ErrUnsupportedImage is returned (wrapped in an AdapterError) when a
// mediaType falls outside the backend's accepted image set.
var ErrUnsupportedImage = errors.New("unsupported_image")

// ErrFileTooLarge is returned when an image passed to GenerateWithImage
// exceeds the adapter's fixed 20 MiB cap.
var ErrFileTooLarge = errors.New("file_too_large")

// ErrUnsupportedAttachment is returned when a backend's policy rejects an
// attachment kind entirely.
var ErrUnsupportedAttachment = errors.New("unsupported_attachment")
