package bedrock

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Error represents a Bedrock API error.
type Error struct {
	// Op is the operation that failed ("converse", "invoke model").
	Op string

	// Code is the service error code, e.g. "ThrottlingException".
	Code string

	// Message is the service error message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("bedrock: %s: %s (%s)", e.Op, e.Message, e.Code)
}

// Throttle returns true for rate-limit/throttle-class errors, which
// callers may retry with backoff.
func (e *Error) Throttle() bool {
	switch e.Code {
	case "ThrottlingException", "TooManyRequestsException", "Throttling", "ServiceQuotaExceededException":
		return true
	}
	return false
}

// AsError extracts *Error from an error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// wrapErr converts an SDK error into *Error where a service error code
// is available, otherwise wraps it with the operation name.
func wrapErr(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &Error{Op: op, Code: apiErr.ErrorCode(), Message: apiErr.ErrorMessage()}
	}
	return fmt.Errorf("bedrock: %s: %w", op, err)
}
