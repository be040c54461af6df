package httpapi

import "fmt"

const (
	CodeValidation  = "validation"
	CodeNotFound    = "not_found"
	CodeUnavailable = "unavailable"
	CodeInternal    = "internal"
)

// Error is the typed API error surfaced to clients as a JSON payload.
type Error struct {
	Code      string
	Message   string
	Transient bool
	Status    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func statusForCode(code string) int {
	switch code {
	case CodeValidation:
		return 400
	case CodeNotFound:
		return 404
	case CodeUnavailable:
		return 503
	default:
		return 500
	}
}

func newError(code, message string, transient bool) *Error {
	return &Error{Code: code, Message: message, Transient: transient, Status: statusForCode(code)}
}

func NewValidationError(message string) error {
	return newError(CodeValidation, message, false)
}

func NewValidationJSONError(err error) error {
	return newError(CodeValidation, "invalid json: "+err.Error(), false)
}

func NewNotFoundError(message string) error {
	return newError(CodeNotFound, message, false)
}

func NewUnavailableError(message string) error {
	return newError(CodeUnavailable, message, true)
}

func NewInternalError(message string) error {
	return newError(CodeInternal, message, true)
}
