package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an operation failure. Controllers translate kinds to HTTP
// statuses; everything below the controller layer speaks in kinds only.
type Kind string

const (
	KindUnauthorized       Kind = "unauthorized"
	KindNotAssociated      Kind = "not_associated"
	KindNotFound           Kind = "not_found"
	KindValidationFailed   Kind = "validation_failed"
	KindPreconditionFailed Kind = "precondition_failed"
	KindDuplicateEmail     Kind = "duplicate_email"
	KindUpstreamFailure    Kind = "upstream_failure"
)

type Error struct {
	Kind    Kind
	Message string
	// Fields maps field names to messages for validation-class failures.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation builds a field-level validation failure.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidationFailed, Message: "validation failed", Fields: fields}
}

// DuplicateEmail is a field-level error on the email field.
func DuplicateEmail(message string) *Error {
	return &Error{
		Kind:    KindDuplicateEmail,
		Message: message,
		Fields:  map[string]string{"email": message},
	}
}

// KindOf extracts the kind from err, or empty when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to its HTTP status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindNotAssociated:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindValidationFailed, KindDuplicateEmail:
		return fiber.StatusUnprocessableEntity
	case KindPreconditionFailed:
		return fiber.StatusPreconditionFailed
	case KindUpstreamFailure:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
