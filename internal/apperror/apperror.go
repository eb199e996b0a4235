// Package apperror defines the error kinds handlers return. The fiber error
// handler turns them into a status code and a {"error", "kind"} body.
package apperror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Kind string

const (
	KindValidation           Kind = "validation"
	KindDuplicateEmail       Kind = "duplicate_email"
	KindInvalidCredentials   Kind = "invalid_credentials"
	KindForbidden            Kind = "forbidden"
	KindNotFound             Kind = "not_found"
	KindDuplicateApplication Kind = "duplicate_application"
	KindOfferUnavailable     Kind = "offer_unavailable"
	KindInvalidTransition    Kind = "invalid_transition"
	KindStorage              Kind = "storage"
	KindRateLimited          Kind = "rate_limited"
	KindHTTP                 Kind = "http"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindInvalidCredentials:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindDuplicateEmail, KindDuplicateApplication, KindOfferUnavailable, KindInvalidTransition:
		return fiber.StatusConflict
	case KindRateLimited:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string) *Error        { return New(KindValidation, msg) }
func Forbidden(msg string) *Error         { return New(KindForbidden, msg) }
func NotFound(msg string) *Error          { return New(KindNotFound, msg) }
func InvalidTransition(msg string) *Error { return New(KindInvalidTransition, msg) }
func OfferUnavailable() *Error            { return New(KindOfferUnavailable, "Offer is not available") }
func DuplicateApplication() *Error {
	return New(KindDuplicateApplication, "You already applied to this offer")
}
func DuplicateEmail() *Error     { return New(KindDuplicateEmail, "Email is already registered") }
func InvalidCredentials() *Error { return New(KindInvalidCredentials, "Invalid credentials") }

// Storage wraps a database failure. The cause is logged, never shown.
func Storage(msg string, err error) *Error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// KindForStatus names plain HTTP errors raised by fiber or middleware so
// every error body carries a kind.
func KindForStatus(code int) Kind {
	switch code {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
		return KindValidation
	case fiber.StatusUnauthorized:
		return KindInvalidCredentials
	case fiber.StatusForbidden:
		return KindForbidden
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return KindNotFound
	case fiber.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindHTTP
	}
}
