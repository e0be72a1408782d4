package apperror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	Internal Kind = iota
	InvalidArgument
	Unauthorized
	Forbidden
	NotFound
	Conflict
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Status maps a kind to the HTTP status code returned to clients.
func (k Kind) Status() int {
	switch k {
	case InvalidArgument:
		return fiber.StatusBadRequest
	case Unauthorized:
		return fiber.StatusUnauthorized
	case Forbidden:
		return fiber.StatusForbidden
	case NotFound:
		return fiber.StatusNotFound
	case Conflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Error carries a kind, a client-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err, Internal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Respond writes err as a {"message": ...} body with the matching status.
// Internal errors are logged and hidden behind a generic message.
func Respond(c *fiber.Ctx, err error) error {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return c.Status(e.Kind.Status()).JSON(fiber.Map{"message": e.Message})
	}

	log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
}

// Message writes a {"message": ...} body with the given status.
func Message(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"message": message})
}

// ErrorHandler is installed as the fiber.Config ErrorHandler so framework
// errors (unknown routes, recovered panics) share the same body shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
		}
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}
	return Respond(c, err)
}
