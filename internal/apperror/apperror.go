// Package apperror defines the domain error kinds returned by the service and
// repository layers. Every error produced here matches its kind with errors.Is,
// so callers (HTTP handlers, tests) can branch on the kind without parsing
// messages.
package apperror

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel kinds.
var (
	ErrValidation          = errors.New("validation")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidStock        = errors.New("invalid stock")
	ErrInvalidDiscount     = errors.New("invalid discount")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrInvalidState        = errors.New("invalid state")
	ErrDuplicateClosing    = errors.New("duplicate closing")
)

// Error carries a kind, a user-facing message and an optional cause.
type Error struct {
	Kind    error
	Message string
	// Fields is only populated for validation errors.
	Fields map[string]string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the kind (and the cause, if any) to errors.Is / errors.As.
// A duplicate closing is also an invalid state.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Kind == ErrDuplicateClosing {
		errs = append(errs, ErrInvalidState)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

func newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(msg string) *Error { return &Error{Kind: ErrValidation, Message: msg} }

// ValidationFields reports one message per offending field.
func ValidationFields(fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: "dados invalidos", Fields: fields}
}

func NotFound(entity string) *Error { return newf(ErrNotFound, "%s nao encontrado", entity) }

func DuplicateKey(msg string) *Error { return &Error{Kind: ErrDuplicateKey, Message: msg} }

func InsufficientStock(produto string, disponivel, solicitado int) *Error {
	return newf(ErrInsufficientStock, "estoque insuficiente para %s: disponivel %d, solicitado %d",
		produto, disponivel, solicitado)
}

func InvalidStock(produto string, atual, delta int) *Error {
	return newf(ErrInvalidStock, "ajuste de estoque invalido para %s: atual %d, ajuste %d", produto, atual, delta)
}

func InvalidDiscount(desconto, total decimal.Decimal) *Error {
	return newf(ErrInvalidDiscount, "desconto %s invalido para total %s", desconto.StringFixed(2), total.StringFixed(2))
}

func InsufficientPayment(pago, devido decimal.Decimal) *Error {
	return newf(ErrInsufficientPayment, "valor pago %s menor que o total %s", pago.StringFixed(2), devido.StringFixed(2))
}

func InvalidState(msg string) *Error { return &Error{Kind: ErrInvalidState, Message: msg} }

func DuplicateClosing(data string) *Error {
	return newf(ErrDuplicateClosing, "ja existe fechamento para %s", data)
}

// Wrap attaches a kind and message to a lower-level cause.
func Wrap(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// KindOf returns the sentinel kind of err, or nil when err is not a domain error.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
