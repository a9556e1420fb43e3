package apperrors

import (
	"errors"
	"fmt"
)

// Kind is the stable error code exposed to API clients.
type Kind string

const (
	// KindInvalidItems means the request was empty or malformed; no I/O
	// was attempted.
	KindInvalidItems Kind = "invalid_items"
	// KindInvalidOrder means one or more items failed the
	// existence/quantity/stock checks. Details carries one message per
	// offending item.
	KindInvalidOrder Kind = "invalid_order"
	// KindOrderNotFound means the requested order id does not exist.
	KindOrderNotFound Kind = "order_not_found"
	// KindRetryExhausted wraps the last underlying failure after all retry
	// attempts were spent.
	KindRetryExhausted Kind = "retry_exhausted"
	// KindUnexpected is the generic internal failure; its message never
	// exposes the underlying error.
	KindUnexpected Kind = "unexpected"
)

// Error is a tagged application error. Message is safe to show to users;
// Err (if set) is the underlying cause and is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidItems reports an empty or malformed order request.
func InvalidItems(message string) *Error {
	return &Error{Kind: KindInvalidItems, Message: message}
}

// InvalidOrder reports items that failed validation, one detail message per
// offending item.
func InvalidOrder(details []string) *Error {
	return &Error{
		Kind:    KindInvalidOrder,
		Message: "one or more order items are invalid",
		Details: details,
	}
}

// OrderNotFound reports a missing order id on the read path.
func OrderNotFound(id uint) *Error {
	return &Error{
		Kind:    KindOrderNotFound,
		Message: fmt.Sprintf("order with ID %d not found", id),
	}
}

// RetryExhausted wraps the last failure of a retried operation, tagged with
// the operation label for observability.
func RetryExhausted(label string, attempts int, err error) *Error {
	return &Error{
		Kind:    KindRetryExhausted,
		Message: fmt.Sprintf("%s failed after %d attempts", label, attempts),
		Err:     err,
	}
}

// Unexpected normalizes any other failure to a generic internal error. The
// cause stays wrapped for logging but the message never leaks it.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: "internal error", Err: err}
}

// KindOf returns the kind of err, or KindUnexpected if err carries no tag.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// IsDomain reports whether err is a domain error: a validation or not-found
// outcome that retrying cannot change. Domain errors bypass retry wrapping
// and propagate unchanged.
func IsDomain(err error) bool {
	switch KindOf(err) {
	case KindInvalidItems, KindInvalidOrder, KindOrderNotFound:
		return true
	}
	return false
}
