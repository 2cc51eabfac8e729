package domain

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable business error code.
type Kind string

const (
	KindNotFound            Kind = "NOT_FOUND"
	KindInvalidAmount       Kind = "INVALID_AMOUNT"
	KindInsufficientBalance Kind = "INSUFFICIENT_BALANCE"
	KindInsufficientStock   Kind = "INSUFFICIENT_STOCK"
	KindSameAccount         Kind = "SAME_ACCOUNT"
	KindDuplicateDelivery   Kind = "DUPLICATE_DELIVERY"
	KindDuplicateInventory  Kind = "DUPLICATE_INVENTORY"
	KindPersonUnavailable   Kind = "PERSON_UNAVAILABLE"
	KindAlreadyDelivered    Kind = "ALREADY_DELIVERED"
	KindAlreadyCancelled    Kind = "ALREADY_CANCELLED"
	KindAlreadyRefunded     Kind = "ALREADY_REFUNDED"
	KindAlreadyCompleted    Kind = "ALREADY_COMPLETED"
	KindNotCompleted        Kind = "NOT_COMPLETED"
	KindInvalidInput        Kind = "INVALID_INPUT"
	KindInvalidTransition   Kind = "INVALID_TRANSITION"
)

// Error is a business rule violation. The Kind tells the transport layer
// what went wrong without parsing the message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Errorf builds an Error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf is shorthand for the most common failure.
func NotFoundf(format string, args ...any) *Error {
	return Errorf(KindNotFound, format, args...)
}

// KindOf extracts the Kind from err, or "" if err is not a business error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a business error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
