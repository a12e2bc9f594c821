package models

import (
	"errors"
	"fmt"
)

// ErrAccessDenied is returned when an operation requiring an
// authenticated account is invoked on a guest session.
var ErrAccessDenied = errors.New("not logged in")

// ErrStaleSnapshot is returned when the commit-time freshness check
// fails: another session has written the slot since this session last
// loaded it. The session has already been refreshed to the current
// state; the operation can be retried as-is.
var ErrStaleSnapshot = errors.New("ledger snapshot is out of date")

// ValidationError reports an entity field failing its range or format
// check at construction time. Entities that fail validation never
// enter a ledger.
type ValidationError struct {
	Entity string
	Field  string
	Value  any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %v", e.Entity, e.Field, e.Value)
}

func newValidationError(entity, field string, value any) error {
	return &ValidationError{Entity: entity, Field: field, Value: value}
}

// Transaction failure reasons.
const (
	ReasonUnknownStock      = "stock doesn't exist"
	ReasonNotEnoughQuantity = "not enough quantity"
	ReasonNotEnoughMoney    = "not enough money"
	ReasonInvalidQuantity   = "invalid quantity"
)

// TransactionError reports a business-rule violation during a
// transactional operation. The reason string is caller-displayable.
type TransactionError struct {
	Reason string
}

func (e *TransactionError) Error() string {
	return "transaction failed: " + e.Reason
}

// NewTransactionError wraps a failure reason in a TransactionError.
func NewTransactionError(reason string) error {
	return &TransactionError{Reason: reason}
}

// IsTransactionError reports whether err is a TransactionError with
// the given reason.
func IsTransactionError(err error, reason string) bool {
	var te *TransactionError
	return errors.As(err, &te) && te.Reason == reason
}
