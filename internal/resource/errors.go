package resource

import (
	"errors"
	"fmt"
)

// ValidationError is a local pre-flight failure. It short-circuits before
// any network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateSale enforces the sale invariants before any network call:
// positive quantity, never more than is on hand.
func ValidateSale(quantity, stock int) error {
	if quantity <= 0 {
		return &ValidationError{Message: fmt.Sprintf("sale quantity must be positive, got %d", quantity)}
	}
	if quantity > stock {
		return &ValidationError{Message: fmt.Sprintf("cannot sell %d units, only %d in stock", quantity, stock)}
	}
	return nil
}

// ValidateAdjust rejects negative absolute stock targets.
func ValidateAdjust(stock int) error {
	if stock < 0 {
		return &ValidationError{Message: fmt.Sprintf("stock cannot be negative, got %d", stock)}
	}
	return nil
}

// ValidateRestock rejects non-positive restock quantities.
func ValidateRestock(quantity int) error {
	if quantity <= 0 {
		return &ValidationError{Message: fmt.Sprintf("restock quantity must be positive, got %d", quantity)}
	}
	return nil
}

func errUnknownProduct(id string) error {
	return &ValidationError{Message: "unknown product: " + id}
}
