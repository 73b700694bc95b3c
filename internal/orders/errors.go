package orders

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart     = errors.New("cart has no lines")
	ErrOrderNotFound = errors.New("order not found")
)

// ProductsNotFoundError lists every cart product id missing from the catalog.
type ProductsNotFoundError struct {
	IDs []string
}

func (e *ProductsNotFoundError) Error() string {
	return fmt.Sprintf("unknown products: %s", strings.Join(e.IDs, ", "))
}

// InsufficientStockError identifies the product that blocked a reservation
// and how much was actually available.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Required  int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: required %d, available %d",
		e.Name, e.Required, e.Available)
}

// TotalMismatchError rejects caller-supplied totals that disagree with the
// prices resolved inside the transaction.
type TotalMismatchError struct {
	Given    int
	Computed int
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("order total %d does not match computed total %d", e.Given, e.Computed)
}

// AlreadyCancelledError is returned on repeated cancellation. Repeats are
// reported, never silently ignored.
type AlreadyCancelledError struct {
	OrderID string
}

func (e *AlreadyCancelledError) Error() string {
	return fmt.Sprintf("order %s is already cancelled", e.OrderID)
}

// NotCancellableError covers every state the transition table refuses to
// cancel from.
type NotCancellableError struct {
	OrderID string
	Status  Status
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("order %s cannot be cancelled from status %s", e.OrderID, e.Status)
}

// IsConflict reports whether err is a validation or business-rule conflict
// rather than an infrastructure fault.
func IsConflict(err error) bool {
	var (
		notFound  *ProductsNotFoundError
		stock     *InsufficientStockError
		mismatch  *TotalMismatchError
		cancelled *AlreadyCancelledError
		blocked   *NotCancellableError
	)
	return errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrOrderNotFound) ||
		errors.As(err, &notFound) || errors.As(err, &stock) ||
		errors.As(err, &mismatch) || errors.As(err, &cancelled) ||
		errors.As(err, &blocked)
}
