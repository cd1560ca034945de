package orders

import (
	"errors"
	"fmt"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// NotFoundError: order, product, atau order detail yang direferensikan tidak ada.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// InsufficientStockError: stok product kurang dari jumlah yang diminta.
// Pada Update, Requested adalah delta tambahan, bukan quantity total.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// PriceMismatchError: harga dari client beda > 0.01 dari harga product.
type PriceMismatchError struct {
	Expected float64
	Got      float64
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("price mismatch: expected %.2f, got %.2f", e.Expected, e.Got)
}

// IsDomainError: true kalau err salah satu error domain di atas
// (client-visible, 4xx). Selain itu dianggap TransactionFailure (5xx).
func IsDomainError(err error) bool {
	var nf *NotFoundError
	var is *InsufficientStockError
	var pm *PriceMismatchError
	return errors.As(err, &nf) || errors.As(err, &is) || errors.As(err, &pm) ||
		errors.Is(err, ErrInvalidQuantity)
}
