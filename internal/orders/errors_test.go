package orders

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDomainErrorThroughWrapping(t *testing.T) {
	base := &InsufficientStockError{ProductID: 1, Requested: 5, Available: 2}
	wrapped := fmt.Errorf("create detail: %w", base)

	assert.True(t, IsDomainError(base))
	assert.True(t, IsDomainError(wrapped))
	assert.True(t, IsDomainError(&NotFoundError{Entity: "order", ID: 3}))
	assert.True(t, IsDomainError(&PriceMismatchError{Expected: 1, Got: 2}))
	assert.True(t, IsDomainError(fmt.Errorf("wrap: %w", ErrInvalidQuantity)))
	assert.False(t, IsDomainError(assert.AnError))
	assert.False(t, IsDomainError(nil))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "order with id 9 not found",
		(&NotFoundError{Entity: "order", ID: 9}).Error())
	assert.Equal(t, "insufficient stock for product 4: requested 10, available 3",
		(&InsufficientStockError{ProductID: 4, Requested: 10, Available: 3}).Error())
	assert.Equal(t, "price mismatch: expected 9.99, got 12.00",
		(&PriceMismatchError{Expected: 9.99, Got: 12}).Error())
}
