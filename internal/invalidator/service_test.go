package invalidator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/adiwicaksono/go-shop-backend/internal/kafka"
	"github.com/adiwicaksono/go-shop-backend/internal/orders"
)

func envelope(eventType string, payload any) orders.Envelope {
	return orders.Envelope{
		EventID:   "evt-1",
		EventType: eventType,
		Payload:   kafkax.MustMarshal(payload),
	}
}

func TestAffectedProductsReserved(t *testing.T) {
	env := envelope(orders.EventStockReserved,
		orders.StockReservedPayload{OrderID: 1, ProductID: 5, Quantity: 2})

	ids, err := affectedProducts(env)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, ids)
}

func TestAffectedProductsAdjustedWithReassignment(t *testing.T) {
	env := envelope(orders.EventStockAdjusted,
		orders.StockAdjustedPayload{OrderID: 1, ProductID: 7, OldProductID: 5, Quantity: 2})

	ids, err := affectedProducts(env)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 5}, ids)
}

func TestAffectedProductsAdjustedSameProduct(t *testing.T) {
	env := envelope(orders.EventStockAdjusted,
		orders.StockAdjustedPayload{OrderID: 1, ProductID: 7, OldProductID: 7, Quantity: 2})

	ids, err := affectedProducts(env)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids)
}

func TestAffectedProductsUnknownTypeIgnored(t *testing.T) {
	env := envelope("SomethingElse", map[string]int{"x": 1})

	ids, err := affectedProducts(env)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
