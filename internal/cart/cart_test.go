package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddAccumulatesQuantity(t *testing.T) {
	c := Empty()
	c.Add(Item{ProductID: 1, Quantity: 2, Name: "kopi", Price: 3.50})
	c.Add(Item{ProductID: 1, Quantity: 1, Name: "kopi", Price: 3.50})
	c.Add(Item{ProductID: 2, Quantity: 1, Name: "teh", Price: 2.00})

	assert.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 4, c.ItemCount)
	assert.InDelta(t, 12.50, c.Total, 1e-9)
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	c := Empty()
	c.Add(Item{ProductID: 1, Quantity: 2, Price: 3.50})
	c.Add(Item{ProductID: 2, Quantity: 1, Price: 2.00})

	c.SetQuantity(1, 0)
	assert.Len(t, c.Items, 1)
	assert.Equal(t, int64(2), c.Items[0].ProductID)
	assert.InDelta(t, 2.00, c.Total, 1e-9)

	c.SetQuantity(2, 5)
	assert.Equal(t, 5, c.ItemCount)
	assert.InDelta(t, 10.00, c.Total, 1e-9)
}

func TestSetQuantityUnknownProductNoop(t *testing.T) {
	c := Empty()
	c.Add(Item{ProductID: 1, Quantity: 1, Price: 1.00})
	c.SetQuantity(99, 3)
	assert.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.ItemCount)
}

func TestMergeCombinesItems(t *testing.T) {
	user := Empty()
	user.Add(Item{ProductID: 1, Quantity: 1, Price: 1.00})

	guest := Empty()
	guest.Add(Item{ProductID: 1, Quantity: 2, Price: 1.00})
	guest.Add(Item{ProductID: 3, Quantity: 1, Price: 5.00})

	user.Merge(guest)
	assert.Len(t, user.Items, 2)
	assert.Equal(t, 3, user.Items[0].Quantity)
	assert.Equal(t, 4, user.ItemCount)
	assert.InDelta(t, 8.00, user.Total, 1e-9)
}
