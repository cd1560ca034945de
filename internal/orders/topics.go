package orders

import "strconv"

const (
	TopicStockReserved = "order.detail.reserved"
	TopicStockAdjusted = "order.detail.adjusted"
	TopicStockReleased = "order.detail.released"
)

// Partition key = order_id, supaya event utk 1 order maintain urutan.
func PartitionKey(orderID int64) []byte {
	return []byte(strconv.FormatInt(orderID, 10))
}
