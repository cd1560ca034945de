package redisx

import "time"

const (
	// Cart per session: cart:{session_id} -> JSON cart
	KeyCart = "cart:%s"

	// Cache product tunggal: products:id:{id} -> JSON product
	KeyProduct = "products:id:%d"

	// Cache list product: products:list:{skip}:{limit} -> JSON array
	KeyProductList = "products:list:%d:%d"

	// Pattern invalidasi list cache
	PatternProductList = "products:list:*"

	// Dedup event processing worker: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCart         = 24 * time.Hour
	TTLProductCache = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
)
