package orders

import (
	"encoding/json"
	"time"
)

const (
	EventStockReserved = "StockReserved"
	EventStockAdjusted = "StockAdjusted"
	EventStockReleased = "StockReleased"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "shop-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload per event ----

type StockReservedPayload struct {
	OrderID       int64   `json:"order_id"`
	OrderDetailID int64   `json:"order_detail_id"`
	ProductID     int64   `json:"product_id"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
}

type StockAdjustedPayload struct {
	OrderID       int64 `json:"order_id"`
	OrderDetailID int64 `json:"order_detail_id"`
	ProductID     int64 `json:"product_id"`
	// OldProductID terisi (dan beda) kalau line item pindah product.
	OldProductID int64 `json:"old_product_id"`
	Quantity     int   `json:"quantity"`
}

type StockReleasedPayload struct {
	OrderID       int64 `json:"order_id"`
	OrderDetailID int64 `json:"order_detail_id"`
	ProductID     int64 `json:"product_id"`
	Quantity      int   `json:"quantity"`
}
