package orders

import "time"

type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "PICKUP"
	DeliveryCourier DeliveryMethod = "COURIER"
	DeliveryExpress DeliveryMethod = "EXPRESS"
)

type Order struct {
	ID             int64          `json:"id"`
	Date           time.Time      `json:"date"`
	Total          float64        `json:"total"`
	DeliveryMethod DeliveryMethod `json:"delivery_method"`
	Status         Status         `json:"status"` // lihat status.go
	ClientID       int64          `json:"client_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type OrderInput struct {
	Date           *time.Time     `json:"date,omitempty"`
	Total          float64        `json:"total"`
	DeliveryMethod DeliveryMethod `json:"delivery_method"`
	ClientID       int64          `json:"client_id"`
}

// OrderDetail: price adalah snapshot harga product saat line item dibuat.
// Backend yang otoritatif atas harga (toleransi 0.01 thd harga product).
type OrderDetail struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateDetail: input operasi Create. Price nil = pakai harga product.
type CreateDetail struct {
	OrderID   int64    `json:"order_id"`
	ProductID int64    `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Price     *float64 `json:"price,omitempty"`
}

// DetailPatch: field OrderDetail yang boleh diubah lewat Update,
// eksplisit per field (nil = tidak diubah). Tanpa setattr/reflection.
type DetailPatch struct {
	OrderID   *int64 `json:"order_id,omitempty"`
	ProductID *int64 `json:"product_id,omitempty"`
	Quantity  *int   `json:"quantity,omitempty"`
}
