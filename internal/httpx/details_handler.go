package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/adiwicaksono/go-shop-backend/internal/kafka"
	"github.com/adiwicaksono/go-shop-backend/internal/orders"
)

// Reserver: operasi reservasi yang dipakai handler. Dipenuhi
// *orders.ReservationManager.
type Reserver interface {
	Create(ctx context.Context, in orders.CreateDetail) (*orders.OrderDetail, error)
	Update(ctx context.Context, id int64, patch orders.DetailPatch) (*orders.OrderDetail, error)
	Delete(ctx context.Context, id int64) error
}

// DetailReader: read model order detail. Dipenuhi *orders.DetailRepo.
type DetailReader interface {
	List(ctx context.Context, skip, limit int) ([]orders.OrderDetail, error)
	Get(ctx context.Context, id int64) (*orders.OrderDetail, error)
}

// DetailsHandler: endpoint order detail. Write lewat Reserver
// (transaksi + row lock), read lewat DetailReader. Event stok
// dipublish setelah commit sukses.
type DetailsHandler struct {
	Manager Reserver
	Reads   DetailReader

	ProducerReserved *kafkax.Producer
	ProducerAdjusted *kafkax.Producer
	ProducerReleased *kafkax.Producer
	Service          string
}

func (h *DetailsHandler) Register(r *chi.Mux) {
	r.Get("/order-details", h.list)
	r.Get("/order-details/{id}", h.get)
	r.Post("/order-details", h.create)
	r.Put("/order-details/{id}", h.update)
	r.Delete("/order-details/{id}", h.delete)
}

func (h *DetailsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	skip, limit := pagination(r)
	ds, err := h.Reads.List(ctx, skip, limit)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if ds == nil {
		ds = []orders.OrderDetail{}
	}
	writeJSON(w, http.StatusOK, ds)
}

func (h *DetailsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	d, err := h.Reads.Get(ctx, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DetailsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in orders.CreateDetail
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.OrderID == 0 || in.ProductID == 0 {
		writeErr(w, http.StatusBadRequest, "order_id and product_id are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	d, err := h.Manager.Create(ctx, in)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	h.publish(h.ProducerReserved, orders.EventStockReserved, d.OrderID,
		r.Header.Get("X-Request-Id"),
		orders.StockReservedPayload{
			OrderID:       d.OrderID,
			OrderDetailID: d.ID,
			ProductID:     d.ProductID,
			Quantity:      d.Quantity,
			Price:         d.Price,
		})

	writeJSON(w, http.StatusCreated, d)
}

func (h *DetailsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	var patch orders.DetailPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// product lama dibaca dulu hanya utk payload event
	var oldProductID int64
	if prev, err := h.Reads.Get(ctx, id); err == nil {
		oldProductID = prev.ProductID
	}

	d, err := h.Manager.Update(ctx, id, patch)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	h.publish(h.ProducerAdjusted, orders.EventStockAdjusted, d.OrderID,
		r.Header.Get("X-Request-Id"),
		orders.StockAdjustedPayload{
			OrderID:       d.OrderID,
			OrderDetailID: d.ID,
			ProductID:     d.ProductID,
			OldProductID:  oldProductID,
			Quantity:      d.Quantity,
		})

	writeJSON(w, http.StatusOK, d)
}

func (h *DetailsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// snapshot buat event release; kalau detail tidak ada, Delete di
	// bawah yang return 404
	prev, prevErr := h.Reads.Get(ctx, id)

	if err := h.Manager.Delete(ctx, id); err != nil {
		writeDomainErr(w, err)
		return
	}

	if prevErr == nil {
		h.publish(h.ProducerReleased, orders.EventStockReleased, prev.OrderID,
			r.Header.Get("X-Request-Id"),
			orders.StockReleasedPayload{
				OrderID:       prev.OrderID,
				OrderDetailID: prev.ID,
				ProductID:     prev.ProductID,
				Quantity:      prev.Quantity,
			})
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DetailsHandler) publish(p *kafkax.Producer, eventType string, orderID int64, trace string, payload any) {
	if p == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       trace,
		CorrelationID: string(orders.PartitionKey(orderID)),
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
