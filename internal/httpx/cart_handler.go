package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adiwicaksono/go-shop-backend/internal/cart"
	"github.com/adiwicaksono/go-shop-backend/internal/catalog"
)

const sessionCookie = "cart_session_id"

type CartHandler struct {
	Cart     *cart.Service
	Products *catalog.ProductRepo
}

type addToCartReq struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type updateCartItemReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/cart", h.get)
	r.Post("/cart/items", h.addItem)
	r.Put("/cart/items/{productID}", h.updateItem)
	r.Delete("/cart/items/{productID}", h.removeItem)
	r.Delete("/cart", h.clear)
	r.Post("/cart/merge", h.merge)
}

// sessionID ambil session dari cookie, atau buat baru (uuid).
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		HttpOnly: true,
		MaxAge:   86400, // selaras TTL cart di Redis
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	return id
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Cart.Get(ctx, sessionID(w, r))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addToCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == 0 {
		writeErr(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// snapshot product; stok final tetap divalidasi reservasi saat checkout
	p, err := h.Products.Get(ctx, req.ProductID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	c, err := h.Cart.AddItem(ctx, sessionID(w, r), cart.Item{
		ProductID: p.ID,
		Quantity:  req.Quantity,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathID(r, "productID")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req updateCartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Cart.UpdateItemQuantity(ctx, sessionID(w, r), pid, req.Quantity)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathID(r, "productID")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Cart.RemoveItem(ctx, sessionID(w, r), pid)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Cart.Clear(ctx, sessionID(w, r)); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart.Empty())
}

// merge: body = cart guest (mis. dari local storage sebelum login).
func (h *CartHandler) merge(w http.ResponseWriter, r *http.Request) {
	var guest cart.Cart
	if err := json.NewDecoder(r.Body).Decode(&guest); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Cart.MergeGuest(ctx, sessionID(w, r), guest)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
