package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/adiwicaksono/go-shop-backend/internal/catalog"
	"github.com/adiwicaksono/go-shop-backend/internal/redisx"
)

// ProductsHandler: CRUD product dengan read-through cache di Redis.
// Cache stok bisa basi maksimal TTLProductCache; worker invalidator
// memangkasnya lebih cepat lewat event stok.
type ProductsHandler struct {
	Repo  *catalog.ProductRepo
	Redis *redis.Client
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)
	r.Post("/products", h.create)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	skip, limit := pagination(r)
	key := fmt.Sprintf(redisx.KeyProductList, skip, limit)

	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(s))
		return
	}

	ps, err := h.Repo.List(ctx, skip, limit)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if ps == nil {
		ps = []catalog.Product{}
	}

	b, _ := json.Marshal(ps)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLProductCache).Err()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyProduct, id)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(s))
		return
	}

	p, err := h.Repo.Get(ctx, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	b, _ := json.Marshal(p)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLProductCache).Err()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Name == "" || in.Price <= 0 || in.Stock < 0 || in.CategoryID == 0 {
		writeErr(w, http.StatusBadRequest, "missing or invalid fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Repo.Create(ctx, in)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	h.invalidateList(ctx)
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Name == "" || in.Price <= 0 || in.CategoryID == 0 {
		writeErr(w, http.StatusBadRequest, "missing or invalid fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Repo.Update(ctx, id, in)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyProduct, id)).Err()
	h.invalidateList(ctx)
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		writeDomainErr(w, err)
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyProduct, id)).Err()
	h.invalidateList(ctx)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductsHandler) invalidateList(ctx context.Context) {
	_, _ = redisx.DeletePattern(ctx, h.Redis, redisx.PatternProductList)
}
