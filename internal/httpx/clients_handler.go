package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adiwicaksono/go-shop-backend/internal/clients"
)

type ClientsHandler struct {
	Repo *clients.Repo
}

func (h *ClientsHandler) Register(r *chi.Mux) {
	r.Get("/clients", h.list)
	r.Get("/clients/{id}", h.get)
	r.Post("/clients", h.create)
	r.Put("/clients/{id}", h.update)
	r.Delete("/clients/{id}", h.delete)
}

func validClient(in clients.Input) bool {
	return in.Name != "" && strings.Contains(in.Email, "@")
}

func (h *ClientsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	skip, limit := pagination(r)
	cs, err := h.Repo.List(ctx, skip, limit)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if cs == nil {
		cs = []clients.Client{}
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *ClientsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Repo.Get(ctx, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ClientsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in clients.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || !validClient(in) {
		writeErr(w, http.StatusBadRequest, "name and valid email are required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Repo.Create(ctx, in)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ClientsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in clients.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || !validClient(in) {
		writeErr(w, http.StatusBadRequest, "name and valid email are required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Repo.Update(ctx, id, in)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ClientsHandler) delete(w http.ResponseWriter, r *http.Request) {
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
	w.WriteHeader(http.StatusNoContent)
}
