package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/adiwicaksono/go-shop-backend/internal/catalog"
	"github.com/adiwicaksono/go-shop-backend/internal/clients"
	"github.com/adiwicaksono/go-shop-backend/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeDomainErr petakan error domain ke status code:
// not found -> 404, validasi (stok/harga/quantity) -> 400,
// product masih punya sales -> 409, sisanya -> 500.
func writeDomainErr(w http.ResponseWriter, err error) {
	var nf *orders.NotFoundError
	switch {
	case errors.As(err, &nf),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, clients.ErrClientNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case orders.IsDomainError(err):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrProductHasSales), errors.Is(err, catalog.ErrCategoryTaken):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		// jangan bocorkan detail internal ke client
		log.Error().Err(err).Msg("request failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	return id, err == nil
}

// skip/limit dari query string, default 0/100.
func pagination(r *http.Request) (skip, limit int) {
	skip, limit = 0, 100
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	return skip, limit
}
