package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"p9e.in/elinspect/protocol"
	"p9e.in/elinspect/store"
)

// Handler carries the injected store and logger; every route is a method
// on it. The store is constructed once in main and shared; there is no
// package-level database handle.
type Handler struct {
	Store store.Store
	Log   *zap.Logger
	Gen   *protocol.Generator
}

func New(s store.Store, log *zap.Logger) *Handler {
	return &Handler{Store: s, Log: log, Gen: protocol.NewGenerator(s)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func isNotFound(err error) bool { return errors.Is(err, store.ErrNotFound) }

// writeStoreError maps the store error taxonomy onto HTTP statuses.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	var vErr *store.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "record not found", http.StatusNotFound)
	case errors.Is(err, store.ErrClientHasOrders):
		http.Error(w, "client still has inspection orders; delete them first", http.StatusConflict)
	case errors.As(err, &vErr):
		http.Error(w, vErr.Error(), http.StatusBadRequest)
	default:
		h.Log.Error("storage failure", zap.Error(err))
		http.Error(w, "storage failure, please retry", http.StatusInternalServerError)
	}
}
