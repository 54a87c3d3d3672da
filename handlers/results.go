package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/elinspect/models"
	"p9e.in/elinspect/protocol"
)

// UpsertResult writes the single result record of a point. Whether the
// point had a result before or not, afterwards it has exactly one; the
// original creation timestamp survives a replace.
func (h *Handler) UpsertResult(w http.ResponseWriter, r *http.Request) {
	var result models.MeasurementResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	result.PointID = mux.Vars(r)["id"]
	if err := h.Store.UpsertResult(r.Context(), &result); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result": result,
		"status": protocol.DeriveStatus(&result),
	})
}

func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.Store.GetResultByPoint(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result": result,
		"status": protocol.DeriveStatus(result),
	})
}

func (h *Handler) DeleteResult(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteResult(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
