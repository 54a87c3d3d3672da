package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/elinspect/models"
)

// UpsertVisualInspection writes the order's single visual-inspection
// record, replacing any previous one in place.
func (h *Handler) UpsertVisualInspection(w http.ResponseWriter, r *http.Request) {
	var visual models.VisualInspection
	if err := json.NewDecoder(r.Body).Decode(&visual); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	visual.OrderID = mux.Vars(r)["id"]
	if err := h.Store.UpsertVisualInspection(r.Context(), &visual); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visual)
}

func (h *Handler) GetVisualInspection(w http.ResponseWriter, r *http.Request) {
	visual, err := h.Store.GetVisualInspectionByOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visual)
}

func (h *Handler) DeleteVisualInspection(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteVisualInspection(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
