package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/elinspect/models"
	"p9e.in/elinspect/protocol"
)

func (h *Handler) CreatePoint(w http.ResponseWriter, r *http.Request) {
	var point models.MeasurementPoint
	if err := json.NewDecoder(r.Body).Decode(&point); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Store.CreatePoint(r.Context(), &point); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, point)
}

func (h *Handler) GetPoint(w http.ResponseWriter, r *http.Request) {
	point, err := h.Store.GetPoint(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, point)
}

// ListPoints returns an order's points with their derived status and the
// categories relevant for each point's type, so a form can decide which
// fields to show without re-deriving anything.
func (h *Handler) ListPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.Store.ListPoints(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	type pointView struct {
		models.MeasurementPoint
		Status     protocol.Status     `json:"status"`
		Categories []protocol.Category `json:"relevantCategories"`
	}
	views := make([]pointView, 0, len(points))
	for _, p := range points {
		res, err := h.Store.GetResultByPoint(r.Context(), p.ID)
		if err != nil && !isNotFound(err) {
			h.writeStoreError(w, err)
			return
		}
		views = append(views, pointView{
			MeasurementPoint: p,
			Status:           protocol.DeriveStatus(res),
			Categories:       protocol.RelevantCategories(p.Type),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"points": views,
		"count":  len(views),
	})
}

func (h *Handler) UpdatePoint(w http.ResponseWriter, r *http.Request) {
	var point models.MeasurementPoint
	if err := json.NewDecoder(r.Body).Decode(&point); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	point.ID = mux.Vars(r)["id"]
	if err := h.Store.UpdatePoint(r.Context(), &point); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, point)
}

func (h *Handler) DeletePoint(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeletePoint(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
