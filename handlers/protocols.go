package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"p9e.in/elinspect/models"
	"p9e.in/elinspect/protocol"
)

// GenerateProtocol aggregates the order's full graph, renders the
// document, keeps a snapshot for history and returns the protocol data.
func (h *Handler) GenerateProtocol(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	data, err := h.Gen.Generate(r.Context(), orderID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	html, err := protocol.RenderHTML(data)
	if err != nil {
		http.Error(w, "failed to render protocol", http.StatusInternalServerError)
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "failed to encode protocol", http.StatusInternalServerError)
		return
	}
	snapshot := models.ProtocolSnapshot{OrderID: orderID, Data: payload, HTML: html}
	if err := h.Store.SaveProtocolSnapshot(r.Context(), &snapshot); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"snapshotId": snapshot.ID,
		"protocol":   data,
	})
}

// ProtocolHTML renders the protocol document for printing.
func (h *Handler) ProtocolHTML(w http.ResponseWriter, r *http.Request) {
	data, err := h.Gen.Generate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	html, err := protocol.RenderHTML(data)
	if err != nil {
		http.Error(w, "failed to render protocol", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// ProtocolXLSX downloads the protocol result table as an Excel workbook.
func (h *Handler) ProtocolXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.Gen.Generate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	file, err := protocol.ExportXLSX(data)
	if err != nil {
		http.Error(w, "failed to generate Excel file", http.StatusInternalServerError)
		return
	}
	buffer, err := file.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to write Excel file", http.StatusInternalServerError)
		return
	}
	filename := fmt.Sprintf("protocol_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// ProtocolCSV downloads the protocol result table as CSV.
func (h *Handler) ProtocolCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Gen.Generate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	csvData, err := protocol.ExportCSV(data)
	if err != nil {
		http.Error(w, "failed to generate CSV file", http.StatusInternalServerError)
		return
	}
	filename := fmt.Sprintf("protocol_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(csvData)))
	w.WriteHeader(http.StatusOK)
	w.Write(csvData)
}

// ListProtocolSnapshots returns the generation history of an order.
func (h *Handler) ListProtocolSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.Store.ListProtocolSnapshots(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshots": snaps,
		"count":     len(snaps),
	})
}
