package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"p9e.in/elinspect/handlers"
	"p9e.in/elinspect/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(h *handlers.Handler, log *zap.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestLogger(log))

	// Clients
	api.HandleFunc("/clients", h.CreateClient).Methods("POST")
	api.HandleFunc("/clients", h.ListClients).Methods("GET")
	api.HandleFunc("/clients/{id}", h.GetClient).Methods("GET")
	api.HandleFunc("/clients/{id}", h.UpdateClient).Methods("PUT")
	api.HandleFunc("/clients/{id}", h.DeleteClient).Methods("DELETE")

	// Inspection orders
	api.HandleFunc("/orders", h.CreateOrder).Methods("POST")
	api.HandleFunc("/orders", h.ListOrders).Methods("GET")
	api.HandleFunc("/orders/{id}", h.GetOrder).Methods("GET")
	api.HandleFunc("/orders/{id}", h.UpdateOrder).Methods("PUT")
	api.HandleFunc("/orders/{id}", h.DeleteOrder).Methods("DELETE")

	// Rooms
	api.HandleFunc("/rooms", h.CreateRoom).Methods("POST")
	api.HandleFunc("/orders/{id}/rooms", h.ListRooms).Methods("GET")
	api.HandleFunc("/rooms/{id}", h.UpdateRoom).Methods("PUT")
	api.HandleFunc("/rooms/{id}", h.DeleteRoom).Methods("DELETE")

	// Measurement points
	api.HandleFunc("/points", h.CreatePoint).Methods("POST")
	api.HandleFunc("/orders/{id}/points", h.ListPoints).Methods("GET")
	api.HandleFunc("/points/{id}", h.GetPoint).Methods("GET")
	api.HandleFunc("/points/{id}", h.UpdatePoint).Methods("PUT")
	api.HandleFunc("/points/{id}", h.DeletePoint).Methods("DELETE")

	// Measurement results (one per point, upsert semantics)
	api.HandleFunc("/points/{id}/result", h.UpsertResult).Methods("PUT")
	api.HandleFunc("/points/{id}/result", h.GetResult).Methods("GET")
	api.HandleFunc("/results/{id}", h.DeleteResult).Methods("DELETE")

	// Visual inspection (one per order, upsert semantics)
	api.HandleFunc("/orders/{id}/visual-inspection", h.UpsertVisualInspection).Methods("PUT")
	api.HandleFunc("/orders/{id}/visual-inspection", h.GetVisualInspection).Methods("GET")
	api.HandleFunc("/visual-inspections/{id}", h.DeleteVisualInspection).Methods("DELETE")

	// Protocol generation and export
	api.HandleFunc("/orders/{id}/protocol", h.GenerateProtocol).Methods("POST")
	api.HandleFunc("/orders/{id}/protocol/html", h.ProtocolHTML).Methods("GET")
	api.HandleFunc("/orders/{id}/protocol/xlsx", h.ProtocolXLSX).Methods("GET")
	api.HandleFunc("/orders/{id}/protocol/csv", h.ProtocolCSV).Methods("GET")
	api.HandleFunc("/orders/{id}/protocols", h.ListProtocolSnapshots).Methods("GET")

	return r
}
