package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"p9e.in/elinspect/handlers"
	"p9e.in/elinspect/models"
	"p9e.in/elinspect/routes"
	"p9e.in/elinspect/store"
)

func newServer(t *testing.T) (http.Handler, store.Store) {
	t.Helper()
	s := store.NewKVStore(store.NewMemoryKV())
	h := handlers.New(s, zap.NewNop())
	return routes.RegisterRoutes(h, zap.NewNop()), s
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestHealthz(t *testing.T) {
	srv, _ := newServer(t)
	rec := doJSON(t, srv, "GET", "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestClientCRUD(t *testing.T) {
	srv, _ := newServer(t)

	rec := doJSON(t, srv, "POST", "/api/v1/clients", map[string]any{
		"name":    "ABC",
		"address": "Main St",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Client
	decode(t, rec, &created)
	require.NotEmpty(t, created.ID)

	rec = doJSON(t, srv, "GET", "/api/v1/clients/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, "PUT", "/api/v1/clients/"+created.ID, map[string]any{
		"name":    "ABC GmbH",
		"address": "Main St 2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Client
	decode(t, rec, &updated)
	require.Equal(t, "ABC GmbH", updated.Name)

	rec = doJSON(t, srv, "GET", "/api/v1/clients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Clients []models.Client `json:"clients"`
		Count   int             `json:"count"`
	}
	decode(t, rec, &list)
	require.Equal(t, 1, list.Count)

	rec = doJSON(t, srv, "DELETE", "/api/v1/clients/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, "GET", "/api/v1/clients/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateClientValidation(t *testing.T) {
	srv, _ := newServer(t)

	rec := doJSON(t, srv, "POST", "/api/v1/clients", map[string]any{"address": "Main St"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "name")

	req := httptest.NewRequest("POST", "/api/v1/clients", strings.NewReader("{broken"))
	rec2 := httptest.NewRecorder()
	srv.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestDeleteClientWithOrdersConflicts(t *testing.T) {
	srv, s := newServer(t)
	ctx := context.Background()

	c := &models.Client{Name: "ABC", Address: "Main St"}
	require.NoError(t, s.CreateClient(ctx, c))
	o := &models.InspectionOrder{ClientID: c.ID, ObjectName: "Office", Address: "Main St 1"}
	require.NoError(t, s.CreateOrder(ctx, o))

	rec := doJSON(t, srv, "DELETE", "/api/v1/clients/"+c.ID, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Still there.
	_, err := s.GetClient(ctx, c.ID)
	require.NoError(t, err)
}

func TestOrderStatusForcedOnCreate(t *testing.T) {
	srv, s := newServer(t)
	c := &models.Client{Name: "ABC", Address: "Main St"}
	require.NoError(t, s.CreateClient(context.Background(), c))

	rec := doJSON(t, srv, "POST", "/api/v1/orders", map[string]any{
		"clientId":   c.ID,
		"objectName": "Office",
		"address":    "Main St 1",
		"status":     "done",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var order models.InspectionOrder
	decode(t, rec, &order)
	require.Equal(t, models.OrderStatusDraft, order.Status)
}

func TestOrderUnknownClientRejected(t *testing.T) {
	srv, _ := newServer(t)
	rec := doJSON(t, srv, "POST", "/api/v1/orders", map[string]any{
		"clientId":   "nope",
		"objectName": "Office",
		"address":    "Main St 1",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResultUpsertRoute(t *testing.T) {
	srv, s := newServer(t)
	ctx := context.Background()

	c := &models.Client{Name: "ABC", Address: "Main St"}
	require.NoError(t, s.CreateClient(ctx, c))
	o := &models.InspectionOrder{
		ClientID: c.ID, ObjectName: "Office", Address: "Main St 1",
		Scope: models.MeasurementScope{LoopImpedance: true},
	}
	require.NoError(t, s.CreateOrder(ctx, o))
	p := &models.MeasurementPoint{OrderID: o.ID, Label: "P1", Type: models.PointTypeSocket1P}
	require.NoError(t, s.CreatePoint(ctx, p))

	rec := doJSON(t, srv, "GET", "/api/v1/points/"+p.ID+"/result", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, "PUT", "/api/v1/points/"+p.ID+"/result", map[string]any{
		"loopImpedance":  0.5,
		"loopResultPass": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Result models.MeasurementResult `json:"result"`
		Status string                   `json:"status"`
	}
	decode(t, rec, &resp)
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, p.ID, resp.Result.PointID)

	// Second write updates in place.
	rec = doJSON(t, srv, "PUT", "/api/v1/points/"+p.ID+"/result", map[string]any{
		"loopImpedance":  0.9,
		"loopResultPass": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	require.Equal(t, "not_ok", resp.Status)

	stored, err := s.GetResultByPoint(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0.9, *stored.LoopImpedance)
}

func TestProtocolRoutes(t *testing.T) {
	srv, s := newServer(t)
	ctx := context.Background()

	c := &models.Client{Name: "ABC", Address: "Main St"}
	require.NoError(t, s.CreateClient(ctx, c))
	o := &models.InspectionOrder{
		ClientID: c.ID, ObjectName: "Office", Address: "Main St 1",
		Scope: models.MeasurementScope{LoopImpedance: true},
	}
	require.NoError(t, s.CreateOrder(ctx, o))
	p := &models.MeasurementPoint{OrderID: o.ID, Label: "P1", Type: models.PointTypeSocket1P}
	require.NoError(t, s.CreatePoint(ctx, p))
	require.NoError(t, s.UpsertResult(ctx, &models.MeasurementResult{
		PointID: p.ID, LoopImpedance: fp(0.5), LoopResultPass: bp(true),
	}))

	base := fmt.Sprintf("/api/v1/orders/%s/protocol", o.ID)

	rec := doJSON(t, srv, "POST", base, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, "GET", base+"/html", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "Loop: 0.5Ω")

	rec = doJSON(t, srv, "GET", base+"/csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	require.Contains(t, rec.Body.String(), "P1")

	rec = doJSON(t, srv, "GET", base+"/xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotZero(t, rec.Body.Len())

	rec = doJSON(t, srv, "GET", fmt.Sprintf("/api/v1/orders/%s/protocols", o.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var hist struct {
		Count int `json:"count"`
	}
	decode(t, rec, &hist)
	require.Equal(t, 1, hist.Count)
}

func TestProtocolUnknownOrder(t *testing.T) {
	srv, _ := newServer(t)
	rec := doJSON(t, srv, "GET", "/api/v1/orders/missing/protocol/html", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func fp(f float64) *float64 { return &f }
func bp(b bool) *bool       { return &b }
