package protocol

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"p9e.in/elinspect/models"
	"p9e.in/elinspect/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	return store.NewKVStore(store.NewMemoryKV())
}

func seedOrder(t *testing.T, s store.Store, scope models.MeasurementScope) (*models.Client, *models.InspectionOrder) {
	t.Helper()
	ctx := context.Background()
	c := &models.Client{Name: "ABC", Address: "Main St"}
	require.NoError(t, s.CreateClient(ctx, c))
	o := &models.InspectionOrder{
		ClientID:   c.ID,
		ObjectName: "Office",
		Address:    "Main St 1",
		Scope:      scope,
	}
	require.NoError(t, s.CreateOrder(ctx, o))
	return c, o
}

func TestGenerateNotFound(t *testing.T) {
	s := newTestStore(t)
	g := NewGenerator(s)

	_, err := g.Generate(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGenerateGroupsPoints(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, o := seedOrder(t, s, models.MeasurementScope{LoopImpedance: true, Lps: true})

	kitchen := &models.Room{OrderID: o.ID, Name: "Kitchen"}
	require.NoError(t, s.CreateRoom(ctx, kitchen))
	hall := &models.Room{OrderID: o.ID, Name: "Hall"}
	require.NoError(t, s.CreateRoom(ctx, hall))

	// Two points in the kitchen, one unassigned, one LPS.
	k1 := &models.MeasurementPoint{OrderID: o.ID, RoomID: &kitchen.ID, Label: "K1", Type: models.PointTypeSocket1P}
	require.NoError(t, s.CreatePoint(ctx, k1))
	k2 := &models.MeasurementPoint{OrderID: o.ID, RoomID: &kitchen.ID, Label: "K2", Type: models.PointTypeSocket1P}
	require.NoError(t, s.CreatePoint(ctx, k2))
	loose := &models.MeasurementPoint{OrderID: o.ID, Label: "X1", Type: models.PointTypeOther}
	require.NoError(t, s.CreatePoint(ctx, loose))
	rod := &models.MeasurementPoint{OrderID: o.ID, Label: "LPS-1", Type: models.PointTypeLps}
	require.NoError(t, s.CreatePoint(ctx, rod))

	g := NewGenerator(s)
	data, err := g.Generate(ctx, o.ID)
	require.NoError(t, err)

	// Kitchen, Hall (empty), Unassigned; insertion order kept inside rooms.
	require.Len(t, data.Rooms, 3)
	require.Equal(t, "Kitchen", data.Rooms[0].Name)
	require.Equal(t, []string{"K1", "K2"}, []string{data.Rooms[0].Points[0].Point.Label, data.Rooms[0].Points[1].Point.Label})
	require.Equal(t, "Hall", data.Rooms[1].Name)
	require.Empty(t, data.Rooms[1].Points)
	require.Equal(t, UnassignedRoomName, data.Rooms[2].Name)
	require.Equal(t, "X1", data.Rooms[2].Points[0].Point.Label)

	require.NotNil(t, data.Lps)
	require.Equal(t, "LPS-1", data.Lps.Points[0].Point.Label)

	// No results recorded anywhere.
	require.Equal(t, StatusUnmeasured, data.Rooms[0].Points[0].Status)
}

func TestGenerateVisualSection(t *testing.T) {
	ctx := context.Background()

	t.Run("flag set and record present", func(t *testing.T) {
		s := newTestStore(t)
		_, o := seedOrder(t, s, models.MeasurementScope{VisualInspection: true})
		require.NoError(t, s.UpsertVisualInspection(ctx, &models.VisualInspection{
			OrderID: o.ID, Summary: "clean installation", VisualResultPass: bp(true),
		}))
		data, err := NewGenerator(s).Generate(ctx, o.ID)
		require.NoError(t, err)
		require.NotNil(t, data.Visual)
		require.Equal(t, "clean installation", data.Visual.Summary)
	})

	t.Run("flag set without record is not an error", func(t *testing.T) {
		s := newTestStore(t)
		_, o := seedOrder(t, s, models.MeasurementScope{VisualInspection: true})
		data, err := NewGenerator(s).Generate(ctx, o.ID)
		require.NoError(t, err)
		require.Nil(t, data.Visual)
	})

	t.Run("flag unset ignores an existing record", func(t *testing.T) {
		s := newTestStore(t)
		_, o := seedOrder(t, s, models.MeasurementScope{})
		require.NoError(t, s.UpsertVisualInspection(ctx, &models.VisualInspection{
			OrderID: o.ID, Summary: "recorded anyway",
		}))
		data, err := NewGenerator(s).Generate(ctx, o.ID)
		require.NoError(t, err)
		require.Nil(t, data.Visual)
	})
}

// The full path from an empty store to a rendered protocol.
func TestProtocolEndToEnd(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	c := &models.Client{Name: "ABC", Address: "Main St"}
	require.NoError(t, s.CreateClient(ctx, c))

	o := &models.InspectionOrder{
		ClientID:   c.ID,
		ObjectName: "Office",
		Address:    "Main St 1",
		Status:     models.OrderStatusDone, // ignored on create
		Scope:      models.MeasurementScope{LoopImpedance: true},
	}
	require.NoError(t, s.CreateOrder(ctx, o))
	require.Equal(t, models.OrderStatusDraft, o.Status)

	p := &models.MeasurementPoint{OrderID: o.ID, Label: "P1", Type: models.PointTypeSocket1P}
	require.NoError(t, s.CreatePoint(ctx, p))

	res, err := s.GetResultByPoint(ctx, p.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Equal(t, StatusUnmeasured, DeriveStatus(res))

	require.NoError(t, s.UpsertResult(ctx, &models.MeasurementResult{
		PointID:        p.ID,
		LoopImpedance:  fp(0.5),
		LoopResultPass: bp(true),
	}))
	res, err = s.GetResultByPoint(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, StatusOK, DeriveStatus(res))

	data, err := NewGenerator(s).Generate(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, data.Rooms, 1)
	require.Len(t, data.Rooms[0].Points, 1)

	html, err := RenderHTML(data)
	require.NoError(t, err)
	require.Contains(t, html, "Loop: 0.5Ω")
	require.True(t, strings.Count(html, "<h2>") == 1, "exactly one section expected")
	require.Contains(t, html, "PASS")
}
