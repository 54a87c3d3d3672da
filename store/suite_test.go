package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"p9e.in/elinspect/models"
	"p9e.in/elinspect/store"
)

// runConformance exercises the backend-independent contract. Both
// backends run the same suite; they must be observably identical.
func runConformance(t *testing.T, newStore func(t *testing.T) store.Store) {
	ctx := context.Background()

	ptr := func(f float64) *float64 { return &f }
	sptr := func(s string) *string { return &s }
	bptr := func(b bool) *bool { return &b }

	mkClient := func(t *testing.T, s store.Store) *models.Client {
		c := &models.Client{Name: "ABC", Address: "Main St"}
		require.NoError(t, s.CreateClient(ctx, c))
		return c
	}
	mkOrder := func(t *testing.T, s store.Store, clientID string, scope models.MeasurementScope) *models.InspectionOrder {
		o := &models.InspectionOrder{
			ClientID:   clientID,
			ObjectName: "Office building",
			Address:    "Main St 1",
			Scope:      scope,
		}
		require.NoError(t, s.CreateOrder(ctx, o))
		return o
	}

	t.Run("client round trip", func(t *testing.T) {
		s := newStore(t)
		c := &models.Client{
			Name:          "ABC",
			Address:       "Main St",
			ContactPerson: sptr("J. Smith"),
			Phone:         sptr("+48 600 000 000"),
			Email:         sptr("j.smith@example.com"),
			Notes:         sptr("prefers mornings"),
		}
		require.NoError(t, s.CreateClient(ctx, c))
		require.NotEmpty(t, c.ID)
		require.Equal(t, c.CreatedAt, c.UpdatedAt)

		got, err := s.GetClient(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, c.Name, got.Name)
		require.Equal(t, c.Address, got.Address)
		require.Equal(t, c.ContactPerson, got.ContactPerson)
		require.Equal(t, c.Phone, got.Phone)
		require.Equal(t, c.Email, got.Email)
		require.Equal(t, c.Notes, got.Notes)

		clients, err := s.ListClients(ctx)
		require.NoError(t, err)
		require.Len(t, clients, 1)
	})

	t.Run("missing records yield not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetClient(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.GetOrder(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.GetPoint(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.GetResultByPoint(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.DeleteOrder(ctx, "nope"), store.ErrNotFound)
	})

	t.Run("validation rejects before write", func(t *testing.T) {
		s := newStore(t)
		var vErr *store.ValidationError
		err := s.CreateClient(ctx, &models.Client{Name: "no address"})
		require.ErrorAs(t, err, &vErr)

		c := mkClient(t, s)
		o := mkOrder(t, s, c.ID, models.MeasurementScope{})
		err = s.CreatePoint(ctx, &models.MeasurementPoint{
			OrderID: o.ID, Label: "P1", Type: models.PointType("wall_socket"),
		})
		require.ErrorAs(t, err, &vErr)
		// The message lists the real enum values.
		require.ErrorContains(t, err, "socket_1p")
		require.ErrorContains(t, err, "other")

		o.Status = models.OrderStatus("archived")
		err = s.UpdateOrder(ctx, o)
		require.ErrorAs(t, err, &vErr)
		require.ErrorContains(t, err, "in_progress")

		p := &models.MeasurementPoint{OrderID: o.ID, Label: "P1", Type: models.PointTypeSocket1P}
		require.NoError(t, s.CreatePoint(ctx, p))
		p.Type = models.PointType("bogus")
		require.ErrorAs(t, s.UpdatePoint(ctx, p), &vErr)
	})

	t.Run("order creation forces draft", func(t *testing.T) {
		s := newStore(t)
		c := mkClient(t, s)
		o := &models.InspectionOrder{
			ClientID:   c.ID,
			ObjectName: "Warehouse",
			Address:    "Dock Rd 2",
			Status:     models.OrderStatusDone,
		}
		require.NoError(t, s.CreateOrder(ctx, o))
		require.Equal(t, models.OrderStatusDraft, o.Status)

		got, err := s.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		require.Equal(t, models.OrderStatusDraft, got.Status)
	})

	t.Run("order creation requires the client", func(t *testing.T) {
		s := newStore(t)
		err := s.CreateOrder(ctx, &models.InspectionOrder{
			ClientID: "ghost", ObjectName: "X", Address: "Y",
		})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update preserves identity and creation time", func(t *testing.T) {
		s := newStore(t)
		c := mkClient(t, s)
		created := c.CreatedAt

		time.Sleep(5 * time.Millisecond)
		c.Name = "ABC Sp. z o.o."
		require.NoError(t, s.UpdateClient(ctx, c))

		got, err := s.GetClient(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, "ABC Sp. z o.o.", got.Name)
		require.True(t, got.CreatedAt.Equal(created))
		require.True(t, got.UpdatedAt.After(got.CreatedAt))
	})

	t.Run("client with orders is not deletable", func(t *testing.T) {
		s := newStore(t)
		c := mkClient(t, s)
		o := mkOrder(t, s, c.ID, models.MeasurementScope{})

		require.ErrorIs(t, s.DeleteClient(ctx, c.ID), store.ErrClientHasOrders)

		require.NoError(t, s.DeleteOrder(ctx, o.ID))
		require.NoError(t, s.DeleteClient(ctx, c.ID))
		_, err := s.GetClient(ctx, c.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("order delete cascades to the whole graph", func(t *testing.T) {
		s := newStore(t)
		c := mkClient(t, s)
		o := mkOrder(t, s, c.ID, models.MeasurementScope{VisualInspection: true})

		room := &models.Room{OrderID: o.ID, Name: "Kitchen"}
		require.NoError(t, s.CreateRoom(ctx, room))
		p := &models.MeasurementPoint{OrderID: o.ID, RoomID: &room.ID, Label: "K1", Type: models.PointTypeSocket1P}
		require.NoError(t, s.CreatePoint(ctx, p))
		require.NoError(t, s.UpsertResult(ctx, &models.MeasurementResult{
			PointID: p.ID, LoopImpedance: ptr(0.5), LoopResultPass: bptr(true),
		}))
		require.NoError(t, s.UpsertVisualInspection(ctx, &models.VisualInspection{
			OrderID: o.ID, Summary: "all good",
		}))
		require.NoError(t, s.SaveProtocolSnapshot(ctx, &models.ProtocolSnapshot{
			OrderID: o.ID, Data: datatypes.JSON(`{"orderId":"` + o.ID + `"}`),
		}))

		require.NoError(t, s.DeleteOrder(ctx, o.ID))

		rooms, err := s.ListRooms(ctx, o.ID)
		require.NoError(t, err)
		require.Empty(t, rooms)
		points, err := s.ListPoints(ctx, o.ID)
		require.NoError(t, err)
		require.Empty(t, points)
		_, err = s.GetResultByPoint(ctx, p.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.GetVisualInspectionByOrder(ctx, o.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		snaps, err := s.ListProtocolSnapshots(ctx, o.ID)
		require.NoError(t, err)
		require.Empty(t, snaps)
	})

	t.Run("update rejects dangling parent references", func(t *testing.T) {
		s := newStore(t)
		c := mkClient(t, s)
		o := mkOrder(t, s, c.ID, models.MeasurementScope{})
		room := &models.Room{OrderID: o.ID, Name: "Kitchen"}
		require.NoError(t, s.CreateRoom(ctx, room))
		p := &models.MeasurementPoint{OrderID: o.ID, RoomID: &room.ID, Label: "K1", Type: models.PointTypeSocket1P}
		require.NoError(t, s.CreatePoint(ctx, p))

		ghost := "ghost"
		p.RoomID = &ghost
		require.ErrorIs(t, s.UpdatePoint(ctx, p), store.ErrNotFound)

		p.RoomID = &room.ID
		p.OrderID = ghost
		require.ErrorIs(t, s.UpdatePoint(ctx, p), store.ErrNotFound)

		room.OrderID = ghost
		require.ErrorIs(t, s.UpdateRoom(ctx, room), store.ErrNotFound)

		o.ClientID = ghost
		require.ErrorIs(t, s.UpdateOrder(ctx, o), store.ErrNotFound)

		// Nothing was persisted by the refused updates.
		got, err := s.GetPoint(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got.RoomID)
		require.Equal(t, room.ID, *got.RoomID)
		require.Equal(t, o.ID, got.OrderID)
	})

	t.Run("room delete detaches points without deleting them", func(t *testing.T) {
		s := newStore(t)
		c := mkClient(t, s)
		o := mkOrder(t, s, c.ID, models.MeasurementScope{})
		room := &models.Room{OrderID: o.ID, Name: "Hall"}
		require.NoError(t, s.CreateRoom(ctx, room))
		p := &models.MeasurementPoint{OrderID: o.ID, RoomID: &room.ID, Label: "H1", Type: models.PointTypeLighting}
		require.NoError(t, s.CreatePoint(ctx, p))

		require.NoError(t, s.DeleteRoom(ctx, room.ID))

		got, err := s.GetPoint(ctx, p.ID)
		require.NoError(t, err)
		require.Nil(t, got.RoomID)
	})

	t.Run("result upsert replaces in place", func(t *testing.T) {
		s := newStore(t)
		c := mkClient(t, s)
		o := mkOrder(t, s, c.ID, models.MeasurementScope{LoopImpedance: true})
		p := &models.MeasurementPoint{OrderID: o.ID, Label: "P1", Type: models.PointTypeSocket1P}
		require.NoError(t, s.CreatePoint(ctx, p))

		first := &models.MeasurementResult{PointID: p.ID, LoopImpedance: ptr(0.5)}
		require.NoError(t, s.UpsertResult(ctx, first))

		time.Sleep(5 * time.Millisecond)
		second := &models.MeasurementResult{
			PointID: p.ID, LoopImpedance: ptr(0.7), LoopResultPass: bptr(false),
		}
		require.NoError(t, s.UpsertResult(ctx, second))

		got, err := s.GetResultByPoint(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, first.ID, got.ID)
		require.True(t, got.CreatedAt.Equal(first.CreatedAt))
		require.True(t, got.UpdatedAt.After(got.CreatedAt))
		require.Equal(t, 0.7, *got.LoopImpedance)
		require.False(t, *got.LoopResultPass)

		require.ErrorIs(t, s.UpsertResult(ctx, &models.MeasurementResult{PointID: "ghost"}), store.ErrNotFound)
	})

	t.Run("visual inspection upsert replaces in place", func(t *testing.T) {
		s := newStore(t)
		c := mkClient(t, s)
		o := mkOrder(t, s, c.ID, models.MeasurementScope{VisualInspection: true})

		first := &models.VisualInspection{OrderID: o.ID, Summary: "initial pass"}
		require.NoError(t, s.UpsertVisualInspection(ctx, first))
		second := &models.VisualInspection{
			OrderID: o.ID, Summary: "revised", DefectsFound: sptr("loose cover"), VisualResultPass: bptr(false),
		}
		require.NoError(t, s.UpsertVisualInspection(ctx, second))

		got, err := s.GetVisualInspectionByOrder(ctx, o.ID)
		require.NoError(t, err)
		require.Equal(t, first.ID, got.ID)
		require.Equal(t, "revised", got.Summary)
		require.True(t, got.CreatedAt.Equal(first.CreatedAt))
	})

	t.Run("points list in insertion order", func(t *testing.T) {
		s := newStore(t)
		c := mkClient(t, s)
		o := mkOrder(t, s, c.ID, models.MeasurementScope{})
		labels := []string{"P1", "P2", "P3"}
		for _, l := range labels {
			require.NoError(t, s.CreatePoint(ctx, &models.MeasurementPoint{
				OrderID: o.ID, Label: l, Type: models.PointTypeOther,
			}))
			time.Sleep(2 * time.Millisecond)
		}
		points, err := s.ListPoints(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, points, len(labels))
		for i, l := range labels {
			require.Equal(t, l, points[i].Label)
		}
	})

	t.Run("orders filter by client", func(t *testing.T) {
		s := newStore(t)
		c1 := mkClient(t, s)
		c2 := &models.Client{Name: "DEF", Address: "Oak St"}
		require.NoError(t, s.CreateClient(ctx, c2))
		mkOrder(t, s, c1.ID, models.MeasurementScope{})
		mkOrder(t, s, c2.ID, models.MeasurementScope{})

		all, err := s.ListOrders(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 2)
		only, err := s.ListOrders(ctx, c2.ID)
		require.NoError(t, err)
		require.Len(t, only, 1)
		require.Equal(t, c2.ID, only[0].ClientID)
	})
}
