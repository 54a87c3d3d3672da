package protocol

import (
	"context"
	"errors"
	"fmt"
	"time"

	"p9e.in/elinspect/models"
	"p9e.in/elinspect/store"
)

// UnassignedRoomName is the pseudo-room for points without a room
// reference (either never assigned or detached by a room deletion).
const UnassignedRoomName = "Unassigned"

// Inspector identity is a fixed placeholder until an inspector-profile
// source exists; the aggregator surfaces it as data so the renderer never
// needs to know.
var placeholderInspector = Inspector{Name: "—", Qualification: "—"}

// Inspector identifies who performed the inspection.
type Inspector struct {
	Name          string `json:"name"`
	Qualification string `json:"qualification"`
}

// ClientInfo is the client snapshot embedded in the protocol.
type ClientInfo struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
}

// ObjectInfo describes the inspected object.
type ObjectInfo struct {
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
}

// PointRow is one measurement point with its result (if any) and derived
// status.
type PointRow struct {
	Point  models.MeasurementPoint   `json:"point"`
	Result *models.MeasurementResult `json:"result,omitempty"`
	Status Status                    `json:"status"`
}

// RoomSection groups the rows of one room, points in insertion order.
type RoomSection struct {
	Name   string     `json:"name"`
	Points []PointRow `json:"points"`
}

// LpsSection holds the lightning-protection points, reported separately
// from the room groups.
type LpsSection struct {
	Points []PointRow `json:"points"`
}

// VisualSection is the optional visual-inspection snapshot.
type VisualSection struct {
	Summary         string `json:"summary"`
	DefectsFound    string `json:"defectsFound,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`
	Pass            *bool  `json:"pass,omitempty"`
}

// SignatureBlock is left empty for the renderer or a human step to fill.
type SignatureBlock struct {
	Date               string `json:"date"`
	InspectorSignature string `json:"inspectorSignature"`
	ClientSignature    string `json:"clientSignature"`
}

// ProtocolData is the denormalized report value for one order. It is
// self-contained: the renderer works from the embedded scope object and
// never consults the order entity again.
type ProtocolData struct {
	OrderID     string                  `json:"orderId"`
	GeneratedAt time.Time               `json:"generatedAt"`
	Inspector   Inspector               `json:"inspector"`
	Client      ClientInfo              `json:"client"`
	Object      ObjectInfo              `json:"object"`
	Scope       models.MeasurementScope `json:"scope"`
	Rooms       []RoomSection           `json:"rooms"`
	Lps         *LpsSection             `json:"lps,omitempty"`
	Visual      *VisualSection          `json:"visual,omitempty"`
	Signature   SignatureBlock          `json:"signature"`
}

// Generator assembles protocol data from the entity store.
type Generator struct {
	store store.Store
}

func NewGenerator(s store.Store) *Generator { return &Generator{store: s} }

// Generate loads one order's full object graph and produces the protocol
// value. Reads run sequentially over the single storage handle; the
// system is single-user and has no contention to win back.
func (g *Generator) Generate(ctx context.Context, orderID string) (*ProtocolData, error) {
	order, err := g.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	client, err := g.store.GetClient(ctx, order.ClientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	rooms, err := g.store.ListRooms(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	points, err := g.store.ListPoints(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load points: %w", err)
	}

	data := &ProtocolData{
		OrderID:     order.ID,
		GeneratedAt: time.Now().UTC(),
		Inspector:   placeholderInspector,
		Client: ClientInfo{
			Name:          client.Name,
			Address:       client.Address,
			ContactPerson: strVal(client.ContactPerson),
			Phone:         strVal(client.Phone),
			Email:         strVal(client.Email),
		},
		Object: ObjectInfo{
			Name:          order.ObjectName,
			Address:       order.Address,
			ScheduledDate: order.ScheduledDate,
			Status:        string(order.Status),
			Notes:         strVal(order.Notes),
		},
		Scope: order.Scope,
	}

	// Room groups keep the rooms' insertion order; the Unassigned
	// pseudo-room comes last and only when needed.
	sections := make([]RoomSection, len(rooms))
	byRoom := map[string]int{}
	for i, r := range rooms {
		sections[i] = RoomSection{Name: r.Name}
		byRoom[r.ID] = i
	}
	var unassigned []PointRow
	var lps []PointRow

	for _, p := range points {
		res, err := g.store.GetResultByPoint(ctx, p.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("load result for point %s: %w", p.ID, err)
		}
		row := PointRow{Point: p, Result: res, Status: DeriveStatus(res)}
		switch {
		case p.Type == models.PointTypeLps:
			lps = append(lps, row)
		case p.RoomID != nil:
			if i, ok := byRoom[*p.RoomID]; ok {
				sections[i].Points = append(sections[i].Points, row)
			} else {
				unassigned = append(unassigned, row)
			}
		default:
			unassigned = append(unassigned, row)
		}
	}
	if len(unassigned) > 0 {
		sections = append(sections, RoomSection{Name: UnassignedRoomName, Points: unassigned})
	}
	data.Rooms = sections
	if len(lps) > 0 {
		data.Lps = &LpsSection{Points: lps}
	}

	if order.Scope.VisualInspection {
		visual, err := g.store.GetVisualInspectionByOrder(ctx, orderID)
		switch {
		case err == nil:
			data.Visual = &VisualSection{
				Summary:         visual.Summary,
				DefectsFound:    strVal(visual.DefectsFound),
				Recommendations: strVal(visual.Recommendations),
				Pass:            visual.VisualResultPass,
			}
		case errors.Is(err, store.ErrNotFound):
			// Flag set but nothing recorded: the section is simply omitted.
		default:
			return nil, fmt.Errorf("load visual inspection: %w", err)
		}
	}

	return data, nil
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
