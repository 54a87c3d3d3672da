package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"p9e.in/elinspect/models"
)

// DefaultNamespace prefixes every collection key of the document backend.
const DefaultNamespace = "elinspect"

// KVStore keeps each collection as one JSON array of records under a fixed
// namespace key. Referential integrity is applied by hand on every delete,
// following the rule table in rules.go. Delete cascades are sequences of
// independent read-filter-rewrite steps; there is no atomicity across
// collections.
type KVStore struct {
	kv KV
	ns string
}

func NewKVStore(kv KV) *KVStore {
	return &KVStore{kv: kv, ns: DefaultNamespace}
}

func (s *KVStore) Close() error { return nil }

func (s *KVStore) colKey(col string) string { return s.ns + ":" + col }

func nowUTC() time.Time { return time.Now().UTC() }

// readAll loads a collection into its typed form. A missing key is an
// empty collection.
func readAll[T any](ctx context.Context, s *KVStore, col string) ([]T, error) {
	raw, err := s.kv.Get(ctx, s.colKey(col))
	if errors.Is(err, ErrMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, persistErr("read "+col, err)
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, persistErr("decode "+col, err)
	}
	return items, nil
}

func writeAll[T any](ctx context.Context, s *KVStore, col string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return persistErr("encode "+col, err)
	}
	if err := s.kv.Set(ctx, s.colKey(col), string(b)); err != nil {
		return persistErr("write "+col, err)
	}
	return nil
}

// readDocs loads a collection shapelessly for the cascade walker.
func (s *KVStore) readDocs(ctx context.Context, col string) ([]map[string]any, error) {
	return readAll[map[string]any](ctx, s, col)
}

func (s *KVStore) writeDocs(ctx context.Context, col string, docs []map[string]any) error {
	return writeAll(ctx, s, col, docs)
}

func docString(d map[string]any, field string) string {
	v, _ := d[field].(string)
	return v
}

func (s *KVStore) countRefs(ctx context.Context, col, field, id string) (int, error) {
	docs, err := s.readDocs(ctx, col)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, d := range docs {
		if docString(d, field) == id {
			n++
		}
	}
	return n, nil
}

func (s *KVStore) exists(ctx context.Context, col, id string) (bool, error) {
	docs, err := s.readDocs(ctx, col)
	if err != nil {
		return false, err
	}
	for _, d := range docs {
		if docString(d, "id") == id {
			return true, nil
		}
	}
	return false, nil
}

// deleteFrom removes one record and applies the child rules of rules.go,
// mirroring what the relational backend's declared constraints do.
func (s *KVStore) deleteFrom(ctx context.Context, col, id string) error {
	docs, err := s.readDocs(ctx, col)
	if err != nil {
		return err
	}
	idx := -1
	for i, d := range docs {
		if docString(d, "id") == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	for _, ref := range childRefs[col] {
		if ref.Action != RefRestrict {
			continue
		}
		n, err := s.countRefs(ctx, ref.Collection, ref.Field, id)
		if err != nil {
			return err
		}
		if n > 0 {
			// The only restrict edge is client -> order.
			return ErrClientHasOrders
		}
	}
	docs = append(docs[:idx], docs[idx+1:]...)
	if err := s.writeDocs(ctx, col, docs); err != nil {
		return err
	}
	return s.applyChildRules(ctx, col, id)
}

func (s *KVStore) applyChildRules(ctx context.Context, col, parentID string) error {
	for _, ref := range childRefs[col] {
		switch ref.Action {
		case RefCascade:
			docs, err := s.readDocs(ctx, ref.Collection)
			if err != nil {
				return err
			}
			keep := docs[:0:0]
			var removed []string
			for _, d := range docs {
				if docString(d, ref.Field) == parentID {
					removed = append(removed, docString(d, "id"))
					continue
				}
				keep = append(keep, d)
			}
			if len(removed) == 0 {
				continue
			}
			if err := s.writeDocs(ctx, ref.Collection, keep); err != nil {
				return err
			}
			for _, childID := range removed {
				if err := s.applyChildRules(ctx, ref.Collection, childID); err != nil {
					return err
				}
			}
		case RefSetNull:
			docs, err := s.readDocs(ctx, ref.Collection)
			if err != nil {
				return err
			}
			changed := false
			for _, d := range docs {
				if docString(d, ref.Field) == parentID {
					delete(d, ref.Field)
					changed = true
				}
			}
			if changed {
				if err := s.writeDocs(ctx, ref.Collection, docs); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ---- Clients ----

func (s *KVStore) CreateClient(ctx context.Context, c *models.Client) error {
	if err := validateClient(c); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	t := nowUTC()
	c.CreatedAt, c.UpdatedAt = t, t
	clients, err := readAll[models.Client](ctx, s, colClients)
	if err != nil {
		return err
	}
	return writeAll(ctx, s, colClients, append(clients, *c))
}

func (s *KVStore) GetClient(ctx context.Context, id string) (*models.Client, error) {
	clients, err := readAll[models.Client](ctx, s, colClients)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ID == id {
			return &clients[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *KVStore) ListClients(ctx context.Context) ([]models.Client, error) {
	return readAll[models.Client](ctx, s, colClients)
}

func (s *KVStore) UpdateClient(ctx context.Context, c *models.Client) error {
	if err := validateClient(c); err != nil {
		return err
	}
	clients, err := readAll[models.Client](ctx, s, colClients)
	if err != nil {
		return err
	}
	for i := range clients {
		if clients[i].ID == c.ID {
			c.CreatedAt = clients[i].CreatedAt
			c.UpdatedAt = nowUTC()
			clients[i] = *c
			return writeAll(ctx, s, colClients, clients)
		}
	}
	return ErrNotFound
}

func (s *KVStore) DeleteClient(ctx context.Context, id string) error {
	return s.deleteFrom(ctx, colClients, id)
}

// ---- Orders ----

func (s *KVStore) CreateOrder(ctx context.Context, o *models.InspectionOrder) error {
	if err := validateOrder(o); err != nil {
		return err
	}
	ok, err := s.exists(ctx, colClients, o.ClientID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	// New orders always start as draft, whatever the caller sent.
	o.Status = models.OrderStatusDraft
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	t := nowUTC()
	o.CreatedAt, o.UpdatedAt = t, t
	orders, err := readAll[models.InspectionOrder](ctx, s, colOrders)
	if err != nil {
		return err
	}
	return writeAll(ctx, s, colOrders, append(orders, *o))
}

func (s *KVStore) GetOrder(ctx context.Context, id string) (*models.InspectionOrder, error) {
	orders, err := readAll[models.InspectionOrder](ctx, s, colOrders)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *KVStore) ListOrders(ctx context.Context, clientID string) ([]models.InspectionOrder, error) {
	orders, err := readAll[models.InspectionOrder](ctx, s, colOrders)
	if err != nil || clientID == "" {
		return orders, err
	}
	filtered := orders[:0:0]
	for _, o := range orders {
		if o.ClientID == clientID {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

func (s *KVStore) UpdateOrder(ctx context.Context, o *models.InspectionOrder) error {
	if err := validateOrder(o); err != nil {
		return err
	}
	ok, err := s.exists(ctx, colClients, o.ClientID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if o.Status == "" {
		o.Status = models.OrderStatusDraft
	}
	orders, err := readAll[models.InspectionOrder](ctx, s, colOrders)
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == o.ID {
			o.CreatedAt = orders[i].CreatedAt
			o.UpdatedAt = nowUTC()
			orders[i] = *o
			return writeAll(ctx, s, colOrders, orders)
		}
	}
	return ErrNotFound
}

func (s *KVStore) DeleteOrder(ctx context.Context, id string) error {
	return s.deleteFrom(ctx, colOrders, id)
}

// ---- Rooms ----

func (s *KVStore) CreateRoom(ctx context.Context, r *models.Room) error {
	if err := validateRoom(r); err != nil {
		return err
	}
	ok, err := s.exists(ctx, colOrders, r.OrderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	t := nowUTC()
	r.CreatedAt, r.UpdatedAt = t, t
	rooms, err := readAll[models.Room](ctx, s, colRooms)
	if err != nil {
		return err
	}
	return writeAll(ctx, s, colRooms, append(rooms, *r))
}

func (s *KVStore) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	rooms, err := readAll[models.Room](ctx, s, colRooms)
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		if rooms[i].ID == id {
			return &rooms[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *KVStore) ListRooms(ctx context.Context, orderID string) ([]models.Room, error) {
	rooms, err := readAll[models.Room](ctx, s, colRooms)
	if err != nil {
		return nil, err
	}
	filtered := rooms[:0:0]
	for _, r := range rooms {
		if r.OrderID == orderID {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *KVStore) UpdateRoom(ctx context.Context, r *models.Room) error {
	if err := validateRoom(r); err != nil {
		return err
	}
	ok, err := s.exists(ctx, colOrders, r.OrderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	rooms, err := readAll[models.Room](ctx, s, colRooms)
	if err != nil {
		return err
	}
	for i := range rooms {
		if rooms[i].ID == r.ID {
			r.CreatedAt = rooms[i].CreatedAt
			r.UpdatedAt = nowUTC()
			rooms[i] = *r
			return writeAll(ctx, s, colRooms, rooms)
		}
	}
	return ErrNotFound
}

func (s *KVStore) DeleteRoom(ctx context.Context, id string) error {
	return s.deleteFrom(ctx, colRooms, id)
}

// ---- Measurement points ----

func (s *KVStore) CreatePoint(ctx context.Context, p *models.MeasurementPoint) error {
	if err := validatePoint(p); err != nil {
		return err
	}
	ok, err := s.exists(ctx, colOrders, p.OrderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if p.RoomID != nil {
		ok, err := s.exists(ctx, colRooms, *p.RoomID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	t := nowUTC()
	p.CreatedAt, p.UpdatedAt = t, t
	points, err := readAll[models.MeasurementPoint](ctx, s, colPoints)
	if err != nil {
		return err
	}
	return writeAll(ctx, s, colPoints, append(points, *p))
}

func (s *KVStore) GetPoint(ctx context.Context, id string) (*models.MeasurementPoint, error) {
	points, err := readAll[models.MeasurementPoint](ctx, s, colPoints)
	if err != nil {
		return nil, err
	}
	for i := range points {
		if points[i].ID == id {
			return &points[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *KVStore) ListPoints(ctx context.Context, orderID string) ([]models.MeasurementPoint, error) {
	points, err := readAll[models.MeasurementPoint](ctx, s, colPoints)
	if err != nil {
		return nil, err
	}
	filtered := points[:0:0]
	for _, p := range points {
		if p.OrderID == orderID {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *KVStore) UpdatePoint(ctx context.Context, p *models.MeasurementPoint) error {
	if err := validatePoint(p); err != nil {
		return err
	}
	ok, err := s.exists(ctx, colOrders, p.OrderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if p.RoomID != nil {
		ok, err := s.exists(ctx, colRooms, *p.RoomID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
	}
	points, err := readAll[models.MeasurementPoint](ctx, s, colPoints)
	if err != nil {
		return err
	}
	for i := range points {
		if points[i].ID == p.ID {
			p.CreatedAt = points[i].CreatedAt
			p.UpdatedAt = nowUTC()
			points[i] = *p
			return writeAll(ctx, s, colPoints, points)
		}
	}
	return ErrNotFound
}

func (s *KVStore) DeletePoint(ctx context.Context, id string) error {
	return s.deleteFrom(ctx, colPoints, id)
}

// ---- Measurement results ----

func (s *KVStore) UpsertResult(ctx context.Context, r *models.MeasurementResult) error {
	if err := validateResult(r); err != nil {
		return err
	}
	ok, err := s.exists(ctx, colPoints, r.PointID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	results, err := readAll[models.MeasurementResult](ctx, s, colResults)
	if err != nil {
		return err
	}
	for i := range results {
		if results[i].PointID == r.PointID {
			r.ID = results[i].ID
			r.CreatedAt = results[i].CreatedAt
			r.UpdatedAt = nowUTC()
			results[i] = *r
			return writeAll(ctx, s, colResults, results)
		}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	t := nowUTC()
	r.CreatedAt, r.UpdatedAt = t, t
	return writeAll(ctx, s, colResults, append(results, *r))
}

func (s *KVStore) GetResultByPoint(ctx context.Context, pointID string) (*models.MeasurementResult, error) {
	results, err := readAll[models.MeasurementResult](ctx, s, colResults)
	if err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].PointID == pointID {
			return &results[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *KVStore) DeleteResult(ctx context.Context, id string) error {
	return s.deleteFrom(ctx, colResults, id)
}

// ---- Visual inspections ----

func (s *KVStore) UpsertVisualInspection(ctx context.Context, v *models.VisualInspection) error {
	if err := validateVisual(v); err != nil {
		return err
	}
	ok, err := s.exists(ctx, colOrders, v.OrderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	visuals, err := readAll[models.VisualInspection](ctx, s, colVisuals)
	if err != nil {
		return err
	}
	for i := range visuals {
		if visuals[i].OrderID == v.OrderID {
			v.ID = visuals[i].ID
			v.CreatedAt = visuals[i].CreatedAt
			v.UpdatedAt = nowUTC()
			visuals[i] = *v
			return writeAll(ctx, s, colVisuals, visuals)
		}
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	t := nowUTC()
	v.CreatedAt, v.UpdatedAt = t, t
	return writeAll(ctx, s, colVisuals, append(visuals, *v))
}

func (s *KVStore) GetVisualInspectionByOrder(ctx context.Context, orderID string) (*models.VisualInspection, error) {
	visuals, err := readAll[models.VisualInspection](ctx, s, colVisuals)
	if err != nil {
		return nil, err
	}
	for i := range visuals {
		if visuals[i].OrderID == orderID {
			return &visuals[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *KVStore) DeleteVisualInspection(ctx context.Context, id string) error {
	return s.deleteFrom(ctx, colVisuals, id)
}

// ---- Protocol snapshots ----

func (s *KVStore) SaveProtocolSnapshot(ctx context.Context, snap *models.ProtocolSnapshot) error {
	if err := validateSnapshot(snap); err != nil {
		return err
	}
	ok, err := s.exists(ctx, colOrders, snap.OrderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	t := nowUTC()
	snap.CreatedAt, snap.UpdatedAt = t, t
	snaps, err := readAll[models.ProtocolSnapshot](ctx, s, colSnapshots)
	if err != nil {
		return err
	}
	return writeAll(ctx, s, colSnapshots, append(snaps, *snap))
}

func (s *KVStore) ListProtocolSnapshots(ctx context.Context, orderID string) ([]models.ProtocolSnapshot, error) {
	snaps, err := readAll[models.ProtocolSnapshot](ctx, s, colSnapshots)
	if err != nil {
		return nil, err
	}
	filtered := snaps[:0:0]
	for _, sn := range snaps {
		if sn.OrderID == orderID {
			filtered = append(filtered, sn)
		}
	}
	return filtered, nil
}
