package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"p9e.in/elinspect/models"
)

// GormStore is the relational backend. Integrity is enforced by the
// declared foreign keys (ON DELETE CASCADE / SET NULL, see the constraint
// tags in models/); the store only adds the client-delete guard, which is
// a business rule and not a constraint.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the handle for migrations.
func (s *GormStore) DB() *gorm.DB { return s.db }

func wrapGet(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return persistErr(op, err)
}

// ---- Clients ----

func (s *GormStore) CreateClient(ctx context.Context, c *models.Client) error {
	if err := validateClient(c); err != nil {
		return err
	}
	return persistErr("create client", s.db.WithContext(ctx).Create(c).Error)
}

func (s *GormStore) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, wrapGet("get client", err)
	}
	return &c, nil
}

func (s *GormStore) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.WithContext(ctx).Order("created_at, id").Find(&clients).Error
	return clients, persistErr("list clients", err)
}

func (s *GormStore) UpdateClient(ctx context.Context, c *models.Client) error {
	if err := validateClient(c); err != nil {
		return err
	}
	var existing models.Client
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", c.ID).Error; err != nil {
		return wrapGet("update client", err)
	}
	c.CreatedAt = existing.CreatedAt
	return persistErr("update client", s.db.WithContext(ctx).Save(c).Error)
}

func (s *GormStore) DeleteClient(ctx context.Context, id string) error {
	var c models.Client
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return wrapGet("delete client", err)
	}
	var orders int64
	if err := s.db.WithContext(ctx).Model(&models.InspectionOrder{}).
		Where("client_id = ?", id).Count(&orders).Error; err != nil {
		return persistErr("delete client", err)
	}
	if orders > 0 {
		return ErrClientHasOrders
	}
	return persistErr("delete client", s.db.WithContext(ctx).Delete(&c).Error)
}

// ---- Orders ----

func (s *GormStore) CreateOrder(ctx context.Context, o *models.InspectionOrder) error {
	if err := validateOrder(o); err != nil {
		return err
	}
	if _, err := s.GetClient(ctx, o.ClientID); err != nil {
		return err
	}
	// New orders always start as draft, whatever the caller sent.
	o.Status = models.OrderStatusDraft
	return persistErr("create order", s.db.WithContext(ctx).Create(o).Error)
}

func (s *GormStore) GetOrder(ctx context.Context, id string) (*models.InspectionOrder, error) {
	var o models.InspectionOrder
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, wrapGet("get order", err)
	}
	return &o, nil
}

func (s *GormStore) ListOrders(ctx context.Context, clientID string) ([]models.InspectionOrder, error) {
	q := s.db.WithContext(ctx).Order("created_at, id")
	if clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	var orders []models.InspectionOrder
	err := q.Find(&orders).Error
	return orders, persistErr("list orders", err)
}

func (s *GormStore) UpdateOrder(ctx context.Context, o *models.InspectionOrder) error {
	if err := validateOrder(o); err != nil {
		return err
	}
	if _, err := s.GetClient(ctx, o.ClientID); err != nil {
		return err
	}
	if o.Status == "" {
		o.Status = models.OrderStatusDraft
	}
	var existing models.InspectionOrder
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", o.ID).Error; err != nil {
		return wrapGet("update order", err)
	}
	o.CreatedAt = existing.CreatedAt
	return persistErr("update order", s.db.WithContext(ctx).Save(o).Error)
}

func (s *GormStore) DeleteOrder(ctx context.Context, id string) error {
	var o models.InspectionOrder
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return wrapGet("delete order", err)
	}
	// Rooms, points, results, visual inspection and snapshots go with the
	// order via the declared cascades.
	return persistErr("delete order", s.db.WithContext(ctx).Delete(&o).Error)
}

// ---- Rooms ----

func (s *GormStore) CreateRoom(ctx context.Context, r *models.Room) error {
	if err := validateRoom(r); err != nil {
		return err
	}
	if _, err := s.GetOrder(ctx, r.OrderID); err != nil {
		return err
	}
	return persistErr("create room", s.db.WithContext(ctx).Create(r).Error)
}

func (s *GormStore) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	var r models.Room
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, wrapGet("get room", err)
	}
	return &r, nil
}

func (s *GormStore) ListRooms(ctx context.Context, orderID string) ([]models.Room, error) {
	var rooms []models.Room
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).
		Order("created_at, id").Find(&rooms).Error
	return rooms, persistErr("list rooms", err)
}

func (s *GormStore) UpdateRoom(ctx context.Context, r *models.Room) error {
	if err := validateRoom(r); err != nil {
		return err
	}
	if _, err := s.GetOrder(ctx, r.OrderID); err != nil {
		return err
	}
	var existing models.Room
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", r.ID).Error; err != nil {
		return wrapGet("update room", err)
	}
	r.CreatedAt = existing.CreatedAt
	return persistErr("update room", s.db.WithContext(ctx).Save(r).Error)
}

func (s *GormStore) DeleteRoom(ctx context.Context, id string) error {
	var r models.Room
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return wrapGet("delete room", err)
	}
	// Points referencing the room survive with room_id nulled (SET NULL).
	return persistErr("delete room", s.db.WithContext(ctx).Delete(&r).Error)
}

// ---- Measurement points ----

func (s *GormStore) CreatePoint(ctx context.Context, p *models.MeasurementPoint) error {
	if err := validatePoint(p); err != nil {
		return err
	}
	if _, err := s.GetOrder(ctx, p.OrderID); err != nil {
		return err
	}
	if p.RoomID != nil {
		if _, err := s.GetRoom(ctx, *p.RoomID); err != nil {
			return err
		}
	}
	return persistErr("create point", s.db.WithContext(ctx).Create(p).Error)
}

func (s *GormStore) GetPoint(ctx context.Context, id string) (*models.MeasurementPoint, error) {
	var p models.MeasurementPoint
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, wrapGet("get point", err)
	}
	return &p, nil
}

func (s *GormStore) ListPoints(ctx context.Context, orderID string) ([]models.MeasurementPoint, error) {
	var points []models.MeasurementPoint
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).
		Order("created_at, id").Find(&points).Error
	return points, persistErr("list points", err)
}

func (s *GormStore) UpdatePoint(ctx context.Context, p *models.MeasurementPoint) error {
	if err := validatePoint(p); err != nil {
		return err
	}
	if _, err := s.GetOrder(ctx, p.OrderID); err != nil {
		return err
	}
	if p.RoomID != nil {
		if _, err := s.GetRoom(ctx, *p.RoomID); err != nil {
			return err
		}
	}
	var existing models.MeasurementPoint
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", p.ID).Error; err != nil {
		return wrapGet("update point", err)
	}
	p.CreatedAt = existing.CreatedAt
	return persistErr("update point", s.db.WithContext(ctx).Save(p).Error)
}

func (s *GormStore) DeletePoint(ctx context.Context, id string) error {
	var p models.MeasurementPoint
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return wrapGet("delete point", err)
	}
	return persistErr("delete point", s.db.WithContext(ctx).Delete(&p).Error)
}

// ---- Measurement results ----

func (s *GormStore) UpsertResult(ctx context.Context, r *models.MeasurementResult) error {
	if err := validateResult(r); err != nil {
		return err
	}
	if _, err := s.GetPoint(ctx, r.PointID); err != nil {
		return err
	}
	var existing models.MeasurementResult
	err := s.db.WithContext(ctx).First(&existing, "point_id = ?", r.PointID).Error
	switch {
	case err == nil:
		r.ID = existing.ID
		r.CreatedAt = existing.CreatedAt
		return persistErr("upsert result", s.db.WithContext(ctx).Save(r).Error)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return persistErr("upsert result", s.db.WithContext(ctx).Create(r).Error)
	default:
		return persistErr("upsert result", err)
	}
}

func (s *GormStore) GetResultByPoint(ctx context.Context, pointID string) (*models.MeasurementResult, error) {
	var r models.MeasurementResult
	if err := s.db.WithContext(ctx).First(&r, "point_id = ?", pointID).Error; err != nil {
		return nil, wrapGet("get result", err)
	}
	return &r, nil
}

func (s *GormStore) DeleteResult(ctx context.Context, id string) error {
	var r models.MeasurementResult
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return wrapGet("delete result", err)
	}
	return persistErr("delete result", s.db.WithContext(ctx).Delete(&r).Error)
}

// ---- Visual inspections ----

func (s *GormStore) UpsertVisualInspection(ctx context.Context, v *models.VisualInspection) error {
	if err := validateVisual(v); err != nil {
		return err
	}
	if _, err := s.GetOrder(ctx, v.OrderID); err != nil {
		return err
	}
	var existing models.VisualInspection
	err := s.db.WithContext(ctx).First(&existing, "order_id = ?", v.OrderID).Error
	switch {
	case err == nil:
		v.ID = existing.ID
		v.CreatedAt = existing.CreatedAt
		return persistErr("upsert visual inspection", s.db.WithContext(ctx).Save(v).Error)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return persistErr("upsert visual inspection", s.db.WithContext(ctx).Create(v).Error)
	default:
		return persistErr("upsert visual inspection", err)
	}
}

func (s *GormStore) GetVisualInspectionByOrder(ctx context.Context, orderID string) (*models.VisualInspection, error) {
	var v models.VisualInspection
	if err := s.db.WithContext(ctx).First(&v, "order_id = ?", orderID).Error; err != nil {
		return nil, wrapGet("get visual inspection", err)
	}
	return &v, nil
}

func (s *GormStore) DeleteVisualInspection(ctx context.Context, id string) error {
	var v models.VisualInspection
	if err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return wrapGet("delete visual inspection", err)
	}
	return persistErr("delete visual inspection", s.db.WithContext(ctx).Delete(&v).Error)
}

// ---- Protocol snapshots ----

func (s *GormStore) SaveProtocolSnapshot(ctx context.Context, snap *models.ProtocolSnapshot) error {
	if err := validateSnapshot(snap); err != nil {
		return err
	}
	if _, err := s.GetOrder(ctx, snap.OrderID); err != nil {
		return err
	}
	return persistErr("save protocol snapshot", s.db.WithContext(ctx).Create(snap).Error)
}

func (s *GormStore) ListProtocolSnapshots(ctx context.Context, orderID string) ([]models.ProtocolSnapshot, error) {
	var snaps []models.ProtocolSnapshot
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).
		Order("created_at, id").Find(&snaps).Error
	return snaps, persistErr("list protocol snapshots", err)
}
