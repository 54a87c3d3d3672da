package store

import (
	"context"

	"p9e.in/elinspect/models"
)

// Store is the durable CRUD contract for the six entity kinds plus protocol
// snapshots. Two implementations exist: GormStore (relational engine with
// declared foreign keys) and KVStore (flat document collections with the
// same integrity rules applied by hand). Both must produce observably
// identical results for every operation; the shared rules live in rules.go
// and validate.go.
//
// Create assigns the identifier and both timestamps. Update preserves the
// identifier and creation timestamp and refreshes the update timestamp.
// Create and Update both verify that referenced parent records exist and
// return ErrNotFound otherwise, so a write can never leave a dangling
// reference. Delete triggers the cascade/clear effects described in
// rules.go.
type Store interface {
	CreateClient(ctx context.Context, c *models.Client) error
	GetClient(ctx context.Context, id string) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, c *models.Client) error
	DeleteClient(ctx context.Context, id string) error

	// CreateOrder forces status to draft regardless of the caller's input.
	CreateOrder(ctx context.Context, o *models.InspectionOrder) error
	GetOrder(ctx context.Context, id string) (*models.InspectionOrder, error)
	// ListOrders returns all orders, or only a client's when clientID != "".
	ListOrders(ctx context.Context, clientID string) ([]models.InspectionOrder, error)
	UpdateOrder(ctx context.Context, o *models.InspectionOrder) error
	DeleteOrder(ctx context.Context, id string) error

	CreateRoom(ctx context.Context, r *models.Room) error
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	ListRooms(ctx context.Context, orderID string) ([]models.Room, error)
	UpdateRoom(ctx context.Context, r *models.Room) error
	DeleteRoom(ctx context.Context, id string) error

	CreatePoint(ctx context.Context, p *models.MeasurementPoint) error
	GetPoint(ctx context.Context, id string) (*models.MeasurementPoint, error)
	ListPoints(ctx context.Context, orderID string) ([]models.MeasurementPoint, error)
	UpdatePoint(ctx context.Context, p *models.MeasurementPoint) error
	DeletePoint(ctx context.Context, id string) error

	// UpsertResult writes the single result of a point: a second write for
	// the same point replaces the record in place, keeping the original
	// identifier and creation timestamp.
	UpsertResult(ctx context.Context, r *models.MeasurementResult) error
	GetResultByPoint(ctx context.Context, pointID string) (*models.MeasurementResult, error)
	DeleteResult(ctx context.Context, id string) error

	UpsertVisualInspection(ctx context.Context, v *models.VisualInspection) error
	GetVisualInspectionByOrder(ctx context.Context, orderID string) (*models.VisualInspection, error)
	DeleteVisualInspection(ctx context.Context, id string) error

	SaveProtocolSnapshot(ctx context.Context, s *models.ProtocolSnapshot) error
	ListProtocolSnapshots(ctx context.Context, orderID string) ([]models.ProtocolSnapshot, error)

	Close() error
}
