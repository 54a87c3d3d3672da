package store

// The referential-integrity rules between the entity collections, written
// once so the two backends cannot drift. The relational backend declares
// the same rules as foreign-key constraints (see the constraint tags in
// models/); the document backend applies this table mechanically on every
// delete (see KVStore.deleteFrom).

// RefAction is what happens to a child record when its parent is deleted.
type RefAction int

const (
	// RefCascade deletes the child along with the parent.
	RefCascade RefAction = iota
	// RefSetNull clears the child's reference; the child survives.
	RefSetNull
	// RefRestrict refuses the parent delete while children exist.
	RefRestrict
)

// Collection names double as relational table names and as the namespace
// key suffixes of the document backend.
const (
	colClients   = "clients"
	colOrders    = "inspection_orders"
	colRooms     = "rooms"
	colPoints    = "measurement_points"
	colResults   = "measurement_results"
	colVisuals   = "visual_inspections"
	colSnapshots = "protocol_snapshots"
)

// ChildRef ties a child collection to the serialized field that holds the
// parent identifier.
type ChildRef struct {
	Collection string
	Field      string
	Action     RefAction
}

var childRefs = map[string][]ChildRef{
	colClients: {
		{Collection: colOrders, Field: "clientId", Action: RefRestrict},
	},
	colOrders: {
		{Collection: colRooms, Field: "orderId", Action: RefCascade},
		{Collection: colPoints, Field: "orderId", Action: RefCascade},
		{Collection: colVisuals, Field: "orderId", Action: RefCascade},
		{Collection: colSnapshots, Field: "orderId", Action: RefCascade},
	},
	colRooms: {
		{Collection: colPoints, Field: "roomId", Action: RefSetNull},
	},
	colPoints: {
		{Collection: colResults, Field: "pointId", Action: RefCascade},
	},
}
