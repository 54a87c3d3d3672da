package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeasurementPoint is one measurable hardware location within an order:
// a socket, light circuit, RCD, earthing point, LPS down conductor, etc.
// The room reference is optional; a point whose room is deleted survives
// as "unassigned" (room_id set to NULL), while deleting the order removes
// the point outright.
type MeasurementPoint struct {
	ID            string           `gorm:"size:36;primaryKey" json:"id"`
	OrderID       string           `gorm:"size:36;not null;index" json:"orderId"`
	Order         *InspectionOrder `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	RoomID        *string          `gorm:"size:36;index" json:"roomId,omitempty"`
	Room          *Room            `gorm:"foreignKey:RoomID;constraint:OnDelete:SET NULL" json:"room,omitempty"`
	Label         string           `gorm:"size:200;not null" json:"label"`
	Type          PointType        `gorm:"size:20;not null;check:type IN ('socket_1p','socket_3p','lighting','rcd','earthing','lps','other')" json:"type"`
	CircuitSymbol *string          `gorm:"size:50" json:"circuitSymbol,omitempty"`
	Notes         *string          `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Result *MeasurementResult `gorm:"foreignKey:PointID" json:"-"`
}

// BeforeCreate hook for MeasurementPoint
func (p *MeasurementPoint) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return
}
