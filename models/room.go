package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room groups measurement points within an order. Owned exclusively by its
// order: deleting the order deletes the room, deleting the room only
// detaches its points.
type Room struct {
	ID      string           `gorm:"size:36;primaryKey" json:"id"`
	OrderID string           `gorm:"size:36;not null;index" json:"orderId"`
	Order   *InspectionOrder `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Name    string           `gorm:"size:200;not null" json:"name"`
	Notes   *string          `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate hook for Room
func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return
}
