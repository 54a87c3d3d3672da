package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProtocolSnapshot is one generated protocol kept for history: the full
// aggregated report value as JSON plus the rendered document. Snapshots
// are owned by their order and go away with it.
type ProtocolSnapshot struct {
	ID      string           `gorm:"size:36;primaryKey" json:"id"`
	OrderID string           `gorm:"size:36;not null;index" json:"orderId"`
	Order   *InspectionOrder `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Data    datatypes.JSON   `gorm:"not null" json:"data"`
	HTML    string           `gorm:"type:text" json:"html,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate hook for ProtocolSnapshot
func (s *ProtocolSnapshot) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return
}
