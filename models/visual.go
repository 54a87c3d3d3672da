package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisualInspection is the single visual-inspection record of an order
// (one-to-one, unique index on order_id). Upsert semantics match
// MeasurementResult: a second write replaces the record in place.
type VisualInspection struct {
	ID               string           `gorm:"size:36;primaryKey" json:"id"`
	OrderID          string           `gorm:"size:36;not null;uniqueIndex" json:"orderId"`
	Order            *InspectionOrder `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Summary          string           `gorm:"type:text;not null" json:"summary"`
	DefectsFound     *string          `gorm:"type:text" json:"defectsFound,omitempty"`
	Recommendations  *string          `gorm:"type:text" json:"recommendations,omitempty"`
	VisualResultPass *bool            `json:"visualResultPass,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate hook for VisualInspection
func (v *VisualInspection) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return
}
