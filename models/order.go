package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeasurementScope holds the order-level flags selecting which measurement
// categories are part of an inspection job. Embedded into InspectionOrder
// with a scope_ column prefix.
type MeasurementScope struct {
	LoopImpedance    bool `gorm:"not null;default:false" json:"loopImpedance"`
	Insulation       bool `gorm:"not null;default:false" json:"insulation"`
	Rcd              bool `gorm:"not null;default:false" json:"rcd"`
	PeContinuity     bool `gorm:"not null;default:false" json:"peContinuity"`
	Earthing         bool `gorm:"not null;default:false" json:"earthing"`
	Polarity         bool `gorm:"not null;default:false" json:"polarity"`
	PhaseSequence    bool `gorm:"not null;default:false" json:"phaseSequence"`
	BreakersCheck    bool `gorm:"not null;default:false" json:"breakersCheck"`
	Lps              bool `gorm:"not null;default:false" json:"lps"`
	VisualInspection bool `gorm:"not null;default:false" json:"visualInspection"`
}

// InspectionOrder is one electrical-inspection job for a client at a named
// object/address. Orders always start life in draft, whatever a client
// submitted; the store enforces this on create.
type InspectionOrder struct {
	ID            string      `gorm:"size:36;primaryKey" json:"id"`
	ClientID      string      `gorm:"size:36;not null;index" json:"clientId"`
	Client        *Client     `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	ObjectName    string      `gorm:"size:200;not null" json:"objectName"`
	Address       string      `gorm:"size:255;not null" json:"address"`
	ScheduledDate *time.Time  `json:"scheduledDate,omitempty"`
	Notes         *string     `gorm:"type:text" json:"notes,omitempty"`
	Status        OrderStatus `gorm:"size:20;not null;default:'draft';check:status IN ('draft','in_progress','done')" json:"status"`

	Scope MeasurementScope `gorm:"embedded;embeddedPrefix:scope_" json:"scope"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Rooms  []Room             `gorm:"foreignKey:OrderID" json:"-"`
	Points []MeasurementPoint `gorm:"foreignKey:OrderID" json:"-"`
	Visual *VisualInspection  `gorm:"foreignKey:OrderID" json:"-"`
}

// BeforeCreate hook for InspectionOrder
func (o *InspectionOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return
}
