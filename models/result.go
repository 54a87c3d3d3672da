package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeasurementResult holds the recorded readings and pass/fail flags for a
// single measurement point (one-to-one, enforced by the unique index on
// point_id). Every reading and every pass flag is a pointer: nil means
// "not measured", which is distinct from a recorded false/zero. Writing a
// second result for the same point replaces the first in place, keeping
// the original creation timestamp.
type MeasurementResult struct {
	ID      string            `gorm:"size:36;primaryKey" json:"id"`
	PointID string            `gorm:"size:36;not null;uniqueIndex" json:"pointId"`
	Point   *MeasurementPoint `gorm:"foreignKey:PointID;constraint:OnDelete:CASCADE" json:"-"`

	// Loop impedance
	LoopImpedance  *float64 `json:"loopImpedance,omitempty"` // Zs, Ω
	LoopResultPass *bool    `json:"loopResultPass,omitempty"`

	// Insulation resistance, up to three sub-readings in MΩ
	InsulationLN         *float64 `gorm:"column:insulation_l_n" json:"insulationLN,omitempty"`
	InsulationLPE        *float64 `gorm:"column:insulation_l_pe" json:"insulationLPE,omitempty"`
	InsulationNPE        *float64 `gorm:"column:insulation_n_pe" json:"insulationNPE,omitempty"`
	InsulationResultPass *bool    `json:"insulationResultPass,omitempty"`

	// RCD
	RcdType         *string  `gorm:"size:20" json:"rcdType,omitempty"` // AC, A, B, F
	RcdRatedCurrent *float64 `json:"rcdRatedCurrent,omitempty"`        // IΔn, mA
	RcdTripTime     *float64 `json:"rcdTripTime,omitempty"`            // ms at 1×IΔn
	RcdTripCurrent  *float64 `json:"rcdTripCurrent,omitempty"`         // mA
	RcdResultPass   *bool    `json:"rcdResultPass,omitempty"`

	// PE continuity
	PeContinuityResistance *float64 `json:"peContinuityResistance,omitempty"` // Ω
	PeContinuityResultPass *bool    `json:"peContinuityResultPass,omitempty"`

	// Earthing
	EarthingResistance *float64 `json:"earthingResistance,omitempty"` // Ω
	EarthingResultPass *bool    `json:"earthingResultPass,omitempty"`

	// Polarity / phase sequence
	PolarityResultPass      *bool   `json:"polarityResultPass,omitempty"`
	PhaseSequenceDirection  *string `gorm:"size:20" json:"phaseSequenceDirection,omitempty"` // cw / ccw
	PhaseSequenceResultPass *bool   `json:"phaseSequenceResultPass,omitempty"`

	// Circuit breaker check
	BreakerRating     *string `gorm:"size:50" json:"breakerRating,omitempty"` // e.g. B16
	BreakersCheckPass *bool   `json:"breakersCheckPass,omitempty"`

	// Lightning protection system
	LpsContinuityResistance *float64 `json:"lpsContinuityResistance,omitempty"` // Ω
	LpsContinuityPass       *bool    `json:"lpsContinuityPass,omitempty"`
	LpsVisualPass           *bool    `json:"lpsVisualPass,omitempty"`

	Comments *string `gorm:"type:text" json:"comments,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate hook for MeasurementResult
func (m *MeasurementResult) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return
}

// PassFlags returns the ten pass/fail flags in a fixed order. A nil entry
// means the corresponding check was never recorded.
func (m *MeasurementResult) PassFlags() []*bool {
	return []*bool{
		m.LoopResultPass,
		m.InsulationResultPass,
		m.RcdResultPass,
		m.PeContinuityResultPass,
		m.EarthingResultPass,
		m.PolarityResultPass,
		m.PhaseSequenceResultPass,
		m.BreakersCheckPass,
		m.LpsContinuityPass,
		m.LpsVisualPass,
	}
}
