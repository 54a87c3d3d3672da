package protocol

import "p9e.in/elinspect/models"

// Category identifies one measurement category of the inspection.
type Category string

const (
	CategoryLoopImpedance Category = "loop_impedance"
	CategoryInsulation    Category = "insulation"
	CategoryRcd           Category = "rcd"
	CategoryPeContinuity  Category = "pe_continuity"
	CategoryEarthing      Category = "earthing"
	CategoryPolarity      Category = "polarity"
	CategoryPhaseSequence Category = "phase_sequence"
	CategoryBreakersCheck Category = "breakers_check"
	CategoryLps           Category = "lps"
)

// AllCategories in the order they appear on forms and in the protocol.
var AllCategories = []Category{
	CategoryLoopImpedance,
	CategoryInsulation,
	CategoryRcd,
	CategoryPeContinuity,
	CategoryEarthing,
	CategoryPolarity,
	CategoryPhaseSequence,
	CategoryBreakersCheck,
	CategoryLps,
}

// relevantByType maps each point type to the fixed allow-list of
// categories that make sense for that hardware, independent of what the
// order enables. "other" is relevant to everything.
var relevantByType = map[models.PointType][]Category{
	models.PointTypeSocket1P: {CategoryLoopImpedance, CategoryPolarity},
	models.PointTypeSocket3P: {CategoryLoopImpedance, CategoryPhaseSequence},
	models.PointTypeLighting: {CategoryLoopImpedance, CategoryInsulation, CategoryPolarity},
	models.PointTypeRcd:      {CategoryRcd, CategoryLoopImpedance},
	models.PointTypeEarthing: {CategoryEarthing, CategoryPeContinuity},
	models.PointTypeLps:      {CategoryLps},
	models.PointTypeOther:    AllCategories,
}

// RelevantCategories returns the allow-list for a point type.
func RelevantCategories(t models.PointType) []Category {
	return relevantByType[t]
}

func scopeEnables(scope models.MeasurementScope, c Category) bool {
	switch c {
	case CategoryLoopImpedance:
		return scope.LoopImpedance
	case CategoryInsulation:
		return scope.Insulation
	case CategoryRcd:
		return scope.Rcd
	case CategoryPeContinuity:
		return scope.PeContinuity
	case CategoryEarthing:
		return scope.Earthing
	case CategoryPolarity:
		return scope.Polarity
	case CategoryPhaseSequence:
		return scope.PhaseSequence
	case CategoryBreakersCheck:
		return scope.BreakersCheck
	case CategoryLps:
		return scope.Lps
	}
	return false
}

// CategoryInScope reports whether a measurement category appears for a
// point: the order must enable the category and the point's type must
// list it as relevant. Free-text comments bypass this check and are
// always available.
func CategoryInScope(c Category, scope models.MeasurementScope, t models.PointType) bool {
	if !scopeEnables(scope, c) {
		return false
	}
	for _, rc := range relevantByType[t] {
		if rc == c {
			return true
		}
	}
	return false
}
