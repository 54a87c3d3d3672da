package protocol

import "p9e.in/elinspect/models"

// Status is the derived display state of a measurement point.
type Status string

const (
	StatusUnmeasured Status = "unmeasured"
	StatusOK         Status = "ok"
	StatusNotOK      Status = "not_ok"
)

// DeriveStatus computes a point's status from its result record, if any.
// No result means the point was never measured. With a result present,
// only pass flags that were actually recorded count: any recorded failure
// makes the point not_ok, otherwise it is ok. A result with no flags
// recorded at all derives ok, since absence of a failure signal passes; see
// TestDeriveStatusNoFlagsRecorded, which pins this.
func DeriveStatus(res *models.MeasurementResult) Status {
	if res == nil {
		return StatusUnmeasured
	}
	for _, flag := range res.PassFlags() {
		if flag != nil && !*flag {
			return StatusNotOK
		}
	}
	return StatusOK
}

// ReportLabel is the string the protocol prints for a status.
func (s Status) ReportLabel() string {
	switch s {
	case StatusOK:
		return "PASS"
	case StatusNotOK:
		return "FAIL"
	default:
		return "N/A"
	}
}
