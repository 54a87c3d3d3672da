package models

import "fmt"

// OrderStatus is the lifecycle state of an inspection order.
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "draft"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusDone       OrderStatus = "done"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []OrderStatus{OrderStatusDraft, OrderStatusInProgress, OrderStatusDone}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusInProgress, OrderStatusDone:
		return true
	}
	return false
}

// PointType classifies the hardware at a measurement point.
type PointType string

const (
	PointTypeSocket1P PointType = "socket_1p"
	PointTypeSocket3P PointType = "socket_3p"
	PointTypeLighting PointType = "lighting"
	PointTypeRcd      PointType = "rcd"
	PointTypeEarthing PointType = "earthing"
	PointTypeLps      PointType = "lps"
	PointTypeOther    PointType = "other"
)

// PointTypes lists every valid point type.
var PointTypes = []PointType{
	PointTypeSocket1P, PointTypeSocket3P, PointTypeLighting,
	PointTypeRcd, PointTypeEarthing, PointTypeLps, PointTypeOther,
}

func (t PointType) Valid() bool {
	for _, pt := range PointTypes {
		if t == pt {
			return true
		}
	}
	return false
}

func (t PointType) String() string { return string(t) }

// ParsePointType validates a raw string coming from a form or API payload.
func ParsePointType(s string) (PointType, error) {
	t := PointType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown point type %q", s)
	}
	return t, nil
}
