package store

import (
	"strings"

	"p9e.in/elinspect/models"
)

// Shared input validation, run by both backends before any write.

// enumList renders an enum slice for a validation message, so the message
// cannot drift from the model's actual value set.
func enumList[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func validateClient(c *models.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("client.name", "required")
	}
	if strings.TrimSpace(c.Address) == "" {
		return invalid("client.address", "required")
	}
	return nil
}

func validateOrder(o *models.InspectionOrder) error {
	if o.ClientID == "" {
		return invalid("order.clientId", "required")
	}
	if strings.TrimSpace(o.ObjectName) == "" {
		return invalid("order.objectName", "required")
	}
	if strings.TrimSpace(o.Address) == "" {
		return invalid("order.address", "required")
	}
	if o.Status != "" && !o.Status.Valid() {
		return invalid("order.status", "must be one of "+enumList(models.OrderStatuses))
	}
	return nil
}

func validateRoom(r *models.Room) error {
	if r.OrderID == "" {
		return invalid("room.orderId", "required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return invalid("room.name", "required")
	}
	return nil
}

func validatePoint(p *models.MeasurementPoint) error {
	if p.OrderID == "" {
		return invalid("point.orderId", "required")
	}
	if strings.TrimSpace(p.Label) == "" {
		return invalid("point.label", "required")
	}
	if _, err := models.ParsePointType(string(p.Type)); err != nil {
		return invalid("point.type", "must be one of "+enumList(models.PointTypes))
	}
	return nil
}

func validateResult(r *models.MeasurementResult) error {
	if r.PointID == "" {
		return invalid("result.pointId", "required")
	}
	return nil
}

func validateVisual(v *models.VisualInspection) error {
	if v.OrderID == "" {
		return invalid("visualInspection.orderId", "required")
	}
	if strings.TrimSpace(v.Summary) == "" {
		return invalid("visualInspection.summary", "required")
	}
	return nil
}

func validateSnapshot(s *models.ProtocolSnapshot) error {
	if s.OrderID == "" {
		return invalid("protocolSnapshot.orderId", "required")
	}
	if len(s.Data) == 0 {
		return invalid("protocolSnapshot.data", "required")
	}
	return nil
}
