package bom

import (
	"github.com/google/uuid"

	"go-fabshop/internal/model"
)

// Requirement is the computed material need for one template line.
type Requirement struct {
	StockItemID uuid.UUID `json:"stock_item_id"`
	Quantity    float64   `json:"quantity"`
}

// Requirements evaluates every line of a template against the measurements,
// in template line order. Lines whose formula no longer parses contribute
// quantity 0. Duplicate stock items across lines are intentionally NOT
// aggregated; callers get one entry per line, matching how reservations are
// booked.
func Requirements(template *model.ServiceBOMTemplate, m Measurements) []Requirement {
	reqs := make([]Requirement, 0, len(template.Lines))
	for _, line := range template.Lines {
		reqs = append(reqs, Requirement{
			StockItemID: line.StockItemID,
			Quantity:    EvaluateFormula(line.QuantityFormula, m),
		})
	}
	return reqs
}

// FromVisit builds Measurements from what a site visit recorded. Unrecorded
// dimensions read as zero.
func FromVisit(visit *model.SiteVisit) Measurements {
	var m Measurements
	if visit == nil {
		return m
	}
	if visit.Width != nil {
		m.Width = *visit.Width
	}
	if visit.Height != nil {
		m.Height = *visit.Height
	}
	m.Area = visit.Area
	m.Perimeter = visit.Perimeter
	return m
}
