package models

import "time"

// CashFlowSource identifies what kind of entity produced a projection
type CashFlowSource string

const (
	SourceReceivable CashFlowSource = "receivable"
	SourceIncentive  CashFlowSource = "incentive"
)

// CashFlowProjection is a single dated, probability-weighted expected cash
// inflow. Projections are computed on demand and not persisted unless the
// caller chooses to save them.
type CashFlowProjection struct {
	ProjectionDate  time.Time      `json:"projection_date"`
	ProjectedAmount float64        `json:"projected_amount"`
	SourceType      CashFlowSource `json:"source_type"`
	EntityID        string         `json:"entity_id"`
}
