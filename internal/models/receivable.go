package models

import (
	"time"

	"github.com/google/uuid"
)

// Receivable represents a payment obligation owed against the output of an
// energy-producing asset
type Receivable struct {
	ID           uuid.UUID  `json:"id"`
	AssetID      uuid.UUID  `json:"asset_id"`
	PayerID      uuid.UUID  `json:"payer_id"`
	Amount       float64    `json:"amount"`
	DueDate      time.Time  `json:"due_date"`
	RiskScore    *float64   `json:"risk_score,omitempty"`    // 0-100, higher is riskier
	DiscountRate *float64   `json:"discount_rate,omitempty"` // percent
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
