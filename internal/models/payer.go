package models

import (
	"time"

	"github.com/google/uuid"
)

// Payer represents the counterparty obligated to pay a receivable
type Payer struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	CreditRating string    `json:"credit_rating"` // rating band label, e.g. "BBB+"
	// FinancialHealthScore is an externally resolved 0-100 score (higher is
	// healthier); nil when no assessment is available
	FinancialHealthScore *float64  `json:"financial_health_score,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
