package models

import (
	"time"

	"github.com/google/uuid"
)

// IncentiveStatus is the lifecycle state of an incentive claim
type IncentiveStatus string

const (
	IncentiveApplied  IncentiveStatus = "applied"
	IncentivePending  IncentiveStatus = "pending"
	IncentiveApproved IncentiveStatus = "approved"
	IncentiveReceived IncentiveStatus = "received"
	IncentiveRejected IncentiveStatus = "rejected"
)

// ValidIncentiveStatus reports whether s is one of the known statuses
func ValidIncentiveStatus(s IncentiveStatus) bool {
	switch s {
	case IncentiveApplied, IncentivePending, IncentiveApproved, IncentiveReceived, IncentiveRejected:
		return true
	}
	return false
}

// Incentive represents an ancillary cash inflow (tax credit, REC, grant,
// subsidy) tied to an asset or a specific receivable
type Incentive struct {
	ID                  uuid.UUID       `json:"id"`
	Type                string          `json:"type"`
	Amount              float64         `json:"amount"`
	Status              IncentiveStatus `json:"status"`
	ExpectedReceiptDate *time.Time      `json:"expected_receipt_date,omitempty"`
	AssetID             *uuid.UUID      `json:"asset_id,omitempty"`
	ReceivableID        *uuid.UUID      `json:"receivable_id,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
