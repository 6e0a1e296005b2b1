package models

import (
	"time"

	"github.com/google/uuid"
)

// Asset represents an energy-producing asset whose output backs receivables
type Asset struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"` // solar, wind, hydro, biomass
	Location   string    `json:"location"`
	CapacityMW float64   `json:"capacity_mw"`
	// ProductionVariability is the externally estimated output variability on
	// a 0-100 scale; nil when no estimate has been resolved yet
	ProductionVariability *float64  `json:"production_variability,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
