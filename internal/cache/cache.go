// Package cache stores computed risk assessments so repeated recalculation
// requests can be served without recomputing. A force recalculation bypasses
// and overwrites any cached entry.
package cache

import (
	"context"
	"time"

	"github.com/verdant-labs/climate-receivables/internal/risk"
)

// ScoreCache defines the interface for risk assessment caching
type ScoreCache interface {
	// Get returns the cached assessment for a receivable; the second return
	// is false on a miss or an expired entry
	Get(ctx context.Context, receivableID string) (*risk.Assessment, bool, error)
	// Set stores an assessment for a receivable
	Set(ctx context.Context, receivableID string, a risk.Assessment) error
	// Invalidate drops the cached assessment for a receivable
	Invalidate(ctx context.Context, receivableID string) error
	Close() error
}

// Options configures cache behavior
type Options struct {
	TTL time.Duration
}

// DefaultOptions returns the default cache configuration
func DefaultOptions() *Options {
	return &Options{TTL: 6 * time.Hour}
}
