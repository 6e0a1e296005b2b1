// Package forecast projects and aggregates expected future cash inflows from
// receivables and incentives under probability weighting. The generator is
// stateless: identical inputs always yield identical, ordered output.
package forecast

import (
	"sort"
	"time"

	"github.com/verdant-labs/climate-receivables/internal/models"
)

// DefaultHorizonMonths is the forecast window applied when none is given
const DefaultHorizonMonths = 12

// Options controls the forecast window
type Options struct {
	// Start is the window start; zero means now
	Start time.Time
	// HorizonMonths is the window length; zero means DefaultHorizonMonths
	HorizonMonths int
}

// incentiveProbability is the status-dependent likelihood of receipt
var incentiveProbability = map[models.IncentiveStatus]float64{
	models.IncentiveApplied:  0.70,
	models.IncentivePending:  0.80,
	models.IncentiveApproved: 0.95,
	models.IncentiveReceived: 1.0,
}

// incentiveLeadDays is the assumed days until receipt when no expected
// receipt date is set
var incentiveLeadDays = map[models.IncentiveStatus]int{
	models.IncentiveApplied:  90,
	models.IncentivePending:  60,
	models.IncentiveApproved: 30,
}

// Generate produces dated, probability-weighted projections for every
// receivable and incentive falling inside the forecast window, sorted
// ascending by projection date. A negative horizon is the only input that
// fails; missing optional fields never do.
func Generate(receivables []models.Receivable, incentives []models.Incentive, opts Options) ([]models.CashFlowProjection, error) {
	if opts.HorizonMonths < 0 {
		return nil, models.NewValidationError("horizon_months", "forecast horizon must not be negative, got %d", opts.HorizonMonths)
	}
	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}
	horizon := opts.HorizonMonths
	if horizon == 0 {
		horizon = DefaultHorizonMonths
	}
	end := start.AddDate(0, horizon, 0)

	projections := make([]models.CashFlowProjection, 0, len(receivables)+len(incentives))

	for _, r := range receivables {
		if !inWindow(r.DueDate, start, end) {
			continue
		}
		// Risk-adjusted expected value; full face value when no score is
		// attached yet.
		amount := r.Amount
		if r.RiskScore != nil {
			amount = r.Amount * (1 - *r.RiskScore/100)
		}
		projections = append(projections, models.CashFlowProjection{
			ProjectionDate:  r.DueDate,
			ProjectedAmount: amount,
			SourceType:      models.SourceReceivable,
			EntityID:        r.ID.String(),
		})
	}

	for _, in := range incentives {
		if in.Status == models.IncentiveRejected {
			// probability 0
			continue
		}
		probability, ok := incentiveProbability[in.Status]
		if !ok {
			continue
		}
		date := effectiveReceiptDate(in, start)
		if !inWindow(date, start, end) {
			continue
		}
		projections = append(projections, models.CashFlowProjection{
			ProjectionDate:  date,
			ProjectedAmount: in.Amount * probability,
			SourceType:      models.SourceIncentive,
			EntityID:        in.ID.String(),
		})
	}

	// Stable total order so repeated runs are byte-identical.
	sort.Slice(projections, func(i, j int) bool {
		a, b := projections[i], projections[j]
		if !a.ProjectionDate.Equal(b.ProjectionDate) {
			return a.ProjectionDate.Before(b.ProjectionDate)
		}
		if a.SourceType != b.SourceType {
			return a.SourceType < b.SourceType
		}
		return a.EntityID < b.EntityID
	})
	return projections, nil
}

// inWindow reports whether d falls inside [start, end], inclusive both ends
func inWindow(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

// effectiveReceiptDate resolves when an incentive is expected to pay out:
// its expected receipt date when set, otherwise now plus a status-dependent
// lead time
func effectiveReceiptDate(in models.Incentive, now time.Time) time.Time {
	if in.ExpectedReceiptDate != nil {
		return *in.ExpectedReceiptDate
	}
	return now.AddDate(0, 0, incentiveLeadDays[in.Status])
}
