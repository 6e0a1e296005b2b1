package service

import (
	"github.com/verdant-labs/climate-receivables/internal/forecast"
	"github.com/verdant-labs/climate-receivables/internal/metrics"
	"github.com/verdant-labs/climate-receivables/internal/models"
)

// ForecastResult bundles the projections of one forecast run with their
// aggregation and chart-ready series
type ForecastResult struct {
	Projections []models.CashFlowProjection      `json:"projections"`
	Aggregation map[string]forecast.PeriodTotals `json:"aggregation"`
	Chart       forecast.ChartData               `json:"chart"`
}

// Forecast generates cash-flow projections over a snapshot of the current
// receivables and incentives
func (s *Service) Forecast(opts forecast.Options, bucket forecast.Bucket) (*ForecastResult, error) {
	receivables, err := s.repo.ListReceivables()
	if err != nil {
		return nil, err
	}
	incentives, err := s.repo.ListIncentives()
	if err != nil {
		return nil, err
	}

	projections, err := forecast.Generate(receivables, incentives, opts)
	if err != nil {
		return nil, err
	}
	aggregation, err := forecast.Aggregate(projections, bucket)
	if err != nil {
		return nil, err
	}

	metrics.ForecastRuns.Inc()
	s.log.Infof("Forecast generated: %d projections in %d %s buckets", len(projections), len(aggregation), bucket)
	return &ForecastResult{
		Projections: projections,
		Aggregation: aggregation,
		Chart:       forecast.ChartSeries(aggregation),
	}, nil
}
