package forecast

import (
	"fmt"
	"sort"
	"time"

	"github.com/verdant-labs/climate-receivables/internal/models"
)

// Bucket is the aggregation granularity
type Bucket string

const (
	BucketDay     Bucket = "day"
	BucketWeek    Bucket = "week"
	BucketMonth   Bucket = "month"
	BucketQuarter Bucket = "quarter"
)

// PeriodTotals accumulates the projected inflows of one bucket
type PeriodTotals struct {
	Receivables float64 `json:"receivables"`
	Incentives  float64 `json:"incentives"`
	Total       float64 `json:"total"`
}

// Aggregate buckets projections by period. Bucket labels sort
// lexicographically in chronological order, so consumers can order the map by
// key.
func Aggregate(projections []models.CashFlowProjection, bucket Bucket) (map[string]PeriodTotals, error) {
	switch bucket {
	case BucketDay, BucketWeek, BucketMonth, BucketQuarter:
	default:
		return nil, models.NewValidationError("bucket", "unknown aggregation bucket %q", string(bucket))
	}
	out := make(map[string]PeriodTotals)
	for _, p := range projections {
		label := bucketLabel(p.ProjectionDate, bucket)
		totals := out[label]
		switch p.SourceType {
		case models.SourceReceivable:
			totals.Receivables += p.ProjectedAmount
		case models.SourceIncentive:
			totals.Incentives += p.ProjectedAmount
		}
		totals.Total += p.ProjectedAmount
		out[label] = totals
	}
	return out, nil
}

// bucketLabel derives the period label for a date
func bucketLabel(d time.Time, bucket Bucket) string {
	switch bucket {
	case BucketDay:
		return d.Format("2006-01-02")
	case BucketWeek:
		return fmt.Sprintf("%s-W%d", d.Format("2006-01"), weekOfMonth(d))
	case BucketQuarter:
		return fmt.Sprintf("%d-Q%d", d.Year(), (int(d.Month())-1)/3+1)
	default:
		return d.Format("2006-01")
	}
}

// weekOfMonth numbers the weeks of a month as ceil((day + weekday offset of
// the month start) / 7), with weeks starting on Sunday. This is deliberately
// not ISO-8601 week numbering; downstream chart consumers depend on these
// bucket boundaries.
func weekOfMonth(d time.Time) int {
	firstOfMonth := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	offset := int(firstOfMonth.Weekday())
	return (d.Day() + offset + 6) / 7
}

// ChartData is the chart-ready form of an aggregation: one ordered label per
// bucket and one numeric series per source type, aligned by index
type ChartData struct {
	Labels      []string  `json:"labels"`
	Receivables []float64 `json:"receivables"`
	Incentives  []float64 `json:"incentives"`
	Total       []float64 `json:"total"`
}

// ChartSeries converts an aggregation map into aligned label and value series
func ChartSeries(aggregation map[string]PeriodTotals) ChartData {
	labels := make([]string, 0, len(aggregation))
	for label := range aggregation {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	chart := ChartData{
		Labels:      labels,
		Receivables: make([]float64, len(labels)),
		Incentives:  make([]float64, len(labels)),
		Total:       make([]float64, len(labels)),
	}
	for i, label := range labels {
		totals := aggregation[label]
		chart.Receivables[i] = totals.Receivables
		chart.Incentives[i] = totals.Incentives
		chart.Total[i] = totals.Total
	}
	return chart
}
