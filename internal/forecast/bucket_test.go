package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant-labs/climate-receivables/internal/models"
)

func projection(date time.Time, amount float64, source models.CashFlowSource) models.CashFlowProjection {
	return models.CashFlowProjection{
		ProjectionDate:  date,
		ProjectedAmount: amount,
		SourceType:      source,
		EntityID:        "e-" + date.Format("20060102"),
	}
}

func TestAggregate_MonthBucketsAndSubtotals(t *testing.T) {
	projections := []models.CashFlowProjection{
		projection(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), 1000, models.SourceReceivable),
		projection(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), 500, models.SourceIncentive),
		projection(time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), 2000, models.SourceReceivable),
	}

	aggregation, err := Aggregate(projections, BucketMonth)
	require.NoError(t, err)
	require.Len(t, aggregation, 2)

	march := aggregation["2025-03"]
	assert.Equal(t, 1000.0, march.Receivables)
	assert.Equal(t, 500.0, march.Incentives)
	assert.Equal(t, 1500.0, march.Total)

	april := aggregation["2025-04"]
	assert.Equal(t, 2000.0, april.Receivables)
	assert.Equal(t, 0.0, april.Incentives)
	assert.Equal(t, 2000.0, april.Total)
}

func TestAggregate_QuarterAndDayLabels(t *testing.T) {
	d := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	projections := []models.CashFlowProjection{projection(d, 100, models.SourceReceivable)}

	byQuarter, err := Aggregate(projections, BucketQuarter)
	require.NoError(t, err)
	assert.Contains(t, byQuarter, "2025-Q3")

	byDay, err := Aggregate(projections, BucketDay)
	require.NoError(t, err)
	assert.Contains(t, byDay, "2025-08-15")
}

func TestAggregate_WeekOfMonthApproximation(t *testing.T) {
	// January 2025 starts on a Wednesday (weekday offset 3). The week-of-month
	// formula is ceil((day + offset) / 7), not ISO-8601.
	tests := []struct {
		day  int
		want string
	}{
		{day: 1, want: "2025-01-W1"},
		{day: 4, want: "2025-01-W1"}, // Saturday still week 1
		{day: 5, want: "2025-01-W2"}, // Sunday rolls into week 2
		{day: 18, want: "2025-01-W3"},
		{day: 31, want: "2025-01-W5"},
	}

	for _, tt := range tests {
		d := time.Date(2025, 1, tt.day, 0, 0, 0, 0, time.UTC)
		aggregation, err := Aggregate([]models.CashFlowProjection{projection(d, 10, models.SourceIncentive)}, BucketWeek)
		require.NoError(t, err)
		assert.Contains(t, aggregation, tt.want, "day %d", tt.day)
	}
}

func TestAggregate_UnknownBucketRejected(t *testing.T) {
	_, err := Aggregate(nil, Bucket("year"))
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestChartSeries_AlignedAndOrdered(t *testing.T) {
	projections := []models.CashFlowProjection{
		projection(time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), 2000, models.SourceReceivable),
		projection(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), 1000, models.SourceReceivable),
		projection(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), 500, models.SourceIncentive),
	}
	aggregation, err := Aggregate(projections, BucketMonth)
	require.NoError(t, err)

	chart := ChartSeries(aggregation)
	require.Equal(t, []string{"2025-03", "2025-04"}, chart.Labels)
	assert.Equal(t, []float64{1000, 2000}, chart.Receivables)
	assert.Equal(t, []float64{500, 0}, chart.Incentives)
	assert.Equal(t, []float64{1500, 2000}, chart.Total)
}

func TestChartSeries_Empty(t *testing.T) {
	chart := ChartSeries(map[string]PeriodTotals{})
	assert.Empty(t, chart.Labels)
	assert.Empty(t, chart.Receivables)
	assert.Empty(t, chart.Incentives)
	assert.Empty(t, chart.Total)
}
