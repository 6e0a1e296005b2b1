// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RiskCalculations counts risk calculations by outcome
	// (calculated, cached, failed)
	RiskCalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "climate_risk_calculations_total",
		Help: "Risk score calculations by outcome",
	}, []string{"outcome"})

	// ForecastRuns counts cash-flow forecast generations
	ForecastRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "climate_forecast_runs_total",
		Help: "Cash-flow forecast generations",
	})

	// ConfigUpdates counts configuration updates by category
	ConfigUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "climate_config_updates_total",
		Help: "Risk configuration updates by category",
	}, []string{"category"})

	// AlertEmails counts risk alert emails by result (sent, failed)
	AlertEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "climate_alert_emails_total",
		Help: "Risk alert emails by result",
	}, []string{"result"})
)
