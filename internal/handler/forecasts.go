package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/verdant-labs/climate-receivables/internal/forecast"
)

// GenerateForecast produces cash-flow projections over the current data.
// Query parameters: start (RFC 3339 date, default now), months (default 12),
// bucket (day|week|month|quarter, default month).
func (h *Handler) GenerateForecast(w http.ResponseWriter, r *http.Request) {
	var opts forecast.Options

	if raw := r.URL.Query().Get("start"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "start must be a YYYY-MM-DD date"})
			return
		}
		opts.Start = start
	}
	if raw := r.URL.Query().Get("months"); raw != "" {
		months, err := strconv.Atoi(raw)
		if err != nil {
			h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "months must be an integer"})
			return
		}
		opts.HorizonMonths = months
	}
	bucket := forecast.BucketMonth
	if raw := r.URL.Query().Get("bucket"); raw != "" {
		bucket = forecast.Bucket(raw)
	}

	result, err := h.svc.Forecast(opts, bucket)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}
