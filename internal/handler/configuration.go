package handler

import (
	"net/http"

	"github.com/verdant-labs/climate-receivables/internal/metrics"
	"github.com/verdant-labs/climate-receivables/internal/riskconfig"
)

// GetRiskWeights returns the configured weight vector
func (h *Handler) GetRiskWeights(w http.ResponseWriter, r *http.Request) {
	weights, err := h.svc.ConfigStore().RiskWeights()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, weights)
}

// UpdateRiskWeights replaces the weight vector
func (h *Handler) UpdateRiskWeights(w http.ResponseWriter, r *http.Request) {
	var weights riskconfig.RiskWeights
	if !h.decodeBody(w, r, &weights) {
		return
	}
	if err := h.svc.ConfigStore().UpdateRiskWeights(weights); err != nil {
		h.respondError(w, err)
		return
	}
	metrics.ConfigUpdates.WithLabelValues("weights").Inc()
	h.log.Infof("Risk weights updated by user %s", h.actor(r))
	h.respondJSON(w, http.StatusOK, weights)
}

// GetRiskThresholds returns the configured thresholds
func (h *Handler) GetRiskThresholds(w http.ResponseWriter, r *http.Request) {
	thresholds, err := h.svc.ConfigStore().RiskThresholds()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, thresholds)
}

// UpdateRiskThresholds replaces the nine threshold values
func (h *Handler) UpdateRiskThresholds(w http.ResponseWriter, r *http.Request) {
	var thresholds riskconfig.RiskThresholds
	if !h.decodeBody(w, r, &thresholds) {
		return
	}
	if err := h.svc.ConfigStore().UpdateRiskThresholds(thresholds); err != nil {
		h.respondError(w, err)
		return
	}
	metrics.ConfigUpdates.WithLabelValues("thresholds").Inc()
	h.log.Infof("Risk thresholds updated by user %s", h.actor(r))
	h.respondJSON(w, http.StatusOK, thresholds)
}

// GetRiskParameters returns the configured scalar parameters
func (h *Handler) GetRiskParameters(w http.ResponseWriter, r *http.Request) {
	params, err := h.svc.ConfigStore().RiskParameters()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, params)
}

// UpdateRiskParameters replaces the scalar parameters
func (h *Handler) UpdateRiskParameters(w http.ResponseWriter, r *http.Request) {
	var params riskconfig.RiskParameters
	if !h.decodeBody(w, r, &params) {
		return
	}
	if err := h.svc.ConfigStore().UpdateRiskParameters(params); err != nil {
		h.respondError(w, err)
		return
	}
	metrics.ConfigUpdates.WithLabelValues("parameters").Inc()
	h.log.Infof("Risk parameters updated by user %s", h.actor(r))
	h.respondJSON(w, http.StatusOK, params)
}

// GetCreditRatingMatrix returns the matrix bands, strongest first
func (h *Handler) GetCreditRatingMatrix(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.svc.ConfigStore().CreditRatingMatrix()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, riskconfig.SortedRatings(matrix))
}

// UpdateCreditRatingMatrix bulk-replaces the credit rating matrix
func (h *Handler) UpdateCreditRatingMatrix(w http.ResponseWriter, r *http.Request) {
	var ratings []riskconfig.CreditRating
	if !h.decodeBody(w, r, &ratings) {
		return
	}
	if err := h.svc.ConfigStore().UpdateCreditRatingMatrix(ratings); err != nil {
		h.respondError(w, err)
		return
	}
	metrics.ConfigUpdates.WithLabelValues("credit_ratings").Inc()
	h.log.Infof("Credit rating matrix updated by user %s", h.actor(r))
	h.respondJSON(w, http.StatusOK, map[string]int{"bands": len(ratings)})
}

// ResetConfiguration reseeds every configuration category with defaults
func (h *Handler) ResetConfiguration(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ConfigStore().ResetToDefaults(); err != nil {
		h.respondError(w, err)
		return
	}
	metrics.ConfigUpdates.WithLabelValues("reset").Inc()
	h.log.Infof("Risk configuration reset by user %s", h.actor(r))
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
