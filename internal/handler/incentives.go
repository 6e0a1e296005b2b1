package handler

import (
	"net/http"

	"github.com/verdant-labs/climate-receivables/internal/models"
)

// CreateIncentive handles incentive creation
func (h *Handler) CreateIncentive(w http.ResponseWriter, r *http.Request) {
	var in models.Incentive
	if !h.decodeBody(w, r, &in) {
		return
	}
	if err := h.svc.CreateIncentive(&in); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, in)
}

// GetIncentive returns one incentive
func (h *Handler) GetIncentive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	in, err := h.svc.GetIncentive(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, in)
}

// ListIncentives returns all incentives
func (h *Handler) ListIncentives(w http.ResponseWriter, r *http.Request) {
	incentives, err := h.svc.ListIncentives()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, incentives)
}

// UpdateIncentiveStatus moves an incentive to a new lifecycle status
func (h *Handler) UpdateIncentiveStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status models.IncentiveStatus `json:"status"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.UpdateIncentiveStatus(id, req.Status); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}
