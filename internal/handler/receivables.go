package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/verdant-labs/climate-receivables/internal/models"
	"github.com/verdant-labs/climate-receivables/internal/service"
)

// pathID parses the {id} path variable as a UUID
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// CreateAsset handles asset registration
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var asset models.Asset
	if !h.decodeBody(w, r, &asset) {
		return
	}
	if err := h.svc.CreateAsset(&asset); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, asset)
}

// CreatePayer handles payer registration
func (h *Handler) CreatePayer(w http.ResponseWriter, r *http.Request) {
	var payer models.Payer
	if !h.decodeBody(w, r, &payer) {
		return
	}
	if err := h.svc.CreatePayer(&payer); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, payer)
}

// CreateReceivable handles receivable creation
func (h *Handler) CreateReceivable(w http.ResponseWriter, r *http.Request) {
	var input service.CreateReceivableInput
	if !h.decodeBody(w, r, &input) {
		return
	}
	rec, err := h.svc.CreateReceivable(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, rec)
}

// GetReceivable returns one receivable
func (h *Handler) GetReceivable(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.GetReceivable(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, rec)
}

// ListReceivables returns all receivables
func (h *Handler) ListReceivables(w http.ResponseWriter, r *http.Request) {
	receivables, err := h.svc.ListReceivables()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, receivables)
}

// DeleteReceivable removes a receivable
func (h *Handler) DeleteReceivable(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteReceivable(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

// RecalculateRisk recomputes the risk assessment for one receivable. The
// force query flag bypasses any cached score.
func (h *Handler) RecalculateRisk(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	force := r.URL.Query().Get("force") == "true"
	assessment, err := h.svc.RecalculateRisk(r.Context(), id, force)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, assessment)
}

// RecalculateAllRisk runs a batch recalculation over every receivable
func (h *Handler) RecalculateAllRisk(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	result, err := h.svc.RecalculateAll(r.Context(), force)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}
