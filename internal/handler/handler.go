package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/verdant-labs/climate-receivables/internal/middleware"
	"github.com/verdant-labs/climate-receivables/internal/models"
	"github.com/verdant-labs/climate-receivables/internal/service"
)

// Handler exposes the service over HTTP
type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// respondJSON writes a JSON response with the given status
func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.log.Errorf("Failed to encode response: %v", err)
		}
	}
}

// respondError maps domain errors onto HTTP statuses: validation failures to
// 422 with the violated invariant named, unknown ids to 404, configuration
// problems and everything else to 500
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var notFoundErr *models.NotFoundError
	var configErr *models.ConfigurationError

	switch {
	case errors.As(err, &validationErr):
		h.respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		h.respondJSON(w, http.StatusNotFound, map[string]string{"error": notFoundErr.Error()})
	case errors.As(err, &configErr):
		h.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": configErr.Error()})
	default:
		h.log.Errorf("Request failed: %v", err)
		h.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// actor names the authenticated user behind a request for audit logging
func (h *Handler) actor(r *http.Request) string {
	if id, ok := middleware.UserID(r.Context()); ok {
		return id
	}
	return "unknown"
}

// decodeBody parses a JSON request body into dst
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// Health reports service liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}
	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}
	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		h.respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"token": token})
}
