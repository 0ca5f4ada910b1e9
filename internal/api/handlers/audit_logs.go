package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calvin/audit-service/internal/apperrors"
	"github.com/calvin/audit-service/internal/api/httpx"
	"github.com/calvin/audit-service/internal/auth"
	"github.com/calvin/audit-service/internal/metrics"
	"github.com/calvin/audit-service/internal/services"
)

type AuditLogsHandler struct {
	Svc   *services.AuditService
	Authn auth.Authenticator
}

func NewAuditLogsHandler(svc *services.AuditService, authn auth.Authenticator) *AuditLogsHandler {
	return &AuditLogsHandler{Svc: svc, Authn: authn}
}

type createLogReq struct {
	EventID     string  `json:"eventId"`
	EventType   string  `json:"eventType"`
	ServiceName string  `json:"serviceName"`
	UserID      string  `json:"userId"`
	EntityID    string  `json:"entityId"`
	EntityType  string  `json:"entityType"`
	OldValue    *string `json:"oldValue"`
	NewValue    *string `json:"newValue"`
	Action      string  `json:"action"`
	// A timestamp field in the request body is ignored: the pipeline
	// assigns timestamps itself.
}

// List handles GET /logs/{userId}: the ACL-filtered view of the store.
func (h *AuditLogsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.Authn.Authenticate(r) {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication is required to retrieve the audit log")
		return
	}
	logs, err := h.Svc.ListVisibleLogs(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, logs)
}

// Create handles POST /logs: direct ingestion of a single audit event.
func (h *AuditLogsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.Authn.Authenticate(r) {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication is required to create an audit log")
		return
	}
	var req createLogReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// The pipeline re-checks these; rejecting here keeps garbage out of
	// the service layer entirely.
	if req.EventID == "" || req.EventType == "" || req.EntityID == "" || req.EntityType == "" {
		metrics.EventsRejected.WithLabelValues("api", "validation").Inc()
		httpx.WriteError(w, http.StatusBadRequest, "invalid input data")
		return
	}

	l, err := h.Svc.Ingest(r.Context(), services.AuditEvent{
		EventID:     req.EventID,
		EventType:   req.EventType,
		ServiceName: req.ServiceName,
		UserID:      req.UserID,
		EntityID:    req.EntityID,
		EntityType:  req.EntityType,
		OldValue:    req.OldValue,
		NewValue:    req.NewValue,
		Action:      req.Action,
	})
	if err != nil {
		var ve *apperrors.ValidationError
		if errors.As(err, &ve) {
			metrics.EventsRejected.WithLabelValues("api", "validation").Inc()
		} else {
			metrics.EventsRejected.WithLabelValues("api", "store").Inc()
		}
		writeServiceError(w, err)
		return
	}
	metrics.EventsIngested.WithLabelValues("api").Inc()
	httpx.WriteJSON(w, http.StatusCreated, l)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var ve *apperrors.ValidationError
	var me *apperrors.MalformedEventError
	switch {
	case errors.Is(err, apperrors.ErrPolicyNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &ve), errors.As(err, &me):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
	default:
		httpx.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
