package kafka

import (
	"context"
	"errors"
	"log/slog"

	"github.com/calvin/audit-service/internal/apperrors"
	"github.com/calvin/audit-service/internal/metrics"
	"github.com/calvin/audit-service/internal/services"
)

// Handler runs one event-channel payload through the ingestion pipeline.
// Bad payloads are logged and dropped; the channel redelivers on crash, so
// duplicates are possible and accepted.
type Handler struct {
	svc *services.AuditService
	log *slog.Logger
}

func NewHandler(svc *services.AuditService, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Handle(ctx context.Context, payload []byte) {
	l, err := h.svc.IngestMessage(ctx, payload)
	if err != nil {
		metrics.EventsRejected.WithLabelValues("kafka", rejectReason(err)).Inc()
		h.log.Error("audit event dropped", "err", err)
		return
	}
	metrics.EventsIngested.WithLabelValues("kafka").Inc()
	h.log.Info("audit event created", "id", l.ID, "event_id", l.EventID, "entity_type", l.EntityType)
}

func rejectReason(err error) string {
	var me *apperrors.MalformedEventError
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &me):
		return "malformed"
	case errors.As(err, &ve):
		return "validation"
	default:
		return "store"
	}
}
