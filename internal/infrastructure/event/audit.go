package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/structura/backend/internal/domain/shared"
)

// AuditLogHandler writes every published domain event to the structured log.
// It subscribes with the wildcard so ledger postings, transfers and period
// state changes all leave an audit line without per-event wiring.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// Handle logs the event; it never fails
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes subscribes the handler to every event
func (h *AuditLogHandler) EventTypes() []string {
	return []string{WildcardEventType}
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
