package finance

import (
	"time"

	"github.com/google/uuid"

	"github.com/structura/backend/internal/domain/shared"
)

// PeriodClosedEvent is raised when a finance period is locked
type PeriodClosedEvent struct {
	shared.BaseDomainEvent
	PeriodID  uuid.UUID `json:"period_id"`
	CompanyID uuid.UUID `json:"company_id"`
	Period    string    `json:"period"`
	ClosedBy  uuid.UUID `json:"closed_by"`
	ClosedAt  time.Time `json:"closed_at"`
}

// EventType returns the event type name
func (e *PeriodClosedEvent) EventType() string {
	return "PeriodClosed"
}

// NewPeriodClosedEvent creates a new PeriodClosedEvent
func NewPeriodClosedEvent(p *FinancePeriod) *PeriodClosedEvent {
	var closedBy uuid.UUID
	closedAt := time.Now()
	if p.ClosedBy != nil {
		closedBy = *p.ClosedBy
	}
	if p.ClosedAt != nil {
		closedAt = *p.ClosedAt
	}
	return &PeriodClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PeriodClosed", "FinancePeriod", p.ID, p.TenantID),
		PeriodID:        p.ID,
		CompanyID:       p.CompanyID,
		Period:          p.Period.String(),
		ClosedBy:        closedBy,
		ClosedAt:        closedAt,
	}
}

// PeriodReopenedEvent is raised when a closed finance period is unlocked
type PeriodReopenedEvent struct {
	shared.BaseDomainEvent
	PeriodID   uuid.UUID `json:"period_id"`
	CompanyID  uuid.UUID `json:"company_id"`
	Period     string    `json:"period"`
	ReopenedBy uuid.UUID `json:"reopened_by"`
}

// EventType returns the event type name
func (e *PeriodReopenedEvent) EventType() string {
	return "PeriodReopened"
}

// NewPeriodReopenedEvent creates a new PeriodReopenedEvent
func NewPeriodReopenedEvent(p *FinancePeriod, reopenedBy uuid.UUID) *PeriodReopenedEvent {
	return &PeriodReopenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PeriodReopened", "FinancePeriod", p.ID, p.TenantID),
		PeriodID:        p.ID,
		CompanyID:       p.CompanyID,
		Period:          p.Period.String(),
		ReopenedBy:      reopenedBy,
	}
}
