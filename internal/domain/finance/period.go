package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// PeriodStatus represents whether a finance period accepts rebuilds
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "OPEN"
	PeriodStatusClosed PeriodStatus = "CLOSED"
)

// IsValid checks if the status is valid
func (s PeriodStatus) IsValid() bool {
	return s == PeriodStatusOpen || s == PeriodStatusClosed
}

// String returns the string representation of PeriodStatus
func (s PeriodStatus) String() string {
	return string(s)
}

// FinancePeriod is the per-(tenant, company, year-month) gate every rebuild
// operation must honor. No row for a month means the month is open.
type FinancePeriod struct {
	shared.CompanyAggregateRoot
	Period   valueobject.YearMonth `json:"period"`
	Status   PeriodStatus          `json:"status"`
	ClosedAt *time.Time            `json:"closed_at"`
	ClosedBy *uuid.UUID            `json:"closed_by"`
}

// NewFinancePeriod creates an open finance period
func NewFinancePeriod(scope shared.Scope, period valueobject.YearMonth) (*FinancePeriod, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if period.IsZero() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period is required")
	}

	return &FinancePeriod{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(scope),
		Period:               period,
		Status:               PeriodStatusOpen,
	}, nil
}

// IsOpen reports whether rebuilds may touch the period
func (p *FinancePeriod) IsOpen() bool {
	return p.Status == PeriodStatusOpen
}

// Close locks the books for the month
func (p *FinancePeriod) Close(closedBy uuid.UUID) error {
	if p.Status == PeriodStatusClosed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Period %s is already closed", p.Period))
	}
	if closedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Closing user ID is required")
	}

	now := time.Now()
	p.Status = PeriodStatusClosed
	p.ClosedAt = &now
	p.ClosedBy = &closedBy
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPeriodClosedEvent(p))

	return nil
}

// Reopen unlocks a closed period
func (p *FinancePeriod) Reopen(reopenedBy uuid.UUID) error {
	if p.Status == PeriodStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Period %s is already open", p.Period))
	}
	if reopenedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Reopening user ID is required")
	}

	now := time.Now()
	p.Status = PeriodStatusOpen
	p.ClosedAt = nil
	p.ClosedBy = nil
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPeriodReopenedEvent(p, reopenedBy))

	return nil
}
