package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// PeriodService manages the month close/reopen registry that gates every
// report rebuild
type PeriodService struct {
	periodRepo finance.FinancePeriodRepository
	eventBus   shared.EventPublisher
	logger     *zap.Logger
}

// NewPeriodService creates a new PeriodService
func NewPeriodService(periodRepo finance.FinancePeriodRepository, eventBus shared.EventPublisher, logger *zap.Logger) *PeriodService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{
		periodRepo: periodRepo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// ClosePeriod locks a month against rebuilds. Months with no registry row
// are open, so closing one creates the row on first use.
func (s *PeriodService) ClosePeriod(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, closedBy uuid.UUID) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	period, err := s.periodRepo.Find(ctx, scope, ym)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("failed to load period: %w", err)
		}
		period, err = finance.NewFinancePeriod(scope, ym)
		if err != nil {
			return err
		}
	}

	if err := period.Close(closedBy); err != nil {
		return err
	}
	if err := s.periodRepo.Save(ctx, period); err != nil {
		return fmt.Errorf("failed to save period: %w", err)
	}

	s.logger.Info("finance period closed",
		zap.String("period", ym.String()),
		zap.String("company_id", scope.CompanyID.String()))

	s.publish(ctx, period)
	return nil
}

// ReopenPeriod unlocks a previously closed month
func (s *PeriodService) ReopenPeriod(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, reopenedBy uuid.UUID) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	period, err := s.periodRepo.Find(ctx, scope, ym)
	if err != nil {
		return fmt.Errorf("failed to load period: %w", err)
	}
	if err := period.Reopen(reopenedBy); err != nil {
		return err
	}
	if err := s.periodRepo.Save(ctx, period); err != nil {
		return fmt.Errorf("failed to save period: %w", err)
	}

	s.logger.Info("finance period reopened",
		zap.String("period", ym.String()),
		zap.String("company_id", scope.CompanyID.String()))

	s.publish(ctx, period)
	return nil
}

// IsOpen reports whether a month currently accepts rebuilds
func (s *PeriodService) IsOpen(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (bool, error) {
	if err := scope.Validate(); err != nil {
		return false, err
	}
	return s.periodRepo.IsOpen(ctx, scope, ym)
}

func (s *PeriodService) publish(ctx context.Context, period *finance.FinancePeriod) {
	events := period.GetDomainEvents()
	if s.eventBus == nil || len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	period.ClearDomainEvents()
}
