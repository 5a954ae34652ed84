package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
)

// DebtSnapshotResult reports how many rows a snapshot batch appended
type DebtSnapshotResult struct {
	ARRecords int `json:"ar_records"`
	APRecords int `json:"ap_records"`
}

// DebtSnapshotService captures point-in-time receivable and payable
// balances. Each run appends a fresh batch; history is never rewritten.
type DebtSnapshotService struct {
	repos  finance.Repositories
	logger *zap.Logger
}

// NewDebtSnapshotService creates a new DebtSnapshotService
func NewDebtSnapshotService(repos finance.Repositories, logger *zap.Logger) *DebtSnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DebtSnapshotService{repos: repos, logger: logger}
}

// Snapshot appends one AR batch and one AP batch for the given date.
// Zero-balance positions are left out: the snapshot records debt, not the
// absence of it.
func (s *DebtSnapshotService) Snapshot(ctx context.Context, scope shared.Scope, date time.Time) (DebtSnapshotResult, error) {
	if err := scope.Validate(); err != nil {
		return DebtSnapshotResult{}, err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	asOf := day.AddDate(0, 0, 1).Add(-time.Nanosecond)

	arRows, err := s.receivables(ctx, scope, day, asOf)
	if err != nil {
		return DebtSnapshotResult{}, err
	}
	apRows, err := s.payables(ctx, scope, day, asOf)
	if err != nil {
		return DebtSnapshotResult{}, err
	}

	if len(arRows) > 0 {
		if err := s.repos.Debts.AppendBatch(ctx, arRows); err != nil {
			return DebtSnapshotResult{}, fmt.Errorf("failed to append AR snapshot: %w", err)
		}
	}
	if len(apRows) > 0 {
		if err := s.repos.Debts.AppendBatch(ctx, apRows); err != nil {
			return DebtSnapshotResult{}, fmt.Errorf("failed to append AP snapshot: %w", err)
		}
	}

	s.logger.Info("debt snapshot taken",
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("ar_records", len(arRows)),
		zap.Int("ap_records", len(apRows)))

	return DebtSnapshotResult{ARRecords: len(arRows), APRecords: len(apRows)}, nil
}

// receivables computes outstanding per contract: agreed total minus paid
// inflows linked to the contract as of the date
func (s *DebtSnapshotService) receivables(ctx context.Context, scope shared.Scope, day, asOf time.Time) ([]finance.DebtSnapshot, error) {
	contracts, err := s.repos.Contracts.ListSignedAsOf(ctx, scope, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	paid, err := s.repos.Transactions.SumPaidByContractAsOf(ctx, scope, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to sum contract payments: %w", err)
	}

	var rows []finance.DebtSnapshot
	for _, c := range contracts {
		outstanding := c.TotalAmount.Sub(paid[c.ID])
		if outstanding.IsZero() {
			continue
		}
		row, err := finance.NewReceivableSnapshot(scope, day, c.ID, c.CustomerName, outstanding)
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}
	return rows, nil
}

// payables computes outstanding per counterparty: billed total minus paid
// outflows to the counterparty as of the date
func (s *DebtSnapshotService) payables(ctx context.Context, scope shared.Scope, day, asOf time.Time) ([]finance.DebtSnapshot, error) {
	bills, err := s.repos.Bills.ListBilledAsOf(ctx, scope, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	paid, err := s.repos.Transactions.SumPaidToCounterpartyAsOf(ctx, scope, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to sum counterparty payments: %w", err)
	}

	type position struct {
		name   string
		billed decimal.Decimal
	}
	positions := make(map[uuid.UUID]*position)
	order := make([]uuid.UUID, 0, len(bills))
	for _, b := range bills {
		p, ok := positions[b.CounterpartyID]
		if !ok {
			p = &position{name: b.CounterpartyName, billed: decimal.Zero}
			positions[b.CounterpartyID] = p
			order = append(order, b.CounterpartyID)
		}
		p.billed = p.billed.Add(b.Amount)
	}

	var rows []finance.DebtSnapshot
	for _, id := range order {
		p := positions[id]
		outstanding := p.billed.Sub(paid[id])
		if outstanding.IsZero() {
			continue
		}
		row, err := finance.NewPayableSnapshot(scope, day, id, p.name, outstanding)
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}
	return rows, nil
}
