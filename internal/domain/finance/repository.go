package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// TransactionRepository defines the interface for transaction persistence
type TransactionRepository interface {
	// FindByID finds a transaction within a scope
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Transaction, error)

	// Save creates or updates a transaction
	Save(ctx context.Context, tx *Transaction) error

	// Delete removes a transaction
	Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error

	// FindPaidByDate finds paid transactions whose paid date falls on the given calendar day
	FindPaidByDate(ctx context.Context, scope shared.Scope, date time.Time) ([]Transaction, error)

	// FindPaidByMonth finds paid transactions whose paid date falls inside the month
	FindPaidByMonth(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) ([]Transaction, error)

	// FindByCashBox returns every transaction on a cashbox in chronological order
	FindByCashBox(ctx context.Context, scope shared.Scope, cashBoxID uuid.UUID) ([]Transaction, error)

	// SumPaidByContractAsOf sums paid inflows per contract up to and including asOf
	SumPaidByContractAsOf(ctx context.Context, scope shared.Scope, asOf time.Time) (map[uuid.UUID]decimal.Decimal, error)

	// SumPaidToCounterpartyAsOf sums absolute paid outflows per counterparty up to and including asOf
	SumPaidToCounterpartyAsOf(ctx context.Context, scope shared.Scope, asOf time.Time) (map[uuid.UUID]decimal.Decimal, error)
}

// CashBoxRepository defines the interface for cashbox persistence
type CashBoxRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*CashBox, error)
	FindByCode(ctx context.Context, scope shared.Scope, code string) (*CashBox, error)
	ListActive(ctx context.Context, scope shared.Scope) ([]CashBox, error)
	Save(ctx context.Context, cb *CashBox) error
}

// CashboxHistoryRepository defines the interface for the append-only balance trail
type CashboxHistoryRepository interface {
	// Append writes one history row; rows are never updated in place
	Append(ctx context.Context, h *CashboxHistory) error

	// Latest returns the most recent history row for a cashbox, or
	// shared.ErrNotFound when the cashbox has no history yet
	Latest(ctx context.Context, scope shared.Scope, cashBoxID uuid.UUID) (*CashboxHistory, error)

	// ListByCashBox returns the full chain for a cashbox in chronological order
	ListByCashBox(ctx context.Context, scope shared.Scope, cashBoxID uuid.UUID) ([]CashboxHistory, error)

	// DeleteByCashBox drops the chain for a cashbox so it can be rebuilt
	// after an earlier transaction was edited or deleted
	DeleteByCashBox(ctx context.Context, scope shared.Scope, cashBoxID uuid.UUID) error
}

// CashTransferRepository defines the interface for transfer-link persistence
type CashTransferRepository interface {
	Save(ctx context.Context, ct *CashTransfer) error
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*CashTransfer, error)

	// FindByTransactionID finds the transfer a transaction is a leg of, or
	// shared.ErrNotFound when the transaction is not part of a transfer
	FindByTransactionID(ctx context.Context, scope shared.Scope, transactionID uuid.UUID) (*CashTransfer, error)

	// LegTransactionIDs returns the transaction IDs of every transfer leg
	// within [from, to); aggregation uses this set for exclusion
	LegTransactionIDs(ctx context.Context, scope shared.Scope, from, to time.Time) ([]uuid.UUID, error)

	Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error
}

// CashflowItemRepository defines the interface for cashflow item persistence
type CashflowItemRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*CashflowItem, error)
	FindByCode(ctx context.Context, scope shared.Scope, code string) (*CashflowItem, error)
	ListAll(ctx context.Context, scope shared.Scope) ([]CashflowItem, error)
	ListActive(ctx context.Context, scope shared.Scope) ([]CashflowItem, error)
	Save(ctx context.Context, item *CashflowItem) error
}

// FinancePeriodRepository defines the interface for the period registry
type FinancePeriodRepository interface {
	// Find returns the period row, or shared.ErrNotFound when none exists
	Find(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (*FinancePeriod, error)

	// IsOpen reports whether the month accepts rebuilds; a missing row means open
	IsOpen(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (bool, error)

	Save(ctx context.Context, p *FinancePeriod) error
}

// ContractRepository defines the interface for contract persistence (AR source)
type ContractRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Contract, error)
	Save(ctx context.Context, c *Contract) error

	// ListSignedAsOf returns active contracts signed on or before asOf
	ListSignedAsOf(ctx context.Context, scope shared.Scope, asOf time.Time) ([]Contract, error)
}

// CounterpartyBillRepository defines the interface for vendor bill persistence (AP source)
type CounterpartyBillRepository interface {
	Save(ctx context.Context, b *CounterpartyBill) error

	// ListBilledAsOf returns bills issued on or before asOf
	ListBilledAsOf(ctx context.Context, scope shared.Scope, asOf time.Time) ([]CounterpartyBill, error)
}

// DebtSnapshotRepository defines the interface for debt snapshot persistence
type DebtSnapshotRepository interface {
	// AppendBatch appends a batch of snapshot rows; existing rows are never touched
	AppendBatch(ctx context.Context, rows []DebtSnapshot) error

	// ListByDate returns the snapshot rows of one kind taken for a date
	ListByDate(ctx context.Context, scope shared.Scope, date time.Time, kind DebtKind) ([]DebtSnapshot, error)
}

// Repositories bundles every ledger-side repository bound to one
// transactional session.
type Repositories struct {
	Transactions TransactionRepository
	CashBoxes    CashBoxRepository
	Histories    CashboxHistoryRepository
	Transfers    CashTransferRepository
	Items        CashflowItemRepository
	Periods      FinancePeriodRepository
	Contracts    ContractRepository
	Bills        CounterpartyBillRepository
	Debts        DebtSnapshotRepository
}

// UnitOfWork executes a function against repositories bound to a single
// atomic transaction: either every write inside fn commits, or none do.
// Ledger operations are the only mutation path for Transaction,
// CashboxHistory and CashTransfer rows and always run through this.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
