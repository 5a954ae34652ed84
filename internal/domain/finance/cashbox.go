package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/structura/backend/internal/domain/shared"
)

// CashBox is a physical or virtual place money sits in (a till, a bank
// account, a safe). Its balance is derived from the append-only history
// trail and never stored as an authoritative counter.
type CashBox struct {
	shared.CompanyAggregateRoot
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// NewCashBox creates a new cashbox
func NewCashBox(scope shared.Scope, code, name string) (*CashBox, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Cashbox code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Cashbox code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Cashbox name cannot be empty")
	}

	return &CashBox{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(scope),
		Code:                 code,
		Name:                 name,
		IsActive:             true,
	}, nil
}

// Deactivate takes the cashbox out of use for new transactions
func (cb *CashBox) Deactivate() {
	cb.IsActive = false
	cb.UpdatedAt = time.Now()
	cb.IncrementVersion()
}

// Activate puts the cashbox back in use
func (cb *CashBox) Activate() {
	cb.IsActive = true
	cb.UpdatedAt = time.Now()
	cb.IncrementVersion()
}

// CashboxHistory is one row of the append-only balance trail: exactly one
// row per transaction affecting a cashbox, carrying the balance after it.
// Rows are never mutated in place; edits to earlier transactions rebuild
// the whole chain for the affected cashbox.
type CashboxHistory struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	CashBoxID     uuid.UUID       `json:"cash_box_id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`        // Signed delta applied by the transaction
	BalanceAfter  decimal.Decimal `json:"balance_after"` // Running balance immediately after it
	OccurredAt    time.Time       `json:"occurred_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewCashboxHistory creates a history row for one transaction
func NewCashboxHistory(
	scope shared.Scope,
	cashBoxID, transactionID uuid.UUID,
	amount, balanceAfter decimal.Decimal,
	occurredAt time.Time,
) (*CashboxHistory, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if cashBoxID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASHBOX", "Cashbox ID cannot be empty")
	}
	if transactionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TRANSACTION", "Transaction ID cannot be empty")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return &CashboxHistory{
		ID:            uuid.New(),
		TenantID:      scope.TenantID,
		CompanyID:     scope.CompanyID,
		CashBoxID:     cashBoxID,
		TransactionID: transactionID,
		Amount:        amount,
		BalanceAfter:  balanceAfter,
		OccurredAt:    occurredAt,
		CreatedAt:     time.Now(),
	}, nil
}
