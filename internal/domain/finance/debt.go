package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/structura/backend/internal/domain/shared"
)

// Contract is the AR source document: an agreed sum owed by a customer.
// Outstanding receivable = TotalAmount minus paid IN transactions linked
// to the contract as of a date.
type Contract struct {
	shared.CompanyAggregateRoot
	Number       string          `json:"number"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	SignedAt     time.Time       `json:"signed_at"`
	IsActive     bool            `json:"is_active"`
}

// NewContract creates a new contract
func NewContract(
	scope shared.Scope,
	number string,
	customerID uuid.UUID,
	customerName string,
	totalAmount decimal.Decimal,
	signedAt time.Time,
) (*Contract, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Contract number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Contract amount must be positive")
	}
	if signedAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_SIGNED_AT", "Signing date is required")
	}

	return &Contract{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(scope),
		Number:               number,
		CustomerID:           customerID,
		CustomerName:         customerName,
		TotalAmount:          totalAmount,
		SignedAt:             signedAt,
		IsActive:             true,
	}, nil
}

// CounterpartyBill is the AP source document: an amount a vendor has billed
// the company. Outstanding payable = billed total minus paid OUT
// transactions to the counterparty as of a date.
type CounterpartyBill struct {
	shared.CompanyAggregateRoot
	Number           string          `json:"number"`
	CounterpartyID   uuid.UUID       `json:"counterparty_id"`
	CounterpartyName string          `json:"counterparty_name"`
	Amount           decimal.Decimal `json:"amount"`
	BilledAt         time.Time       `json:"billed_at"`
}

// NewCounterpartyBill creates a new vendor bill
func NewCounterpartyBill(
	scope shared.Scope,
	number string,
	counterpartyID uuid.UUID,
	counterpartyName string,
	amount decimal.Decimal,
	billedAt time.Time,
) (*CounterpartyBill, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Bill number cannot be empty")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	if counterpartyName == "" {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY_NAME", "Counterparty name cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Bill amount must be positive")
	}
	if billedAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_BILLED_AT", "Billing date is required")
	}

	return &CounterpartyBill{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(scope),
		Number:               number,
		CounterpartyID:       counterpartyID,
		CounterpartyName:     counterpartyName,
		Amount:               amount,
		BilledAt:             billedAt,
	}, nil
}

// DebtKind distinguishes receivable from payable snapshot rows
type DebtKind string

const (
	DebtKindReceivable DebtKind = "AR"
	DebtKindPayable    DebtKind = "AP"
)

// IsValid checks if the kind is valid
func (k DebtKind) IsValid() bool {
	return k == DebtKindReceivable || k == DebtKindPayable
}

// String returns the string representation of DebtKind
func (k DebtKind) String() string {
	return string(k)
}

// DebtSnapshot is one append-only row of a debt history batch: the balance
// outstanding for one contract (AR) or counterparty (AP) as of a date.
// Batches are appended per snapshot date, never upserted; the history of
// debt over time is the point.
type DebtSnapshot struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	CompanyID      uuid.UUID       `json:"company_id"`
	Kind           DebtKind        `json:"kind"`
	SnapshotDate   time.Time       `json:"snapshot_date"`
	ContractID     *uuid.UUID      `json:"contract_id"`     // Set for AR rows
	CounterpartyID *uuid.UUID      `json:"counterparty_id"` // Set for AP rows
	DebtorName     string          `json:"debtor_name"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewReceivableSnapshot creates one AR row for a snapshot batch
func NewReceivableSnapshot(scope shared.Scope, date time.Time, contractID uuid.UUID, debtorName string, outstanding decimal.Decimal) (*DebtSnapshot, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Snapshot date is required")
	}
	return &DebtSnapshot{
		ID:           uuid.New(),
		TenantID:     scope.TenantID,
		CompanyID:    scope.CompanyID,
		Kind:         DebtKindReceivable,
		SnapshotDate: date,
		ContractID:   &contractID,
		DebtorName:   debtorName,
		Outstanding:  outstanding,
		CreatedAt:    time.Now(),
	}, nil
}

// NewPayableSnapshot creates one AP row for a snapshot batch
func NewPayableSnapshot(scope shared.Scope, date time.Time, counterpartyID uuid.UUID, debtorName string, outstanding decimal.Decimal) (*DebtSnapshot, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Snapshot date is required")
	}
	return &DebtSnapshot{
		ID:             uuid.New(),
		TenantID:       scope.TenantID,
		CompanyID:      scope.CompanyID,
		Kind:           DebtKindPayable,
		SnapshotDate:   date,
		CounterpartyID: &counterpartyID,
		DebtorName:     debtorName,
		Outstanding:    outstanding,
		CreatedAt:      time.Now(),
	}, nil
}
