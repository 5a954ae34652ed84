package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// TransactionType is the closed enumeration of money movement kinds.
// The sign of a movement is a property of its type, enforced at construction,
// never a free-standing data column.
type TransactionType string

const (
	TransactionTypeIncome             TransactionType = "INCOME"              // Customer payment received
	TransactionTypeOutcome            TransactionType = "OUTCOME"             // Spending paid out
	TransactionTypeTransferIn         TransactionType = "TRANSFER_IN"         // Incoming leg of a cashbox transfer
	TransactionTypeTransferOut        TransactionType = "TRANSFER_OUT"        // Outgoing leg of a cashbox transfer
	TransactionTypeDirectorLoan       TransactionType = "DIRECTOR_LOAN"       // Cash injected by a director
	TransactionTypeDirectorWithdrawal TransactionType = "DIRECTOR_WITHDRAWAL" // Cash withdrawn by a director
)

// AllTransactionTypes returns every valid transaction type
func AllTransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionTypeIncome,
		TransactionTypeOutcome,
		TransactionTypeTransferIn,
		TransactionTypeTransferOut,
		TransactionTypeDirectorLoan,
		TransactionTypeDirectorWithdrawal,
	}
}

// IsValid checks if the type is a known TransactionType
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeOutcome,
		TransactionTypeTransferIn, TransactionTypeTransferOut,
		TransactionTypeDirectorLoan, TransactionTypeDirectorWithdrawal:
		return true
	}
	return false
}

// Sign returns +1 for inflow types, -1 for outflow types, 0 for unknown types
func (t TransactionType) Sign() int {
	switch t {
	case TransactionTypeIncome, TransactionTypeTransferIn, TransactionTypeDirectorLoan:
		return 1
	case TransactionTypeOutcome, TransactionTypeTransferOut, TransactionTypeDirectorWithdrawal:
		return -1
	}
	return 0
}

// IsTransfer returns true for either leg of a cashbox-to-cashbox transfer
func (t TransactionType) IsTransfer() bool {
	return t == TransactionTypeTransferIn || t == TransactionTypeTransferOut
}

// String returns the string representation of the type
func (t TransactionType) String() string {
	return string(t)
}

// PaymentMethod represents the method of payment
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"          // Physical cash
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER" // Bank transfer
	PaymentMethodCard         PaymentMethod = "CARD"          // Card payment
	PaymentMethodCheck        PaymentMethod = "CHECK"         // Check/Cheque
	PaymentMethodOther        PaymentMethod = "OTHER"         // Other methods
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard,
		PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Transaction is a single signed money movement on a cashbox.
// It is the only kind of row the ledger ever writes; reporting layers
// derive everything else from it.
type Transaction struct {
	shared.CompanyAggregateRoot
	Type           TransactionType `json:"type"`
	Amount         decimal.Decimal `json:"amount"` // Signed: Amount.Sign() always equals Type.Sign()
	CashBoxID      uuid.UUID       `json:"cash_box_id"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	CashflowItemID *uuid.UUID      `json:"cashflow_item_id"` // nil for transfer legs
	ContractID     *uuid.UUID      `json:"contract_id"`      // AR linkage
	CounterpartyID *uuid.UUID      `json:"counterparty_id"`  // AP linkage
	Description    string          `json:"description"`
	IsPaid         bool            `json:"is_paid"`
	PaidAt         *time.Time      `json:"paid_at"`
	IsCompleted    bool            `json:"is_completed"`
	CompletedAt    *time.Time      `json:"completed_at"`
}

// NewTransaction creates a new signed transaction.
// The amount must already carry the sign the type dictates; a mismatch is a
// programming error upstream and is rejected outright.
func NewTransaction(
	scope shared.Scope,
	txType TransactionType,
	amount valueobject.Money,
	cashBoxID uuid.UUID,
	paymentMethod PaymentMethod,
) (*Transaction, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", fmt.Sprintf("Unknown transaction type %q", txType))
	}
	if amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount cannot be zero")
	}
	if amount.Sign() != txType.Sign() {
		return nil, shared.NewDomainError("SIGN_MISMATCH",
			fmt.Sprintf("Amount sign %+d does not match %s sign %+d", amount.Sign(), txType, txType.Sign()))
	}
	if cashBoxID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASHBOX", "Cashbox ID cannot be empty")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}

	tx := &Transaction{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(scope),
		Type:                 txType,
		Amount:               amount.Amount(),
		CashBoxID:            cashBoxID,
		PaymentMethod:        paymentMethod,
	}

	tx.AddDomainEvent(NewTransactionPostedEvent(tx))

	return tx, nil
}

// WithCashflowItem classifies the transaction for reporting roll-ups.
// Transfer legs are never classified; they are cash relocation, not cashflow.
func (t *Transaction) WithCashflowItem(itemID uuid.UUID) error {
	if t.Type.IsTransfer() {
		return shared.NewDomainError("TRANSFER_NOT_CLASSIFIABLE", "Transfer legs cannot carry a cashflow item")
	}
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_CASHFLOW_ITEM", "Cashflow item ID cannot be empty")
	}
	t.CashflowItemID = &itemID
	return nil
}

// WithContract links the transaction to a contract (AR side)
func (t *Transaction) WithContract(contractID uuid.UUID) {
	if contractID != uuid.Nil {
		t.ContractID = &contractID
	}
}

// WithCounterparty links the transaction to a vendor/counterparty (AP side)
func (t *Transaction) WithCounterparty(counterpartyID uuid.UUID) {
	if counterpartyID != uuid.Nil {
		t.CounterpartyID = &counterpartyID
	}
}

// SetDescription sets the free-text description
func (t *Transaction) SetDescription(description string) {
	t.Description = description
}

// MarkPaid records the moment money actually moved.
// Aggregation only ever sees paid transactions.
func (t *Transaction) MarkPaid(at time.Time) error {
	if t.IsPaid {
		return shared.NewDomainError("ALREADY_PAID", "Transaction is already marked as paid")
	}
	if at.IsZero() {
		return shared.NewDomainError("INVALID_PAID_AT", "Paid timestamp is required")
	}
	t.IsPaid = true
	t.PaidAt = &at
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Complete marks the transaction as settled by upstream flows
func (t *Transaction) Complete() {
	if t.IsCompleted {
		return
	}
	now := time.Now()
	t.IsCompleted = true
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()
}

// ChangeAmount replaces the signed amount, keeping the sign invariant.
// Callers must rebuild the owning cashbox's history chain afterwards.
func (t *Transaction) ChangeAmount(amount valueobject.Money) error {
	if amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Transaction amount cannot be zero")
	}
	if amount.Sign() != t.Type.Sign() {
		return shared.NewDomainError("SIGN_MISMATCH",
			fmt.Sprintf("Amount sign %+d does not match %s sign %+d", amount.Sign(), t.Type, t.Type.Sign()))
	}
	t.Amount = amount.Amount()
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// AbsAmount returns the unsigned magnitude of the movement
func (t *Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// EffectiveAt is the instant the transaction affects balances: paid time when
// known, otherwise creation time
func (t *Transaction) EffectiveAt() time.Time {
	if t.PaidAt != nil {
		return *t.PaidAt
	}
	return t.CreatedAt
}
