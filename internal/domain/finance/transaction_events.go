package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/structura/backend/internal/domain/shared"
)

// TransactionPostedEvent is raised when a new transaction is written to the ledger
type TransactionPostedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	CashBoxID     uuid.UUID       `json:"cash_box_id"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *TransactionPostedEvent) EventType() string {
	return "TransactionPosted"
}

// NewTransactionPostedEvent creates a new TransactionPostedEvent
func NewTransactionPostedEvent(t *Transaction) *TransactionPostedEvent {
	return &TransactionPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransactionPosted", "Transaction", t.ID, t.TenantID),
		TransactionID:   t.ID,
		CompanyID:       t.CompanyID,
		CashBoxID:       t.CashBoxID,
		Type:            t.Type,
		Amount:          t.Amount,
	}
}

// TransferExecutedEvent is raised when a cashbox-to-cashbox transfer completes
type TransferExecutedEvent struct {
	shared.BaseDomainEvent
	TransferID       uuid.UUID       `json:"transfer_id"`
	CompanyID        uuid.UUID       `json:"company_id"`
	FromCashBoxID    uuid.UUID       `json:"from_cash_box_id"`
	ToCashBoxID      uuid.UUID       `json:"to_cash_box_id"`
	TransactionOutID uuid.UUID       `json:"transaction_out_id"`
	TransactionInID  uuid.UUID       `json:"transaction_in_id"`
	Amount           decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *TransferExecutedEvent) EventType() string {
	return "TransferExecuted"
}

// NewTransferExecutedEvent creates a new TransferExecutedEvent
func NewTransferExecutedEvent(ct *CashTransfer) *TransferExecutedEvent {
	return &TransferExecutedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("TransferExecuted", "CashTransfer", ct.ID, ct.TenantID),
		TransferID:       ct.ID,
		CompanyID:        ct.CompanyID,
		FromCashBoxID:    ct.FromCashBoxID,
		ToCashBoxID:      ct.ToCashBoxID,
		TransactionOutID: ct.TransactionOutID,
		TransactionInID:  ct.TransactionInID,
		Amount:           ct.Amount,
	}
}
