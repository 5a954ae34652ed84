package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/structura/backend/internal/domain/shared"
)

// CashTransfer links the two legs of a cashbox-to-cashbox move. It exists
// so aggregation can exclude both legs: a transfer relocates cash, it is
// not cashflow.
type CashTransfer struct {
	shared.CompanyAggregateRoot
	FromCashBoxID    uuid.UUID       `json:"from_cash_box_id"`
	ToCashBoxID      uuid.UUID       `json:"to_cash_box_id"`
	TransactionOutID uuid.UUID       `json:"transaction_out_id"`
	TransactionInID  uuid.UUID       `json:"transaction_in_id"`
	Amount           decimal.Decimal `json:"amount"` // Absolute sum carried by both legs
	TransferredAt    time.Time       `json:"transferred_at"`
	Remark           string          `json:"remark"`
}

// NewCashTransfer creates the linking record between an OUT leg and an IN leg
func NewCashTransfer(
	scope shared.Scope,
	fromCashBoxID, toCashBoxID uuid.UUID,
	out, in *Transaction,
	transferredAt time.Time,
) (*CashTransfer, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if fromCashBoxID == uuid.Nil || toCashBoxID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASHBOX", "Both cashbox IDs are required")
	}
	if fromCashBoxID == toCashBoxID {
		return nil, shared.NewDomainError("SAME_CASHBOX", "Cannot transfer between a cashbox and itself")
	}
	if out == nil || in == nil {
		return nil, shared.NewDomainError("INVALID_TRANSFER_LEG", "Both transfer legs are required")
	}
	if out.Type != TransactionTypeTransferOut {
		return nil, shared.NewDomainError("INVALID_TRANSFER_LEG", "Outgoing leg must be a TRANSFER_OUT transaction")
	}
	if in.Type != TransactionTypeTransferIn {
		return nil, shared.NewDomainError("INVALID_TRANSFER_LEG", "Incoming leg must be a TRANSFER_IN transaction")
	}
	if !out.AbsAmount().Equal(in.AbsAmount()) {
		return nil, shared.NewDomainError("UNBALANCED_TRANSFER", "Transfer legs must carry the same absolute sum")
	}
	if transferredAt.IsZero() {
		transferredAt = time.Now()
	}

	ct := &CashTransfer{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(scope),
		FromCashBoxID:        fromCashBoxID,
		ToCashBoxID:          toCashBoxID,
		TransactionOutID:     out.ID,
		TransactionInID:      in.ID,
		Amount:               out.AbsAmount(),
		TransferredAt:        transferredAt,
	}

	ct.AddDomainEvent(NewTransferExecutedEvent(ct))

	return ct, nil
}

// SetRemark sets the free-text remark
func (ct *CashTransfer) SetRemark(remark string) {
	ct.Remark = remark
	ct.UpdatedAt = time.Now()
	ct.IncrementVersion()
}

// LegIDs returns both linked transaction IDs
func (ct *CashTransfer) LegIDs() (out, in uuid.UUID) {
	return ct.TransactionOutID, ct.TransactionInID
}
