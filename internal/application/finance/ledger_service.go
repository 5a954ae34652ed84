package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// LedgerService is the only mutation path into the transaction ledger.
// Every operation takes an explicit tenant/company scope and runs inside
// one unit of work, so a failure anywhere leaves nothing half-written.
type LedgerService struct {
	uow      finance.UnitOfWork
	repos    finance.Repositories
	eventBus shared.EventPublisher
	logger   *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	uow finance.UnitOfWork,
	repos finance.Repositories,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		uow:      uow,
		repos:    repos,
		eventBus: eventBus,
		logger:   logger,
	}
}

// MovementRequest describes a single inflow or outflow to record.
// Amount is the unsigned magnitude; the operation determines the sign.
type MovementRequest struct {
	CashBoxID      uuid.UUID
	Amount         decimal.Decimal
	PaymentMethod  finance.PaymentMethod
	CashflowItemID *uuid.UUID
	ContractID     *uuid.UUID
	CounterpartyID *uuid.UUID
	Description    string
	PaidAt         time.Time
}

// CreateReceipt records a customer payment coming in
func (s *LedgerService) CreateReceipt(ctx context.Context, scope shared.Scope, req MovementRequest) (*finance.Transaction, error) {
	return s.postMovement(ctx, scope, finance.TransactionTypeIncome, req)
}

// CreateSpending records money paid out. It fails with
// shared.ErrInsufficientBalance before any write when the cashbox cannot
// cover the sum.
func (s *LedgerService) CreateSpending(ctx context.Context, scope shared.Scope, req MovementRequest) (*finance.Transaction, error) {
	return s.postMovement(ctx, scope, finance.TransactionTypeOutcome, req)
}

// CreateDirectorLoan records cash a director injects into the company
func (s *LedgerService) CreateDirectorLoan(ctx context.Context, scope shared.Scope, req MovementRequest) (*finance.Transaction, error) {
	return s.postMovement(ctx, scope, finance.TransactionTypeDirectorLoan, req)
}

// CreateDirectorWithdrawal records cash a director takes out, subject to
// the same overdraft guard as spending
func (s *LedgerService) CreateDirectorWithdrawal(ctx context.Context, scope shared.Scope, req MovementRequest) (*finance.Transaction, error) {
	return s.postMovement(ctx, scope, finance.TransactionTypeDirectorWithdrawal, req)
}

func (s *LedgerService) postMovement(ctx context.Context, scope shared.Scope, txType finance.TransactionType, req MovementRequest) (*finance.Transaction, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Movement amount must be positive")
	}

	var created *finance.Transaction
	err := s.uow.Execute(ctx, func(repos finance.Repositories) error {
		box, err := repos.CashBoxes.FindByID(ctx, scope, req.CashBoxID)
		if err != nil {
			return fmt.Errorf("failed to load cashbox: %w", err)
		}
		if !box.IsActive {
			return shared.NewDomainError("CASHBOX_INACTIVE", fmt.Sprintf("Cashbox %s is not active", box.Code))
		}

		balance, err := latestBalance(ctx, repos, scope, req.CashBoxID)
		if err != nil {
			return err
		}

		signed := req.Amount
		if txType.Sign() < 0 {
			if balance.Sub(req.Amount).IsNegative() {
				return shared.ErrInsufficientBalance
			}
			signed = req.Amount.Neg()
		}

		tx, err := finance.NewTransaction(scope, txType, valueobject.NewMoneyUSD(signed), req.CashBoxID, req.PaymentMethod)
		if err != nil {
			return err
		}
		if req.CashflowItemID != nil {
			item, err := repos.Items.FindByID(ctx, scope, *req.CashflowItemID)
			if err != nil {
				return fmt.Errorf("failed to load cashflow item: %w", err)
			}
			if err := tx.WithCashflowItem(item.ID); err != nil {
				return err
			}
		}
		if req.ContractID != nil {
			tx.WithContract(*req.ContractID)
		}
		if req.CounterpartyID != nil {
			tx.WithCounterparty(*req.CounterpartyID)
		}
		tx.SetDescription(req.Description)

		paidAt := req.PaidAt
		if paidAt.IsZero() {
			paidAt = time.Now()
		}
		if err := tx.MarkPaid(paidAt); err != nil {
			return err
		}

		if err := repos.Transactions.Save(ctx, tx); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}

		history, err := finance.NewCashboxHistory(scope, req.CashBoxID, tx.ID, tx.Amount, balance.Add(tx.Amount), paidAt)
		if err != nil {
			return err
		}
		if err := repos.Histories.Append(ctx, history); err != nil {
			return fmt.Errorf("failed to append cashbox history: %w", err)
		}

		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created.GetDomainEvents())
	created.ClearDomainEvents()

	return created, nil
}

// TransferRequest describes a cashbox-to-cashbox move
type TransferRequest struct {
	FromCashBoxID uuid.UUID
	ToCashBoxID   uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod finance.PaymentMethod
	Remark        string
	TransferredAt time.Time
}

// Transfer moves money between two cashboxes: two linked transactions, two
// history rows and one transfer record, committed together or not at all
func (s *LedgerService) Transfer(ctx context.Context, scope shared.Scope, req TransferRequest) (*finance.CashTransfer, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transfer amount must be positive")
	}
	if req.FromCashBoxID == req.ToCashBoxID {
		return nil, shared.NewDomainError("SAME_CASHBOX", "Cannot transfer between a cashbox and itself")
	}
	method := req.PaymentMethod
	if method == "" {
		method = finance.PaymentMethodCash
	}
	at := req.TransferredAt
	if at.IsZero() {
		at = time.Now()
	}

	var transfer *finance.CashTransfer
	err := s.uow.Execute(ctx, func(repos finance.Repositories) error {
		fromBox, err := repos.CashBoxes.FindByID(ctx, scope, req.FromCashBoxID)
		if err != nil {
			return fmt.Errorf("failed to load source cashbox: %w", err)
		}
		toBox, err := repos.CashBoxes.FindByID(ctx, scope, req.ToCashBoxID)
		if err != nil {
			return fmt.Errorf("failed to load target cashbox: %w", err)
		}
		if !fromBox.IsActive || !toBox.IsActive {
			return shared.NewDomainError("CASHBOX_INACTIVE", "Both cashboxes must be active")
		}

		fromBalance, err := latestBalance(ctx, repos, scope, req.FromCashBoxID)
		if err != nil {
			return err
		}
		if fromBalance.Sub(req.Amount).IsNegative() {
			return shared.ErrInsufficientBalance
		}
		toBalance, err := latestBalance(ctx, repos, scope, req.ToCashBoxID)
		if err != nil {
			return err
		}

		out, err := finance.NewTransaction(scope, finance.TransactionTypeTransferOut,
			valueobject.NewMoneyUSD(req.Amount.Neg()), req.FromCashBoxID, method)
		if err != nil {
			return err
		}
		in, err := finance.NewTransaction(scope, finance.TransactionTypeTransferIn,
			valueobject.NewMoneyUSD(req.Amount), req.ToCashBoxID, method)
		if err != nil {
			return err
		}
		if err := out.MarkPaid(at); err != nil {
			return err
		}
		if err := in.MarkPaid(at); err != nil {
			return err
		}

		if err := repos.Transactions.Save(ctx, out); err != nil {
			return fmt.Errorf("failed to save outgoing leg: %w", err)
		}
		if err := repos.Transactions.Save(ctx, in); err != nil {
			return fmt.Errorf("failed to save incoming leg: %w", err)
		}

		outHistory, err := finance.NewCashboxHistory(scope, req.FromCashBoxID, out.ID, out.Amount, fromBalance.Add(out.Amount), at)
		if err != nil {
			return err
		}
		inHistory, err := finance.NewCashboxHistory(scope, req.ToCashBoxID, in.ID, in.Amount, toBalance.Add(in.Amount), at)
		if err != nil {
			return err
		}
		if err := repos.Histories.Append(ctx, outHistory); err != nil {
			return fmt.Errorf("failed to append source history: %w", err)
		}
		if err := repos.Histories.Append(ctx, inHistory); err != nil {
			return fmt.Errorf("failed to append target history: %w", err)
		}

		ct, err := finance.NewCashTransfer(scope, req.FromCashBoxID, req.ToCashBoxID, out, in, at)
		if err != nil {
			return err
		}
		if req.Remark != "" {
			ct.SetRemark(req.Remark)
		}
		if err := repos.Transfers.Save(ctx, ct); err != nil {
			return fmt.Errorf("failed to save transfer link: %w", err)
		}

		transfer = ct
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cash transfer executed",
		zap.String("from", req.FromCashBoxID.String()),
		zap.String("to", req.ToCashBoxID.String()),
		zap.String("amount", req.Amount.String()))

	s.publishEvents(ctx, transfer.GetDomainEvents())
	transfer.ClearDomainEvents()

	return transfer, nil
}

// CashBoxBalance returns the running balance of a cashbox: the BalanceAfter
// of its most recent history row, or zero when it has no history yet
func (s *LedgerService) CashBoxBalance(ctx context.Context, scope shared.Scope, cashBoxID uuid.UUID) (decimal.Decimal, error) {
	if err := scope.Validate(); err != nil {
		return decimal.Zero, err
	}
	return latestBalance(ctx, s.repos, scope, cashBoxID)
}

// UpdateTransactionAmount replaces a transaction's magnitude and rebuilds
// the owning cashbox's full history chain so every later running balance
// shifts accordingly. Transfer legs cannot be edited one-sided.
func (s *LedgerService) UpdateTransactionAmount(ctx context.Context, scope shared.Scope, transactionID uuid.UUID, amount decimal.Decimal) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Movement amount must be positive")
	}

	err := s.uow.Execute(ctx, func(repos finance.Repositories) error {
		tx, err := repos.Transactions.FindByID(ctx, scope, transactionID)
		if err != nil {
			return fmt.Errorf("failed to load transaction: %w", err)
		}
		if tx.Type.IsTransfer() {
			return shared.NewDomainError("TRANSFER_LEG_IMMUTABLE", "Transfer legs cannot be edited individually")
		}

		signed := amount
		if tx.Type.Sign() < 0 {
			signed = amount.Neg()
		}
		if err := tx.ChangeAmount(valueobject.NewMoneyUSD(signed)); err != nil {
			return err
		}
		if err := repos.Transactions.Save(ctx, tx); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}

		return rebuildHistoryChain(ctx, repos, scope, tx.CashBoxID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("transaction amount updated and history rebuilt",
		zap.String("transaction_id", transactionID.String()))
	return nil
}

// DeleteTransaction removes a transaction and rebuilds the owning cashbox's
// history chain. Transfer legs must be removed through DeleteTransfer.
func (s *LedgerService) DeleteTransaction(ctx context.Context, scope shared.Scope, transactionID uuid.UUID) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	return s.uow.Execute(ctx, func(repos finance.Repositories) error {
		tx, err := repos.Transactions.FindByID(ctx, scope, transactionID)
		if err != nil {
			return fmt.Errorf("failed to load transaction: %w", err)
		}
		if tx.Type.IsTransfer() {
			return shared.NewDomainError("TRANSFER_LEG_IMMUTABLE", "Transfer legs are removed by deleting the transfer")
		}

		if err := repos.Transactions.Delete(ctx, scope, transactionID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}

		return rebuildHistoryChain(ctx, repos, scope, tx.CashBoxID)
	})
}

// DeleteTransfer removes a transfer with both of its legs and rebuilds the
// history chains of both cashboxes involved
func (s *LedgerService) DeleteTransfer(ctx context.Context, scope shared.Scope, transferID uuid.UUID) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	return s.uow.Execute(ctx, func(repos finance.Repositories) error {
		ct, err := repos.Transfers.FindByID(ctx, scope, transferID)
		if err != nil {
			return fmt.Errorf("failed to load transfer: %w", err)
		}

		outID, inID := ct.LegIDs()
		if err := repos.Transactions.Delete(ctx, scope, outID); err != nil {
			return fmt.Errorf("failed to delete outgoing leg: %w", err)
		}
		if err := repos.Transactions.Delete(ctx, scope, inID); err != nil {
			return fmt.Errorf("failed to delete incoming leg: %w", err)
		}
		if err := repos.Transfers.Delete(ctx, scope, transferID); err != nil {
			return fmt.Errorf("failed to delete transfer link: %w", err)
		}

		if err := rebuildHistoryChain(ctx, repos, scope, ct.FromCashBoxID); err != nil {
			return err
		}
		return rebuildHistoryChain(ctx, repos, scope, ct.ToCashBoxID)
	})
}

// latestBalance reads the most recent history row of a cashbox. A cashbox
// with no history yet has a zero balance.
func latestBalance(ctx context.Context, repos finance.Repositories, scope shared.Scope, cashBoxID uuid.UUID) (decimal.Decimal, error) {
	latest, err := repos.Histories.Latest(ctx, scope, cashBoxID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to load cashbox history: %w", err)
	}
	return latest.BalanceAfter, nil
}

// rebuildHistoryChain drops and rewrites the append-only trail of one
// cashbox from its transactions in chronological order. This is how edits
// and deletions of earlier transactions propagate to every later balance.
func rebuildHistoryChain(ctx context.Context, repos finance.Repositories, scope shared.Scope, cashBoxID uuid.UUID) error {
	txs, err := repos.Transactions.FindByCashBox(ctx, scope, cashBoxID)
	if err != nil {
		return fmt.Errorf("failed to list cashbox transactions: %w", err)
	}
	if err := repos.Histories.DeleteByCashBox(ctx, scope, cashBoxID); err != nil {
		return fmt.Errorf("failed to reset cashbox history: %w", err)
	}

	running := decimal.Zero
	for i := range txs {
		tx := &txs[i]
		running = running.Add(tx.Amount)
		row, err := finance.NewCashboxHistory(scope, cashBoxID, tx.ID, tx.Amount, running, tx.EffectiveAt())
		if err != nil {
			return err
		}
		if err := repos.Histories.Append(ctx, row); err != nil {
			return fmt.Errorf("failed to append rebuilt history row: %w", err)
		}
	}
	return nil
}

func (s *LedgerService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventBus == nil || len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
