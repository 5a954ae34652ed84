package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// MemoryLedger is an in-memory implementation of every finance repository
// plus the unit of work. Execute runs against a snapshot and swaps it in
// only on success, so failed operations genuinely leave no trace, which is
// what the atomicity tests assert.
type MemoryLedger struct {
	mu    sync.Mutex
	state *ledgerState
}

type ledgerState struct {
	transactions map[uuid.UUID]finance.Transaction
	cashboxes    map[uuid.UUID]finance.CashBox
	histories    []finance.CashboxHistory
	transfers    map[uuid.UUID]finance.CashTransfer
	items        map[uuid.UUID]finance.CashflowItem
	periods      map[string]finance.FinancePeriod
	contracts    map[uuid.UUID]finance.Contract
	bills        map[uuid.UUID]finance.CounterpartyBill
	debts        []finance.DebtSnapshot
}

func newLedgerState() *ledgerState {
	return &ledgerState{
		transactions: make(map[uuid.UUID]finance.Transaction),
		cashboxes:    make(map[uuid.UUID]finance.CashBox),
		transfers:    make(map[uuid.UUID]finance.CashTransfer),
		items:        make(map[uuid.UUID]finance.CashflowItem),
		periods:      make(map[string]finance.FinancePeriod),
		contracts:    make(map[uuid.UUID]finance.Contract),
		bills:        make(map[uuid.UUID]finance.CounterpartyBill),
	}
}

func (s *ledgerState) clone() *ledgerState {
	c := newLedgerState()
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.cashboxes {
		c.cashboxes[k] = v
	}
	c.histories = append(c.histories, s.histories...)
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.periods {
		c.periods[k] = v
	}
	for k, v := range s.contracts {
		c.contracts[k] = v
	}
	for k, v := range s.bills {
		c.bills[k] = v
	}
	c.debts = append(c.debts, s.debts...)
	return c
}

// NewMemoryLedger creates an empty in-memory ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{state: newLedgerState()}
}

// Execute implements finance.UnitOfWork with snapshot semantics
func (m *MemoryLedger) Execute(ctx context.Context, fn func(repos finance.Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	if err := fn(reposFor(func() *ledgerState { return snapshot })); err != nil {
		return err
	}
	m.state = snapshot
	return nil
}

// Repositories returns repositories that always read the committed state
func (m *MemoryLedger) Repositories() finance.Repositories {
	return reposFor(func() *ledgerState { return m.state })
}

func reposFor(s func() *ledgerState) finance.Repositories {
	return finance.Repositories{
		Transactions: &memTransactionRepo{s},
		CashBoxes:    &memCashBoxRepo{s},
		Histories:    &memHistoryRepo{s},
		Transfers:    &memTransferRepo{s},
		Items:        &memItemRepo{s},
		Periods:      &memPeriodRepo{s},
		Contracts:    &memContractRepo{s},
		Bills:        &memBillRepo{s},
		Debts:        &memDebtRepo{s},
	}
}

func inScope(scope shared.Scope, tenantID, companyID uuid.UUID) bool {
	return scope.TenantID == tenantID && scope.CompanyID == companyID
}

type memTransactionRepo struct{ s func() *ledgerState }

var _ finance.TransactionRepository = (*memTransactionRepo)(nil)

func (r *memTransactionRepo) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.Transaction, error) {
	tx, ok := r.s().transactions[id]
	if !ok || !inScope(scope, tx.TenantID, tx.CompanyID) {
		return nil, shared.ErrNotFound
	}
	return &tx, nil
}

func (r *memTransactionRepo) Save(ctx context.Context, tx *finance.Transaction) error {
	r.s().transactions[tx.ID] = *tx
	return nil
}

func (r *memTransactionRepo) Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	tx, ok := r.s().transactions[id]
	if !ok || !inScope(scope, tx.TenantID, tx.CompanyID) {
		return shared.ErrNotFound
	}
	delete(r.s().transactions, id)
	return nil
}

func (r *memTransactionRepo) FindPaidByDate(ctx context.Context, scope shared.Scope, date time.Time) ([]finance.Transaction, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	return r.paidBetween(scope, start, end), nil
}

func (r *memTransactionRepo) FindPaidByMonth(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) ([]finance.Transaction, error) {
	return r.paidBetween(scope, ym.Start(), ym.NextStart()), nil
}

func (r *memTransactionRepo) paidBetween(scope shared.Scope, start, end time.Time) []finance.Transaction {
	var out []finance.Transaction
	for _, tx := range r.s().transactions {
		if !inScope(scope, tx.TenantID, tx.CompanyID) || !tx.IsPaid || tx.PaidAt == nil {
			continue
		}
		if tx.PaidAt.Before(start) || !tx.PaidAt.Before(end) {
			continue
		}
		out = append(out, tx)
	}
	sortChronological(out)
	return out
}

func (r *memTransactionRepo) FindByCashBox(ctx context.Context, scope shared.Scope, cashBoxID uuid.UUID) ([]finance.Transaction, error) {
	var out []finance.Transaction
	for _, tx := range r.s().transactions {
		if inScope(scope, tx.TenantID, tx.CompanyID) && tx.CashBoxID == cashBoxID {
			out = append(out, tx)
		}
	}
	sortChronological(out)
	return out, nil
}

func (r *memTransactionRepo) SumPaidByContractAsOf(ctx context.Context, scope shared.Scope, asOf time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	sums := make(map[uuid.UUID]decimal.Decimal)
	for _, tx := range r.s().transactions {
		if !inScope(scope, tx.TenantID, tx.CompanyID) || !tx.IsPaid || tx.PaidAt == nil || tx.ContractID == nil {
			continue
		}
		if tx.PaidAt.After(asOf) || !tx.Amount.IsPositive() {
			continue
		}
		sums[*tx.ContractID] = sums[*tx.ContractID].Add(tx.Amount)
	}
	return sums, nil
}

func (r *memTransactionRepo) SumPaidToCounterpartyAsOf(ctx context.Context, scope shared.Scope, asOf time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	sums := make(map[uuid.UUID]decimal.Decimal)
	for _, tx := range r.s().transactions {
		if !inScope(scope, tx.TenantID, tx.CompanyID) || !tx.IsPaid || tx.PaidAt == nil || tx.CounterpartyID == nil {
			continue
		}
		if tx.PaidAt.After(asOf) || !tx.Amount.IsNegative() {
			continue
		}
		sums[*tx.CounterpartyID] = sums[*tx.CounterpartyID].Add(tx.Amount.Abs())
	}
	return sums, nil
}

func sortChronological(txs []finance.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		ti, tj := txs[i].EffectiveAt(), txs[j].EffectiveAt()
		if ti.Equal(tj) {
			return txs[i].CreatedAt.Before(txs[j].CreatedAt)
		}
		return ti.Before(tj)
	})
}

type memCashBoxRepo struct{ s func() *ledgerState }

var _ finance.CashBoxRepository = (*memCashBoxRepo)(nil)

func (r *memCashBoxRepo) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.CashBox, error) {
	cb, ok := r.s().cashboxes[id]
	if !ok || !inScope(scope, cb.TenantID, cb.CompanyID) {
		return nil, shared.ErrNotFound
	}
	return &cb, nil
}

func (r *memCashBoxRepo) FindByCode(ctx context.Context, scope shared.Scope, code string) (*finance.CashBox, error) {
	for _, cb := range r.s().cashboxes {
		if inScope(scope, cb.TenantID, cb.CompanyID) && cb.Code == code {
			return &cb, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCashBoxRepo) ListActive(ctx context.Context, scope shared.Scope) ([]finance.CashBox, error) {
	var out []finance.CashBox
	for _, cb := range r.s().cashboxes {
		if inScope(scope, cb.TenantID, cb.CompanyID) && cb.IsActive {
			out = append(out, cb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *memCashBoxRepo) Save(ctx context.Context, cb *finance.CashBox) error {
	r.s().cashboxes[cb.ID] = *cb
	return nil
}

type memHistoryRepo struct{ s func() *ledgerState }

var _ finance.CashboxHistoryRepository = (*memHistoryRepo)(nil)

func (r *memHistoryRepo) Append(ctx context.Context, h *finance.CashboxHistory) error {
	r.s().histories = append(r.s().histories, *h)
	return nil
}

func (r *memHistoryRepo) Latest(ctx context.Context, scope shared.Scope, cashBoxID uuid.UUID) (*finance.CashboxHistory, error) {
	for i := len(r.s().histories) - 1; i >= 0; i-- {
		h := r.s().histories[i]
		if inScope(scope, h.TenantID, h.CompanyID) && h.CashBoxID == cashBoxID {
			return &h, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memHistoryRepo) ListByCashBox(ctx context.Context, scope shared.Scope, cashBoxID uuid.UUID) ([]finance.CashboxHistory, error) {
	var out []finance.CashboxHistory
	for _, h := range r.s().histories {
		if inScope(scope, h.TenantID, h.CompanyID) && h.CashBoxID == cashBoxID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *memHistoryRepo) DeleteByCashBox(ctx context.Context, scope shared.Scope, cashBoxID uuid.UUID) error {
	kept := r.s().histories[:0]
	for _, h := range r.s().histories {
		if inScope(scope, h.TenantID, h.CompanyID) && h.CashBoxID == cashBoxID {
			continue
		}
		kept = append(kept, h)
	}
	r.s().histories = kept
	return nil
}

type memTransferRepo struct{ s func() *ledgerState }

var _ finance.CashTransferRepository = (*memTransferRepo)(nil)

func (r *memTransferRepo) Save(ctx context.Context, ct *finance.CashTransfer) error {
	r.s().transfers[ct.ID] = *ct
	return nil
}

func (r *memTransferRepo) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.CashTransfer, error) {
	ct, ok := r.s().transfers[id]
	if !ok || !inScope(scope, ct.TenantID, ct.CompanyID) {
		return nil, shared.ErrNotFound
	}
	return &ct, nil
}

func (r *memTransferRepo) FindByTransactionID(ctx context.Context, scope shared.Scope, transactionID uuid.UUID) (*finance.CashTransfer, error) {
	for _, ct := range r.s().transfers {
		if !inScope(scope, ct.TenantID, ct.CompanyID) {
			continue
		}
		if ct.TransactionOutID == transactionID || ct.TransactionInID == transactionID {
			return &ct, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTransferRepo) LegTransactionIDs(ctx context.Context, scope shared.Scope, from, to time.Time) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, ct := range r.s().transfers {
		if !inScope(scope, ct.TenantID, ct.CompanyID) {
			continue
		}
		if ct.TransferredAt.Before(from) || !ct.TransferredAt.Before(to) {
			continue
		}
		out = append(out, ct.TransactionOutID, ct.TransactionInID)
	}
	return out, nil
}

func (r *memTransferRepo) Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	ct, ok := r.s().transfers[id]
	if !ok || !inScope(scope, ct.TenantID, ct.CompanyID) {
		return shared.ErrNotFound
	}
	delete(r.s().transfers, id)
	return nil
}

type memItemRepo struct{ s func() *ledgerState }

var _ finance.CashflowItemRepository = (*memItemRepo)(nil)

func (r *memItemRepo) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.CashflowItem, error) {
	item, ok := r.s().items[id]
	if !ok || !inScope(scope, item.TenantID, item.CompanyID) {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *memItemRepo) FindByCode(ctx context.Context, scope shared.Scope, code string) (*finance.CashflowItem, error) {
	for _, item := range r.s().items {
		if inScope(scope, item.TenantID, item.CompanyID) && item.Code == code {
			return &item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memItemRepo) ListAll(ctx context.Context, scope shared.Scope) ([]finance.CashflowItem, error) {
	var out []finance.CashflowItem
	for _, item := range r.s().items {
		if inScope(scope, item.TenantID, item.CompanyID) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *memItemRepo) ListActive(ctx context.Context, scope shared.Scope) ([]finance.CashflowItem, error) {
	all, _ := r.ListAll(ctx, scope)
	var out []finance.CashflowItem
	for _, item := range all {
		if item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memItemRepo) Save(ctx context.Context, item *finance.CashflowItem) error {
	r.s().items[item.ID] = *item
	return nil
}

type memPeriodRepo struct{ s func() *ledgerState }

var _ finance.FinancePeriodRepository = (*memPeriodRepo)(nil)

func periodKey(scope shared.Scope, ym valueobject.YearMonth) string {
	return scope.TenantID.String() + "|" + scope.CompanyID.String() + "|" + ym.String()
}

func (r *memPeriodRepo) Find(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (*finance.FinancePeriod, error) {
	p, ok := r.s().periods[periodKey(scope, ym)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *memPeriodRepo) IsOpen(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (bool, error) {
	p, ok := r.s().periods[periodKey(scope, ym)]
	if !ok {
		return true, nil
	}
	return p.IsOpen(), nil
}

func (r *memPeriodRepo) Save(ctx context.Context, p *finance.FinancePeriod) error {
	r.s().periods[periodKey(p.Scope(), p.Period)] = *p
	return nil
}

type memContractRepo struct{ s func() *ledgerState }

var _ finance.ContractRepository = (*memContractRepo)(nil)

func (r *memContractRepo) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.Contract, error) {
	c, ok := r.s().contracts[id]
	if !ok || !inScope(scope, c.TenantID, c.CompanyID) {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r *memContractRepo) Save(ctx context.Context, c *finance.Contract) error {
	r.s().contracts[c.ID] = *c
	return nil
}

func (r *memContractRepo) ListSignedAsOf(ctx context.Context, scope shared.Scope, asOf time.Time) ([]finance.Contract, error) {
	var out []finance.Contract
	for _, c := range r.s().contracts {
		if inScope(scope, c.TenantID, c.CompanyID) && c.IsActive && !c.SignedAt.After(asOf) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

type memBillRepo struct{ s func() *ledgerState }

var _ finance.CounterpartyBillRepository = (*memBillRepo)(nil)

func (r *memBillRepo) Save(ctx context.Context, b *finance.CounterpartyBill) error {
	r.s().bills[b.ID] = *b
	return nil
}

func (r *memBillRepo) ListBilledAsOf(ctx context.Context, scope shared.Scope, asOf time.Time) ([]finance.CounterpartyBill, error) {
	var out []finance.CounterpartyBill
	for _, b := range r.s().bills {
		if inScope(scope, b.TenantID, b.CompanyID) && !b.BilledAt.After(asOf) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

type memDebtRepo struct{ s func() *ledgerState }

var _ finance.DebtSnapshotRepository = (*memDebtRepo)(nil)

func (r *memDebtRepo) AppendBatch(ctx context.Context, rows []finance.DebtSnapshot) error {
	r.s().debts = append(r.s().debts, rows...)
	return nil
}

func (r *memDebtRepo) ListByDate(ctx context.Context, scope shared.Scope, date time.Time, kind finance.DebtKind) ([]finance.DebtSnapshot, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	var out []finance.DebtSnapshot
	for _, d := range r.s().debts {
		if !inScope(scope, d.TenantID, d.CompanyID) || d.Kind != kind {
			continue
		}
		if d.SnapshotDate.Equal(day) {
			out = append(out, d)
		}
	}
	return out, nil
}
