package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// TransactionModel is the persistence model for the Transaction aggregate root.
// The amount column is signed; its sign always matches the transaction type.
type TransactionModel struct {
	CompanyAggregateModel
	Type           finance.TransactionType `gorm:"type:varchar(30);not null;index"`
	Amount         decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	CashBoxID      uuid.UUID               `gorm:"type:uuid;not null;index"`
	PaymentMethod  finance.PaymentMethod   `gorm:"type:varchar(20);not null"`
	CashflowItemID *uuid.UUID              `gorm:"type:uuid;index"`
	ContractID     *uuid.UUID              `gorm:"type:uuid;index"`
	CounterpartyID *uuid.UUID              `gorm:"type:uuid;index"`
	Description    string                  `gorm:"type:text"`
	IsPaid         bool                    `gorm:"not null;default:false;index"`
	PaidAt         *time.Time              `gorm:"index"`
	IsCompleted    bool                    `gorm:"not null;default:false"`
	CompletedAt    *time.Time
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *TransactionModel) ToDomain() *finance.Transaction {
	tx := &finance.Transaction{
		Type:           m.Type,
		Amount:         m.Amount,
		CashBoxID:      m.CashBoxID,
		PaymentMethod:  m.PaymentMethod,
		CashflowItemID: m.CashflowItemID,
		ContractID:     m.ContractID,
		CounterpartyID: m.CounterpartyID,
		Description:    m.Description,
		IsPaid:         m.IsPaid,
		PaidAt:         m.PaidAt,
		IsCompleted:    m.IsCompleted,
		CompletedAt:    m.CompletedAt,
	}
	m.PopulateCompanyAggregateRoot(&tx.CompanyAggregateRoot)
	return tx
}

// FromDomain populates the persistence model from a domain Transaction
func (m *TransactionModel) FromDomain(tx *finance.Transaction) {
	m.FromDomainCompanyAggregateRoot(tx.CompanyAggregateRoot)
	m.Type = tx.Type
	m.Amount = tx.Amount
	m.CashBoxID = tx.CashBoxID
	m.PaymentMethod = tx.PaymentMethod
	m.CashflowItemID = tx.CashflowItemID
	m.ContractID = tx.ContractID
	m.CounterpartyID = tx.CounterpartyID
	m.Description = tx.Description
	m.IsPaid = tx.IsPaid
	m.PaidAt = tx.PaidAt
	m.IsCompleted = tx.IsCompleted
	m.CompletedAt = tx.CompletedAt
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction
func TransactionModelFromDomain(tx *finance.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(tx)
	return m
}

// CashBoxModel is the persistence model for the CashBox aggregate root.
// Balances are never stored here; they live in the history trail.
type CashBoxModel struct {
	CompanyAggregateModel
	Code     string `gorm:"type:varchar(50);not null;index"`
	Name     string `gorm:"type:varchar(200);not null"`
	IsActive bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (CashBoxModel) TableName() string {
	return "cash_boxes"
}

// ToDomain converts the persistence model to a domain CashBox
func (m *CashBoxModel) ToDomain() *finance.CashBox {
	cb := &finance.CashBox{
		Code:     m.Code,
		Name:     m.Name,
		IsActive: m.IsActive,
	}
	m.PopulateCompanyAggregateRoot(&cb.CompanyAggregateRoot)
	return cb
}

// FromDomain populates the persistence model from a domain CashBox
func (m *CashBoxModel) FromDomain(cb *finance.CashBox) {
	m.FromDomainCompanyAggregateRoot(cb.CompanyAggregateRoot)
	m.Code = cb.Code
	m.Name = cb.Name
	m.IsActive = cb.IsActive
}

// CashBoxModelFromDomain creates a new persistence model from a domain CashBox
func CashBoxModelFromDomain(cb *finance.CashBox) *CashBoxModel {
	m := &CashBoxModel{}
	m.FromDomain(cb)
	return m
}

// CashboxHistoryModel is the persistence model for the append-only balance
// trail. Rows are inserted and deleted by chain, never updated.
type CashboxHistoryModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_history_scope_box,priority:1"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_history_scope_box,priority:2"`
	CashBoxID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_history_scope_box,priority:3"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OccurredAt    time.Time       `gorm:"not null;index"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CashboxHistoryModel) TableName() string {
	return "cashbox_histories"
}

// ToDomain converts the persistence model to a domain CashboxHistory
func (m *CashboxHistoryModel) ToDomain() *finance.CashboxHistory {
	return &finance.CashboxHistory{
		ID:            m.ID,
		TenantID:      m.TenantID,
		CompanyID:     m.CompanyID,
		CashBoxID:     m.CashBoxID,
		TransactionID: m.TransactionID,
		Amount:        m.Amount,
		BalanceAfter:  m.BalanceAfter,
		OccurredAt:    m.OccurredAt,
		CreatedAt:     m.CreatedAt,
	}
}

// CashboxHistoryModelFromDomain creates a new persistence model from a domain CashboxHistory
func CashboxHistoryModelFromDomain(h *finance.CashboxHistory) *CashboxHistoryModel {
	return &CashboxHistoryModel{
		ID:            h.ID,
		TenantID:      h.TenantID,
		CompanyID:     h.CompanyID,
		CashBoxID:     h.CashBoxID,
		TransactionID: h.TransactionID,
		Amount:        h.Amount,
		BalanceAfter:  h.BalanceAfter,
		OccurredAt:    h.OccurredAt,
		CreatedAt:     h.CreatedAt,
	}
}

// CashTransferModel is the persistence model for the transfer link record
// that binds an OUT leg and an IN leg together.
type CashTransferModel struct {
	CompanyAggregateModel
	FromCashBoxID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ToCashBoxID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	TransactionOutID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	TransactionInID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TransferredAt    time.Time       `gorm:"not null;index"`
	Remark           string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CashTransferModel) TableName() string {
	return "cash_transfers"
}

// ToDomain converts the persistence model to a domain CashTransfer
func (m *CashTransferModel) ToDomain() *finance.CashTransfer {
	ct := &finance.CashTransfer{
		FromCashBoxID:    m.FromCashBoxID,
		ToCashBoxID:      m.ToCashBoxID,
		TransactionOutID: m.TransactionOutID,
		TransactionInID:  m.TransactionInID,
		Amount:           m.Amount,
		TransferredAt:    m.TransferredAt,
		Remark:           m.Remark,
	}
	m.PopulateCompanyAggregateRoot(&ct.CompanyAggregateRoot)
	return ct
}

// FromDomain populates the persistence model from a domain CashTransfer
func (m *CashTransferModel) FromDomain(ct *finance.CashTransfer) {
	m.FromDomainCompanyAggregateRoot(ct.CompanyAggregateRoot)
	m.FromCashBoxID = ct.FromCashBoxID
	m.ToCashBoxID = ct.ToCashBoxID
	m.TransactionOutID = ct.TransactionOutID
	m.TransactionInID = ct.TransactionInID
	m.Amount = ct.Amount
	m.TransferredAt = ct.TransferredAt
	m.Remark = ct.Remark
}

// CashTransferModelFromDomain creates a new persistence model from a domain CashTransfer
func CashTransferModelFromDomain(ct *finance.CashTransfer) *CashTransferModel {
	m := &CashTransferModel{}
	m.FromDomain(ct)
	return m
}

// CashflowItemModel is the persistence model for the cashflow classification
// dictionary.
type CashflowItemModel struct {
	CompanyAggregateModel
	Code      string            `gorm:"type:varchar(50);not null;index"`
	Name      string            `gorm:"type:varchar(200);not null"`
	Section   finance.Section   `gorm:"type:varchar(20);not null;index"`
	Direction finance.Direction `gorm:"type:varchar(10);not null"`
	ParentID  *uuid.UUID        `gorm:"type:uuid;index"`
	IsActive  bool              `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (CashflowItemModel) TableName() string {
	return "cashflow_items"
}

// ToDomain converts the persistence model to a domain CashflowItem
func (m *CashflowItemModel) ToDomain() *finance.CashflowItem {
	item := &finance.CashflowItem{
		Code:      m.Code,
		Name:      m.Name,
		Section:   m.Section,
		Direction: m.Direction,
		ParentID:  m.ParentID,
		IsActive:  m.IsActive,
	}
	m.PopulateCompanyAggregateRoot(&item.CompanyAggregateRoot)
	return item
}

// FromDomain populates the persistence model from a domain CashflowItem
func (m *CashflowItemModel) FromDomain(item *finance.CashflowItem) {
	m.FromDomainCompanyAggregateRoot(item.CompanyAggregateRoot)
	m.Code = item.Code
	m.Name = item.Name
	m.Section = item.Section
	m.Direction = item.Direction
	m.ParentID = item.ParentID
	m.IsActive = item.IsActive
}

// CashflowItemModelFromDomain creates a new persistence model from a domain CashflowItem
func CashflowItemModelFromDomain(item *finance.CashflowItem) *CashflowItemModel {
	m := &CashflowItemModel{}
	m.FromDomain(item)
	return m
}

// FinancePeriodModel is the persistence model for the period registry.
// The period is stored as its "YYYY-MM" form.
type FinancePeriodModel struct {
	CompanyAggregateModel
	Period   string               `gorm:"type:varchar(7);not null;index"`
	Status   finance.PeriodStatus `gorm:"type:varchar(10);not null;default:'OPEN'"`
	ClosedAt *time.Time
	ClosedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (FinancePeriodModel) TableName() string {
	return "finance_periods"
}

// ToDomain converts the persistence model to a domain FinancePeriod
func (m *FinancePeriodModel) ToDomain() (*finance.FinancePeriod, error) {
	ym, err := valueobject.ParseYearMonth(m.Period)
	if err != nil {
		return nil, err
	}
	p := &finance.FinancePeriod{
		Period:   ym,
		Status:   m.Status,
		ClosedAt: m.ClosedAt,
		ClosedBy: m.ClosedBy,
	}
	m.PopulateCompanyAggregateRoot(&p.CompanyAggregateRoot)
	return p, nil
}

// FromDomain populates the persistence model from a domain FinancePeriod
func (m *FinancePeriodModel) FromDomain(p *finance.FinancePeriod) {
	m.FromDomainCompanyAggregateRoot(p.CompanyAggregateRoot)
	m.Period = p.Period.String()
	m.Status = p.Status
	m.ClosedAt = p.ClosedAt
	m.ClosedBy = p.ClosedBy
}

// FinancePeriodModelFromDomain creates a new persistence model from a domain FinancePeriod
func FinancePeriodModelFromDomain(p *finance.FinancePeriod) *FinancePeriodModel {
	m := &FinancePeriodModel{}
	m.FromDomain(p)
	return m
}

// ContractModel is the persistence model for the Contract aggregate root (AR source).
type ContractModel struct {
	CompanyAggregateModel
	Number       string          `gorm:"type:varchar(50);not null;index"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName string          `gorm:"type:varchar(200);not null"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SignedAt     time.Time       `gorm:"not null;index"`
	IsActive     bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the persistence model to a domain Contract
func (m *ContractModel) ToDomain() *finance.Contract {
	c := &finance.Contract{
		Number:       m.Number,
		CustomerID:   m.CustomerID,
		CustomerName: m.CustomerName,
		TotalAmount:  m.TotalAmount,
		SignedAt:     m.SignedAt,
		IsActive:     m.IsActive,
	}
	m.PopulateCompanyAggregateRoot(&c.CompanyAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Contract
func (m *ContractModel) FromDomain(c *finance.Contract) {
	m.FromDomainCompanyAggregateRoot(c.CompanyAggregateRoot)
	m.Number = c.Number
	m.CustomerID = c.CustomerID
	m.CustomerName = c.CustomerName
	m.TotalAmount = c.TotalAmount
	m.SignedAt = c.SignedAt
	m.IsActive = c.IsActive
}

// ContractModelFromDomain creates a new persistence model from a domain Contract
func ContractModelFromDomain(c *finance.Contract) *ContractModel {
	m := &ContractModel{}
	m.FromDomain(c)
	return m
}

// CounterpartyBillModel is the persistence model for vendor bills (AP source).
type CounterpartyBillModel struct {
	CompanyAggregateModel
	Number           string          `gorm:"type:varchar(50);not null;index"`
	CounterpartyID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CounterpartyName string          `gorm:"type:varchar(200);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BilledAt         time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CounterpartyBillModel) TableName() string {
	return "counterparty_bills"
}

// ToDomain converts the persistence model to a domain CounterpartyBill
func (m *CounterpartyBillModel) ToDomain() *finance.CounterpartyBill {
	b := &finance.CounterpartyBill{
		Number:           m.Number,
		CounterpartyID:   m.CounterpartyID,
		CounterpartyName: m.CounterpartyName,
		Amount:           m.Amount,
		BilledAt:         m.BilledAt,
	}
	m.PopulateCompanyAggregateRoot(&b.CompanyAggregateRoot)
	return b
}

// FromDomain populates the persistence model from a domain CounterpartyBill
func (m *CounterpartyBillModel) FromDomain(b *finance.CounterpartyBill) {
	m.FromDomainCompanyAggregateRoot(b.CompanyAggregateRoot)
	m.Number = b.Number
	m.CounterpartyID = b.CounterpartyID
	m.CounterpartyName = b.CounterpartyName
	m.Amount = b.Amount
	m.BilledAt = b.BilledAt
}

// CounterpartyBillModelFromDomain creates a new persistence model from a domain CounterpartyBill
func CounterpartyBillModelFromDomain(b *finance.CounterpartyBill) *CounterpartyBillModel {
	m := &CounterpartyBillModel{}
	m.FromDomain(b)
	return m
}

// DebtSnapshotModel is the persistence model for point-in-time AR/AP rows.
// Snapshot rows are append-only; re-running a snapshot adds a new batch.
type DebtSnapshotModel struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID        `gorm:"type:uuid;not null;index:idx_debt_scope_date,priority:1"`
	CompanyID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_debt_scope_date,priority:2"`
	Kind           finance.DebtKind `gorm:"type:varchar(10);not null;index:idx_debt_scope_date,priority:4"`
	SnapshotDate   time.Time        `gorm:"not null;index:idx_debt_scope_date,priority:3"`
	ContractID     *uuid.UUID       `gorm:"type:uuid;index"`
	CounterpartyID *uuid.UUID       `gorm:"type:uuid;index"`
	DebtorName     string           `gorm:"type:varchar(200);not null"`
	Outstanding    decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	CreatedAt      time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DebtSnapshotModel) TableName() string {
	return "debt_snapshots"
}

// ToDomain converts the persistence model to a domain DebtSnapshot
func (m *DebtSnapshotModel) ToDomain() finance.DebtSnapshot {
	return finance.DebtSnapshot{
		ID:             m.ID,
		TenantID:       m.TenantID,
		CompanyID:      m.CompanyID,
		Kind:           m.Kind,
		SnapshotDate:   m.SnapshotDate,
		ContractID:     m.ContractID,
		CounterpartyID: m.CounterpartyID,
		DebtorName:     m.DebtorName,
		Outstanding:    m.Outstanding,
		CreatedAt:      m.CreatedAt,
	}
}

// DebtSnapshotModelFromDomain creates a new persistence model from a domain DebtSnapshot
func DebtSnapshotModelFromDomain(s finance.DebtSnapshot) *DebtSnapshotModel {
	return &DebtSnapshotModel{
		ID:             s.ID,
		TenantID:       s.TenantID,
		CompanyID:      s.CompanyID,
		Kind:           s.Kind,
		SnapshotDate:   s.SnapshotDate,
		ContractID:     s.ContractID,
		CounterpartyID: s.CounterpartyID,
		DebtorName:     s.DebtorName,
		Outstanding:    s.Outstanding,
		CreatedAt:      s.CreatedAt,
	}
}
