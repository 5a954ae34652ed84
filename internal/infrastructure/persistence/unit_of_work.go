package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/structura/backend/internal/domain/finance"
)

// GormUnitOfWork implements finance.UnitOfWork on top of a GORM transaction.
// Every repository handed to fn is bound to the same *gorm.DB transaction,
// so fn either commits as a whole or rolls back as a whole.
type GormUnitOfWork struct {
	db *gorm.DB
}

var _ finance.UnitOfWork = (*GormUnitOfWork)(nil)

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a database transaction
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(repos finance.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// NewRepositories builds the full finance repository bundle bound to db.
// db may be a live transaction or a plain connection.
func NewRepositories(db *gorm.DB) finance.Repositories {
	return finance.Repositories{
		Transactions: NewGormTransactionRepository(db),
		CashBoxes:    NewGormCashBoxRepository(db),
		Histories:    NewGormCashboxHistoryRepository(db),
		Transfers:    NewGormCashTransferRepository(db),
		Items:        NewGormCashflowItemRepository(db),
		Periods:      NewGormFinancePeriodRepository(db),
		Contracts:    NewGormContractRepository(db),
		Bills:        NewGormCounterpartyBillRepository(db),
		Debts:        NewGormDebtSnapshotRepository(db),
	}
}
