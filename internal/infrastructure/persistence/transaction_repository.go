package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
	"github.com/structura/backend/internal/infrastructure/persistence/models"
)

// GormTransactionRepository implements finance.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction within a scope
func (r *GormTransactionRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND id = ?", scope.TenantID, scope.CompanyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *finance.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.TransactionModel{}, "tenant_id = ? AND company_id = ? AND id = ?", scope.TenantID, scope.CompanyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindPaidByDate finds paid transactions whose paid date falls on the given calendar day
func (r *GormTransactionRepository) FindPaidByDate(ctx context.Context, scope shared.Scope, date time.Time) ([]finance.Transaction, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return r.findPaidBetween(ctx, scope, dayStart, dayStart.AddDate(0, 0, 1))
}

// FindPaidByMonth finds paid transactions whose paid date falls inside the month
func (r *GormTransactionRepository) FindPaidByMonth(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) ([]finance.Transaction, error) {
	return r.findPaidBetween(ctx, scope, ym.Start(), ym.NextStart())
}

func (r *GormTransactionRepository) findPaidBetween(ctx context.Context, scope shared.Scope, from, to time.Time) ([]finance.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND is_paid = ? AND paid_at >= ? AND paid_at < ?",
			scope.TenantID, scope.CompanyID, true, from, to).
		Order("paid_at ASC, created_at ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	txs := make([]finance.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = *txModels[i].ToDomain()
	}
	return txs, nil
}

// FindByCashBox returns every transaction on a cashbox in chronological order.
// The effective instant is the paid time when set, otherwise creation time.
func (r *GormTransactionRepository) FindByCashBox(ctx context.Context, scope shared.Scope, cashBoxID uuid.UUID) ([]finance.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND cash_box_id = ?", scope.TenantID, scope.CompanyID, cashBoxID).
		Order("COALESCE(paid_at, created_at) ASC, created_at ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	txs := make([]finance.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = *txModels[i].ToDomain()
	}
	return txs, nil
}

// SumPaidByContractAsOf sums paid inflows per contract up to and including asOf
func (r *GormTransactionRepository) SumPaidByContractAsOf(ctx context.Context, scope shared.Scope, asOf time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []struct {
		ContractID uuid.UUID
		Total      decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Select("contract_id, COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ? AND company_id = ? AND is_paid = ? AND contract_id IS NOT NULL AND amount > 0 AND paid_at <= ?",
			scope.TenantID, scope.CompanyID, true, asOf).
		Group("contract_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	sums := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.ContractID] = row.Total
	}
	return sums, nil
}

// SumPaidToCounterpartyAsOf sums absolute paid outflows per counterparty up to and including asOf
func (r *GormTransactionRepository) SumPaidToCounterpartyAsOf(ctx context.Context, scope shared.Scope, asOf time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []struct {
		CounterpartyID uuid.UUID
		Total          decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Select("counterparty_id, COALESCE(SUM(-amount), 0) as total").
		Where("tenant_id = ? AND company_id = ? AND is_paid = ? AND counterparty_id IS NOT NULL AND amount < 0 AND paid_at <= ?",
			scope.TenantID, scope.CompanyID, true, asOf).
		Group("counterparty_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	sums := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.CounterpartyID] = row.Total
	}
	return sums, nil
}
