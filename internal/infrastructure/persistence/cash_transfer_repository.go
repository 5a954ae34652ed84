package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/infrastructure/persistence/models"
)

// GormCashTransferRepository implements finance.CashTransferRepository using GORM
type GormCashTransferRepository struct {
	db *gorm.DB
}

var _ finance.CashTransferRepository = (*GormCashTransferRepository)(nil)

// NewGormCashTransferRepository creates a new GormCashTransferRepository
func NewGormCashTransferRepository(db *gorm.DB) *GormCashTransferRepository {
	return &GormCashTransferRepository{db: db}
}

// Save creates or updates a transfer link record
func (r *GormCashTransferRepository) Save(ctx context.Context, ct *finance.CashTransfer) error {
	model := models.CashTransferModelFromDomain(ct)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a transfer within a scope
func (r *GormCashTransferRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.CashTransfer, error) {
	var model models.CashTransferModel
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

// FindByTransactionID finds the transfer a transaction is a leg of
func (r *GormCashTransferRepository) FindByTransactionID(ctx context.Context, scope shared.Scope, transactionID uuid.UUID) (*finance.CashTransfer, error) {
	var model models.CashTransferModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND (transaction_out_id = ? OR transaction_in_id = ?)",
			scope.TenantID, scope.CompanyID, transactionID, transactionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// LegTransactionIDs returns the transaction IDs of every transfer leg within [from, to)
func (r *GormCashTransferRepository) LegTransactionIDs(ctx context.Context, scope shared.Scope, from, to time.Time) ([]uuid.UUID, error) {
	var transferModels []models.CashTransferModel
	if err := r.db.WithContext(ctx).
		Select("transaction_out_id, transaction_in_id").
		Where("tenant_id = ? AND company_id = ? AND transferred_at >= ? AND transferred_at < ?",
			scope.TenantID, scope.CompanyID, from, to).
		Find(&transferModels).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(transferModels)*2)
	for _, m := range transferModels {
		ids = append(ids, m.TransactionOutID, m.TransactionInID)
	}
	return ids, nil
}

// Delete removes a transfer link record
func (r *GormCashTransferRepository) Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.CashTransferModel{}, "tenant_id = ? AND company_id = ? AND id = ?", scope.TenantID, scope.CompanyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
