package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/infrastructure/persistence/models"
)

// GormCashBoxRepository implements finance.CashBoxRepository using GORM
type GormCashBoxRepository struct {
	db *gorm.DB
}

var _ finance.CashBoxRepository = (*GormCashBoxRepository)(nil)

// NewGormCashBoxRepository creates a new GormCashBoxRepository
func NewGormCashBoxRepository(db *gorm.DB) *GormCashBoxRepository {
	return &GormCashBoxRepository{db: db}
}

// FindByID finds a cashbox within a scope
func (r *GormCashBoxRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.CashBox, error) {
	var model models.CashBoxModel
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

// FindByCode finds a cashbox by its code within a scope
func (r *GormCashBoxRepository) FindByCode(ctx context.Context, scope shared.Scope, code string) (*finance.CashBox, error) {
	var model models.CashBoxModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND code = ?", scope.TenantID, scope.CompanyID, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListActive returns every active cashbox in the scope
func (r *GormCashBoxRepository) ListActive(ctx context.Context, scope shared.Scope) ([]finance.CashBox, error) {
	var boxModels []models.CashBoxModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND is_active = ?", scope.TenantID, scope.CompanyID, true).
		Order("code ASC").
		Find(&boxModels).Error; err != nil {
		return nil, err
	}
	boxes := make([]finance.CashBox, len(boxModels))
	for i := range boxModels {
		boxes[i] = *boxModels[i].ToDomain()
	}
	return boxes, nil
}

// Save creates or updates a cashbox
func (r *GormCashBoxRepository) Save(ctx context.Context, cb *finance.CashBox) error {
	model := models.CashBoxModelFromDomain(cb)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormCashboxHistoryRepository implements finance.CashboxHistoryRepository using GORM
type GormCashboxHistoryRepository struct {
	db *gorm.DB
}

var _ finance.CashboxHistoryRepository = (*GormCashboxHistoryRepository)(nil)

// NewGormCashboxHistoryRepository creates a new GormCashboxHistoryRepository
func NewGormCashboxHistoryRepository(db *gorm.DB) *GormCashboxHistoryRepository {
	return &GormCashboxHistoryRepository{db: db}
}

// Append writes one history row; rows are never updated in place
func (r *GormCashboxHistoryRepository) Append(ctx context.Context, h *finance.CashboxHistory) error {
	model := models.CashboxHistoryModelFromDomain(h)
	return r.db.WithContext(ctx).Create(model).Error
}

// Latest returns the most recent history row for a cashbox
func (r *GormCashboxHistoryRepository) Latest(ctx context.Context, scope shared.Scope, cashBoxID uuid.UUID) (*finance.CashboxHistory, error) {
	var model models.CashboxHistoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND cash_box_id = ?", scope.TenantID, scope.CompanyID, cashBoxID).
		Order("occurred_at DESC, created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByCashBox returns the full chain for a cashbox in chronological order
func (r *GormCashboxHistoryRepository) ListByCashBox(ctx context.Context, scope shared.Scope, cashBoxID uuid.UUID) ([]finance.CashboxHistory, error) {
	var historyModels []models.CashboxHistoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND cash_box_id = ?", scope.TenantID, scope.CompanyID, cashBoxID).
		Order("occurred_at ASC, created_at ASC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}
	rows := make([]finance.CashboxHistory, len(historyModels))
	for i := range historyModels {
		rows[i] = *historyModels[i].ToDomain()
	}
	return rows, nil
}

// DeleteByCashBox drops the chain for a cashbox so it can be rebuilt
func (r *GormCashboxHistoryRepository) DeleteByCashBox(ctx context.Context, scope shared.Scope, cashBoxID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.CashboxHistoryModel{}, "tenant_id = ? AND company_id = ? AND cash_box_id = ?",
			scope.TenantID, scope.CompanyID, cashBoxID).Error
}
