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

// GormCashflowItemRepository implements finance.CashflowItemRepository using GORM
type GormCashflowItemRepository struct {
	db *gorm.DB
}

var _ finance.CashflowItemRepository = (*GormCashflowItemRepository)(nil)

// NewGormCashflowItemRepository creates a new GormCashflowItemRepository
func NewGormCashflowItemRepository(db *gorm.DB) *GormCashflowItemRepository {
	return &GormCashflowItemRepository{db: db}
}

// FindByID finds a cashflow item within a scope
func (r *GormCashflowItemRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.CashflowItem, error) {
	var model models.CashflowItemModel
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

// FindByCode finds a cashflow item by its code within a scope
func (r *GormCashflowItemRepository) FindByCode(ctx context.Context, scope shared.Scope, code string) (*finance.CashflowItem, error) {
	var model models.CashflowItemModel
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

// ListAll returns every cashflow item in the scope, active or not
func (r *GormCashflowItemRepository) ListAll(ctx context.Context, scope shared.Scope) ([]finance.CashflowItem, error) {
	return r.list(ctx, scope, false)
}

// ListActive returns the active cashflow items in the scope
func (r *GormCashflowItemRepository) ListActive(ctx context.Context, scope shared.Scope) ([]finance.CashflowItem, error) {
	return r.list(ctx, scope, true)
}

func (r *GormCashflowItemRepository) list(ctx context.Context, scope shared.Scope, activeOnly bool) ([]finance.CashflowItem, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ?", scope.TenantID, scope.CompanyID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var itemModels []models.CashflowItemModel
	if err := query.Order("code ASC").Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]finance.CashflowItem, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items, nil
}

// Save creates or updates a cashflow item
func (r *GormCashflowItemRepository) Save(ctx context.Context, item *finance.CashflowItem) error {
	model := models.CashflowItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}
