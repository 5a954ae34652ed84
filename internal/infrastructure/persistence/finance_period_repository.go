package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
	"github.com/structura/backend/internal/infrastructure/persistence/models"
)

// GormFinancePeriodRepository implements finance.FinancePeriodRepository using GORM
type GormFinancePeriodRepository struct {
	db *gorm.DB
}

var _ finance.FinancePeriodRepository = (*GormFinancePeriodRepository)(nil)

// NewGormFinancePeriodRepository creates a new GormFinancePeriodRepository
func NewGormFinancePeriodRepository(db *gorm.DB) *GormFinancePeriodRepository {
	return &GormFinancePeriodRepository{db: db}
}

// Find returns the period row, or shared.ErrNotFound when none exists
func (r *GormFinancePeriodRepository) Find(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (*finance.FinancePeriod, error) {
	var model models.FinancePeriodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND period = ?", scope.TenantID, scope.CompanyID, ym.String()).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// IsOpen reports whether the month accepts rebuilds; a missing row means open
func (r *GormFinancePeriodRepository) IsOpen(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (bool, error) {
	period, err := r.Find(ctx, scope, ym)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return period.IsOpen(), nil
}

// Save creates or updates a period row
func (r *GormFinancePeriodRepository) Save(ctx context.Context, p *finance.FinancePeriod) error {
	model := models.FinancePeriodModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}
