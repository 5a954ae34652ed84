package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/structura/backend/internal/domain/report"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
	"github.com/structura/backend/internal/infrastructure/persistence/models"
)

// GormPnLReportRepository implements report.PnLReportRepository using GORM
type GormPnLReportRepository struct {
	db *gorm.DB
}

var _ report.PnLReportRepository = (*GormPnLReportRepository)(nil)

// NewGormPnLReportRepository creates a new GormPnLReportRepository
func NewGormPnLReportRepository(db *gorm.DB) *GormPnLReportRepository {
	return &GormPnLReportRepository{db: db}
}

// SaveHeader upserts the single header row for a month
func (r *GormPnLReportRepository) SaveHeader(ctx context.Context, header *report.ReportPnLMonthly) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ReportPnLMonthlyModel{},
			"tenant_id = ? AND company_id = ? AND period = ?",
			header.TenantID, header.CompanyID, header.Period.String()).Error; err != nil {
			return err
		}
		return tx.Create(models.ReportPnLMonthlyModelFromDomain(*header)).Error
	})
}

// FindHeader returns the header for a month
func (r *GormPnLReportRepository) FindHeader(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (*report.ReportPnLMonthly, error) {
	var model models.ReportPnLMonthlyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND period = ?", scope.TenantID, scope.CompanyID, ym.String()).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	header, err := model.ToDomain()
	if err != nil {
		return nil, err
	}
	return &header, nil
}

// ReplaceItems swaps every item row for the given month
func (r *GormPnLReportRepository) ReplaceItems(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, items []report.ReportPnLMonthlyItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ReportPnLMonthlyItemModel{},
			"tenant_id = ? AND company_id = ? AND period = ?", scope.TenantID, scope.CompanyID, ym.String()).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		itemModels := make([]models.ReportPnLMonthlyItemModel, len(items))
		for i, item := range items {
			itemModels[i] = *models.ReportPnLMonthlyItemModelFromDomain(item)
		}
		return tx.Create(&itemModels).Error
	})
}

// ListItems returns the item rows for one month
func (r *GormPnLReportRepository) ListItems(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) ([]report.ReportPnLMonthlyItem, error) {
	var itemModels []models.ReportPnLMonthlyItemModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND period = ?", scope.TenantID, scope.CompanyID, ym.String()).
		Order("category ASC, item_code ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]report.ReportPnLMonthlyItem, len(itemModels))
	for i := range itemModels {
		item, err := itemModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}
