package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/structura/backend/internal/domain/report"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
	"github.com/structura/backend/internal/infrastructure/persistence/models"
)

// GormCashflowReportRepository implements report.CashflowReportRepository using GORM.
// Replace operations run delete-and-reinsert inside one transaction so a
// rebuild is atomic from a reader's point of view.
type GormCashflowReportRepository struct {
	db *gorm.DB
}

var _ report.CashflowReportRepository = (*GormCashflowReportRepository)(nil)

// NewGormCashflowReportRepository creates a new GormCashflowReportRepository
func NewGormCashflowReportRepository(db *gorm.DB) *GormCashflowReportRepository {
	return &GormCashflowReportRepository{db: db}
}

// ReplaceDaily swaps every daily fact row for the given day
func (r *GormCashflowReportRepository) ReplaceDaily(ctx context.Context, scope shared.Scope, date time.Time, rows []report.ReportCashflowDaily) error {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ReportCashflowDailyModel{},
			"tenant_id = ? AND company_id = ? AND date = ?", scope.TenantID, scope.CompanyID, day).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		rowModels := make([]models.ReportCashflowDailyModel, len(rows))
		for i, row := range rows {
			rowModels[i] = *models.ReportCashflowDailyModelFromDomain(row)
		}
		return tx.Create(&rowModels).Error
	})
}

// ListDaily returns the daily fact rows for one day
func (r *GormCashflowReportRepository) ListDaily(ctx context.Context, scope shared.Scope, date time.Time) ([]report.ReportCashflowDaily, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var rowModels []models.ReportCashflowDailyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND date = ?", scope.TenantID, scope.CompanyID, day).
		Order("item_code ASC").
		Find(&rowModels).Error; err != nil {
		return nil, err
	}
	rows := make([]report.ReportCashflowDaily, len(rowModels))
	for i := range rowModels {
		rows[i] = rowModels[i].ToDomain()
	}
	return rows, nil
}

// ReplaceMonthly swaps every monthly fact row for the given month
func (r *GormCashflowReportRepository) ReplaceMonthly(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, rows []report.ReportCashflowMonthly) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ReportCashflowMonthlyModel{},
			"tenant_id = ? AND company_id = ? AND period = ?", scope.TenantID, scope.CompanyID, ym.String()).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		rowModels := make([]models.ReportCashflowMonthlyModel, len(rows))
		for i, row := range rows {
			rowModels[i] = *models.ReportCashflowMonthlyModelFromDomain(row)
		}
		return tx.Create(&rowModels).Error
	})
}

// ListMonthly returns the monthly fact rows for one month
func (r *GormCashflowReportRepository) ListMonthly(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) ([]report.ReportCashflowMonthly, error) {
	var rowModels []models.ReportCashflowMonthlyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND period = ?", scope.TenantID, scope.CompanyID, ym.String()).
		Order("item_code ASC").
		Find(&rowModels).Error; err != nil {
		return nil, err
	}
	rows := make([]report.ReportCashflowMonthly, len(rowModels))
	for i := range rowModels {
		row, err := rowModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return rows, nil
}

// SaveMonthlySummary upserts the single summary row for a month
func (r *GormCashflowReportRepository) SaveMonthlySummary(ctx context.Context, summary *report.CashflowMonthlySummary) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CashflowMonthlySummaryModel{},
			"tenant_id = ? AND company_id = ? AND period = ?",
			summary.TenantID, summary.CompanyID, summary.Period.String()).Error; err != nil {
			return err
		}
		return tx.Create(models.CashflowMonthlySummaryModelFromDomain(*summary)).Error
	})
}

// FindMonthlySummary returns the summary row for a month
func (r *GormCashflowReportRepository) FindMonthlySummary(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (*report.CashflowMonthlySummary, error) {
	var model models.CashflowMonthlySummaryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND period = ?", scope.TenantID, scope.CompanyID, ym.String()).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	summary, err := model.ToDomain()
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
