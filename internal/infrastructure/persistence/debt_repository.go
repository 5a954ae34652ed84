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

// GormContractRepository implements finance.ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

var _ finance.ContractRepository = (*GormContractRepository)(nil)

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract within a scope
func (r *GormContractRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.Contract, error) {
	var model models.ContractModel
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

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, c *finance.Contract) error {
	model := models.ContractModelFromDomain(c)
	return r.db.WithContext(ctx).Save(model).Error
}

// ListSignedAsOf returns active contracts signed on or before asOf
func (r *GormContractRepository) ListSignedAsOf(ctx context.Context, scope shared.Scope, asOf time.Time) ([]finance.Contract, error) {
	var contractModels []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND is_active = ? AND signed_at <= ?",
			scope.TenantID, scope.CompanyID, true, asOf).
		Order("signed_at ASC, number ASC").
		Find(&contractModels).Error; err != nil {
		return nil, err
	}
	contracts := make([]finance.Contract, len(contractModels))
	for i := range contractModels {
		contracts[i] = *contractModels[i].ToDomain()
	}
	return contracts, nil
}

// GormCounterpartyBillRepository implements finance.CounterpartyBillRepository using GORM
type GormCounterpartyBillRepository struct {
	db *gorm.DB
}

var _ finance.CounterpartyBillRepository = (*GormCounterpartyBillRepository)(nil)

// NewGormCounterpartyBillRepository creates a new GormCounterpartyBillRepository
func NewGormCounterpartyBillRepository(db *gorm.DB) *GormCounterpartyBillRepository {
	return &GormCounterpartyBillRepository{db: db}
}

// Save creates or updates a vendor bill
func (r *GormCounterpartyBillRepository) Save(ctx context.Context, b *finance.CounterpartyBill) error {
	model := models.CounterpartyBillModelFromDomain(b)
	return r.db.WithContext(ctx).Save(model).Error
}

// ListBilledAsOf returns bills issued on or before asOf
func (r *GormCounterpartyBillRepository) ListBilledAsOf(ctx context.Context, scope shared.Scope, asOf time.Time) ([]finance.CounterpartyBill, error) {
	var billModels []models.CounterpartyBillModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND billed_at <= ?", scope.TenantID, scope.CompanyID, asOf).
		Order("billed_at ASC, number ASC").
		Find(&billModels).Error; err != nil {
		return nil, err
	}
	bills := make([]finance.CounterpartyBill, len(billModels))
	for i := range billModels {
		bills[i] = *billModels[i].ToDomain()
	}
	return bills, nil
}

// GormDebtSnapshotRepository implements finance.DebtSnapshotRepository using GORM
type GormDebtSnapshotRepository struct {
	db *gorm.DB
}

var _ finance.DebtSnapshotRepository = (*GormDebtSnapshotRepository)(nil)

// NewGormDebtSnapshotRepository creates a new GormDebtSnapshotRepository
func NewGormDebtSnapshotRepository(db *gorm.DB) *GormDebtSnapshotRepository {
	return &GormDebtSnapshotRepository{db: db}
}

// AppendBatch appends a batch of snapshot rows; existing rows are never touched
func (r *GormDebtSnapshotRepository) AppendBatch(ctx context.Context, rows []finance.DebtSnapshot) error {
	if len(rows) == 0 {
		return nil
	}
	snapshotModels := make([]models.DebtSnapshotModel, len(rows))
	for i, row := range rows {
		snapshotModels[i] = *models.DebtSnapshotModelFromDomain(row)
	}
	return r.db.WithContext(ctx).Create(&snapshotModels).Error
}

// ListByDate returns the snapshot rows of one kind taken for a date
func (r *GormDebtSnapshotRepository) ListByDate(ctx context.Context, scope shared.Scope, date time.Time, kind finance.DebtKind) ([]finance.DebtSnapshot, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var snapshotModels []models.DebtSnapshotModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND kind = ? AND snapshot_date = ?",
			scope.TenantID, scope.CompanyID, kind, day).
		Order("created_at ASC").
		Find(&snapshotModels).Error; err != nil {
		return nil, err
	}
	rows := make([]finance.DebtSnapshot, len(snapshotModels))
	for i := range snapshotModels {
		rows[i] = snapshotModels[i].ToDomain()
	}
	return rows, nil
}
