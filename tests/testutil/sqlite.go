package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/structura/backend/internal/infrastructure/persistence/models"
)

// NewSQLiteDB opens an in-memory SQLite database with the full ledger schema
// migrated. Each call returns an isolated database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive for the
	// whole test; a second connection would see an empty database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.TransactionModel{},
		&models.CashBoxModel{},
		&models.CashboxHistoryModel{},
		&models.CashTransferModel{},
		&models.CashflowItemModel{},
		&models.FinancePeriodModel{},
		&models.ContractModel{},
		&models.CounterpartyBillModel{},
		&models.DebtSnapshotModel{},
		&models.ReportCashflowDailyModel{},
		&models.ReportCashflowMonthlyModel{},
		&models.CashflowMonthlySummaryModel{},
		&models.ReportPnLMonthlyModel{},
		&models.ReportPnLMonthlyItemModel{},
	))

	return db
}
