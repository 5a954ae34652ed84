package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appfinance "github.com/structura/backend/internal/application/finance"
	appreport "github.com/structura/backend/internal/application/report"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
	"github.com/structura/backend/internal/infrastructure/config"
	"github.com/structura/backend/internal/infrastructure/event"
	"github.com/structura/backend/internal/infrastructure/logger"
	"github.com/structura/backend/internal/infrastructure/migration"
	"github.com/structura/backend/internal/infrastructure/persistence"
	"github.com/structura/backend/internal/infrastructure/scheduler"
)

const dateLayout = "2006-01-02"

// app bundles everything a subcommand needs after wiring
type app struct {
	cfg          *config.Config
	log          *zap.Logger
	db           *persistence.Database
	orchestrator *appreport.ReportOrchestrator
	periods      *appfinance.PeriodService
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	a, cleanup, err := bootstrap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	args := os.Args[2:]
	switch command {
	case "rebuild-day":
		err = a.rebuildDay(args)
	case "rebuild-month":
		err = a.rebuildMonth(args)
	case "rebuild-pnl":
		err = a.rebuildPnL(args)
	case "snapshot-debts":
		err = a.snapshotDebts(args)
	case "reconcile":
		err = a.reconcile(args)
	case "close-period":
		err = a.setPeriod(args, true)
	case "reopen-period":
		err = a.setPeriod(args, false)
	case "daemon":
		err = a.daemon(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		a.log.Error("command failed", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}
}

func bootstrap() (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := persistence.NewDatabaseWithZap(&cfg.Database, log)
	if err != nil {
		_ = logger.Sync(log)
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	if err := runMigrations(db, log); err != nil {
		_ = db.Close()
		_ = logger.Sync(log)
		return nil, nil, fmt.Errorf("apply migrations: %w", err)
	}

	repos := persistence.NewRepositories(db.DB)
	cashflowReports := persistence.NewGormCashflowReportRepository(db.DB)
	pnlReports := persistence.NewGormPnLReportRepository(db.DB)

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewAuditLogHandler(log), event.WildcardEventType)

	cashflow := appreport.NewCashflowAggregationService(repos, cashflowReports, log)
	pnl := appreport.NewPnLService(repos.Periods, cashflowReports, pnlReports, log)
	debts := appreport.NewDebtSnapshotService(repos, log)
	recon := appreport.NewReconciliationService(repos, cashflowReports, pnlReports, log)
	orchestrator := appreport.NewReportOrchestrator(cashflow, pnl, debts, recon, log)
	periods := appfinance.NewPeriodService(repos.Periods, bus, log)

	a := &app{cfg: cfg, log: log, db: db, orchestrator: orchestrator, periods: periods}
	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
		_ = logger.Sync(log)
	}
	return a, cleanup, nil
}

func runMigrations(db *persistence.Database, log *zap.Logger) error {
	path := "migrations"
	if _, err := os.Stat(path); err != nil {
		if execPath, execErr := os.Executable(); execErr == nil {
			candidate := filepath.Join(filepath.Dir(execPath), "..", "..", "migrations")
			if _, statErr := os.Stat(candidate); statErr == nil {
				path = candidate
			}
		}
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, path, log)
	if err != nil {
		return err
	}
	return m.Up()
}

// scopeFlags adds the tenant and company flags every subcommand shares
func scopeFlags(fs *flag.FlagSet) (tenant, company *string) {
	tenant = fs.String("tenant", "", "Tenant UUID (required)")
	company = fs.String("company", "", "Company UUID (required)")
	return tenant, company
}

func parseScope(tenant, company string) (shared.Scope, error) {
	tenantID, err := uuid.Parse(tenant)
	if err != nil {
		return shared.Scope{}, fmt.Errorf("invalid -tenant: %w", err)
	}
	companyID, err := uuid.Parse(company)
	if err != nil {
		return shared.Scope{}, fmt.Errorf("invalid -company: %w", err)
	}
	return shared.NewScope(tenantID, companyID), nil
}

func (a *app) rebuildDay(args []string) error {
	fs := flag.NewFlagSet("rebuild-day", flag.ExitOnError)
	tenant, company := scopeFlags(fs)
	date := fs.String("date", "", "Day to rebuild, YYYY-MM-DD (required)")
	to := fs.String("to", "", "End of range inclusive, YYYY-MM-DD (optional)")
	force := fs.Bool("force", false, "Rebuild even if the period is closed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	scope, err := parseScope(*tenant, *company)
	if err != nil {
		return err
	}
	from, err := time.ParseInLocation(dateLayout, *date, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid -date: %w", err)
	}

	ctx := context.Background()
	if *to == "" {
		result, err := a.orchestrator.RebuildDay(ctx, scope, from, *force)
		if err != nil {
			return err
		}
		printRebuild(from.Format(dateLayout), result)
		return nil
	}

	end, err := time.ParseInLocation(dateLayout, *to, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid -to: %w", err)
	}
	if end.Before(from) {
		return fmt.Errorf("-to %s is before -date %s", *to, *date)
	}
	return printOutcomes(a.orchestrator.RebuildDayRange(ctx, scope, from, end, *force))
}

func (a *app) rebuildMonth(args []string) error {
	fs := flag.NewFlagSet("rebuild-month", flag.ExitOnError)
	tenant, company := scopeFlags(fs)
	period := fs.String("period", "", "Month to rebuild, YYYY-MM (required)")
	to := fs.String("to", "", "End of range inclusive, YYYY-MM (optional)")
	force := fs.Bool("force", false, "Rebuild even if the period is closed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	scope, err := parseScope(*tenant, *company)
	if err != nil {
		return err
	}
	from, err := valueobject.ParseYearMonth(*period)
	if err != nil {
		return fmt.Errorf("invalid -period: %w", err)
	}

	ctx := context.Background()
	if *to == "" {
		result, err := a.orchestrator.RebuildMonth(ctx, scope, from, *force)
		if err != nil {
			return err
		}
		printRebuild(from.String(), result)
		return nil
	}

	end, err := valueobject.ParseYearMonth(*to)
	if err != nil {
		return fmt.Errorf("invalid -to: %w", err)
	}
	if end.Before(from) {
		return fmt.Errorf("-to %s is before -period %s", *to, *period)
	}
	return printOutcomes(a.orchestrator.RebuildMonthRange(ctx, scope, from, end, *force))
}

func (a *app) rebuildPnL(args []string) error {
	fs := flag.NewFlagSet("rebuild-pnl", flag.ExitOnError)
	tenant, company := scopeFlags(fs)
	period := fs.String("period", "", "Month to rebuild, YYYY-MM (required)")
	to := fs.String("to", "", "End of range inclusive, YYYY-MM (optional)")
	force := fs.Bool("force", false, "Rebuild even if the period is closed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	scope, err := parseScope(*tenant, *company)
	if err != nil {
		return err
	}
	from, err := valueobject.ParseYearMonth(*period)
	if err != nil {
		return fmt.Errorf("invalid -period: %w", err)
	}

	ctx := context.Background()
	if *to == "" {
		result, err := a.orchestrator.RebuildPnL(ctx, scope, from, *force)
		if err != nil {
			return err
		}
		printPnL(from.String(), result)
		return nil
	}

	end, err := valueobject.ParseYearMonth(*to)
	if err != nil {
		return fmt.Errorf("invalid -to: %w", err)
	}
	if end.Before(from) {
		return fmt.Errorf("-to %s is before -period %s", *to, *period)
	}
	return printOutcomes(a.orchestrator.RebuildPnLRange(ctx, scope, from, end, *force))
}

func (a *app) snapshotDebts(args []string) error {
	fs := flag.NewFlagSet("snapshot-debts", flag.ExitOnError)
	tenant, company := scopeFlags(fs)
	date := fs.String("date", time.Now().UTC().Format(dateLayout), "Snapshot date, YYYY-MM-DD (default: today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	scope, err := parseScope(*tenant, *company)
	if err != nil {
		return err
	}
	day, err := time.ParseInLocation(dateLayout, *date, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid -date: %w", err)
	}

	result, err := a.orchestrator.SnapshotDebts(context.Background(), scope, day)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d receivable, %d payable snapshot rows\n",
		day.Format(dateLayout), result.ARRecords, result.APRecords)
	return nil
}

func (a *app) reconcile(args []string) error {
	fs := flag.NewFlagSet("reconcile", flag.ExitOnError)
	tenant, company := scopeFlags(fs)
	period := fs.String("period", "", "Month to verify, YYYY-MM (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	scope, err := parseScope(*tenant, *company)
	if err != nil {
		return err
	}
	ym, err := valueobject.ParseYearMonth(*period)
	if err != nil {
		return fmt.Errorf("invalid -period: %w", err)
	}

	report, err := a.orchestrator.ReconcileMonth(context.Background(), scope, ym)
	if err != nil {
		return err
	}
	if report.Valid {
		fmt.Printf("%s: OK\n", ym.String())
		return nil
	}
	fmt.Printf("%s: %d issue(s)\n", ym.String(), len(report.Issues))
	for _, issue := range report.Issues {
		fmt.Println("  -", issue)
	}
	return fmt.Errorf("reconciliation found discrepancies")
}

// setPeriod closes or reopens one accounting month
func (a *app) setPeriod(args []string, close bool) error {
	name := "close-period"
	if !close {
		name = "reopen-period"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	tenant, company := scopeFlags(fs)
	period := fs.String("period", "", "Month, YYYY-MM (required)")
	actor := fs.String("by", "", "Acting user UUID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	scope, err := parseScope(*tenant, *company)
	if err != nil {
		return err
	}
	ym, err := valueobject.ParseYearMonth(*period)
	if err != nil {
		return fmt.Errorf("invalid -period: %w", err)
	}
	actorID, err := uuid.Parse(*actor)
	if err != nil {
		return fmt.Errorf("invalid -by: %w", err)
	}

	ctx := context.Background()
	if close {
		if err := a.periods.ClosePeriod(ctx, scope, ym, actorID); err != nil {
			return err
		}
		fmt.Printf("%s: closed\n", ym.String())
		return nil
	}
	if err := a.periods.ReopenPeriod(ctx, scope, ym, actorID); err != nil {
		return err
	}
	fmt.Printf("%s: reopened\n", ym.String())
	return nil
}

// daemon runs the nightly rebuild scheduler until interrupted
func (a *app) daemon(args []string) error {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	schedCfg := scheduler.DefaultSchedulerConfig()
	if a.cfg.Scheduler.MaxConcurrentJobs > 0 {
		schedCfg.MaxConcurrentJobs = a.cfg.Scheduler.MaxConcurrentJobs
	}
	if a.cfg.Scheduler.JobTimeout > 0 {
		schedCfg.JobTimeout = a.cfg.Scheduler.JobTimeout
	}
	if a.cfg.Scheduler.RetryAttempts > 0 {
		schedCfg.RetryAttempts = a.cfg.Scheduler.RetryAttempts
	}
	if a.cfg.Scheduler.RetryDelay > 0 {
		schedCfg.RetryDelay = a.cfg.Scheduler.RetryDelay
	}

	triggerCfg := scheduler.DefaultCronTriggerConfig()
	if a.cfg.Scheduler.DailyCronSchedule != "" {
		triggerCfg.DailyCronSchedule = a.cfg.Scheduler.DailyCronSchedule
	}
	if a.cfg.Scheduler.DebtCronSchedule != "" {
		triggerCfg.DebtCronSchedule = a.cfg.Scheduler.DebtCronSchedule
	}

	executor := scheduler.NewReportJobExecutor(a.orchestrator, a.log)
	sched := scheduler.NewScheduler(schedCfg, executor, a.log)
	scopes := persistence.NewGormScopeProvider(a.db.DB)
	trigger, err := scheduler.NewCronTrigger(triggerCfg, sched, scopes, a.log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		return err
	}
	if err := trigger.Start(ctx); err != nil {
		return err
	}

	a.log.Info("report daemon started",
		zap.String("daily_schedule", triggerCfg.DailyCronSchedule),
		zap.String("debt_schedule", triggerCfg.DebtCronSchedule),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.log.Info("shutting down report daemon")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := trigger.Stop(shutdownCtx); err != nil {
		a.log.Warn("cron trigger shutdown", zap.Error(err))
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		a.log.Warn("scheduler shutdown", zap.Error(err))
	}
	return nil
}

func printRebuild(unit string, result appreport.RebuildResult) {
	if result.Skipped {
		fmt.Printf("%s: skipped (%s)\n", unit, result.Reason)
		return
	}
	fmt.Printf("%s: %d record(s)\n", unit, result.Records)
}

func printPnL(unit string, result appreport.PnLResult) {
	if result.Skipped {
		fmt.Printf("%s: skipped (%s)\n", unit, result.Reason)
		return
	}
	fmt.Printf("%s: revenue %s, expenses %s, profit %s\n",
		unit, result.Revenue.String(), result.Expenses.String(), result.Profit.String())
}

func printOutcomes(outcomes []appreport.BatchOutcome) error {
	failed := 0
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
			fmt.Printf("%s: FAILED: %v\n", o.Unit, o.Err)
		case o.Result.Skipped:
			fmt.Printf("%s: skipped (%s)\n", o.Unit, o.Result.Reason)
		default:
			fmt.Printf("%s: %d record(s)\n", o.Unit, o.Result.Records)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d unit(s) failed", failed, len(outcomes))
	}
	return nil
}

func printUsage() {
	fmt.Println(`Ledger Reporting Engine

Usage:
  reports <command> [flags]

Commands:
  rebuild-day      Rebuild daily cashflow facts for a day or day range
  rebuild-month    Rebuild monthly cashflow facts and summary for a month or range
  rebuild-pnl      Rebuild the P&L statement for a month or range
  snapshot-debts   Take the AR/AP debt snapshot for a date
  reconcile        Cross-check one month's derived tables against the ledger
  close-period     Close an accounting month so rebuilds stop touching it
  reopen-period    Reopen a previously closed month
  daemon           Run the nightly rebuild scheduler until interrupted

Common flags:
  -tenant string   Tenant UUID (required except for daemon)
  -company string  Company UUID (required except for daemon)
  -force           Rebuild even when the accounting period is closed

Examples:
  reports rebuild-day -tenant <uuid> -company <uuid> -date 2026-03-05
  reports rebuild-month -tenant <uuid> -company <uuid> -period 2026-01 -to 2026-03
  reports rebuild-pnl -tenant <uuid> -company <uuid> -period 2026-03 -force
  reports snapshot-debts -tenant <uuid> -company <uuid>
  reports reconcile -tenant <uuid> -company <uuid> -period 2026-03
  reports close-period -tenant <uuid> -company <uuid> -period 2026-03 -by <uuid>
  reports daemon`)
}
