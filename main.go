package main

import (
	"fmt"
	"io"
	"os"

	"AguaPos/app/config"
	"AguaPos/app/database"
	"AguaPos/app/services"
)

// App struct
type App struct {
	cfg   *config.AppConfig
	db    *database.LocalDB
	store *services.StateStore
	out   io.Writer

	LoggerService          *services.LoggerService
	ProductService         *services.ProductService
	PresentationService    *services.PresentationService
	POSService             *services.POSService
	SalesService           *services.SalesService
	DashboardService       *services.DashboardService
	ExpenseService         *services.ExpenseService
	ReportsService         *services.ReportsService
	DataService            *services.DataService
	BackupSchedulerService *services.BackupSchedulerService
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{out: os.Stdout, LoggerService: services.NewNopLoggerService()}
}

// startup loads configuration, opens storage and wires the services
func (a *App) startup() error {
	if err := config.LoadEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	exists, err := config.ConfigExists()
	if err != nil {
		return fmt.Errorf("failed to locate config: %w", err)
	}
	if exists {
		a.cfg, err = config.LoadConfig()
	} else {
		a.cfg, err = config.CreateDefaultConfig()
	}
	if err != nil {
		return err
	}

	a.LoggerService = services.NewLoggerService(a.cfg.DataDir(), a.cfg.Logger)
	a.LoggerService.LogInfo("Application starting", a.cfg.Business.Name)

	a.db, err = database.Open(a.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	a.store, err = services.NewStateStore(a.db)
	if err != nil {
		return err
	}

	a.ProductService = services.NewProductService(a.store)
	a.PresentationService = services.NewPresentationService(a.store)
	a.POSService = services.NewPOSService(a.store, a.cfg.POS)
	a.SalesService = services.NewSalesService(a.store)
	a.DashboardService = services.NewDashboardService(a.store)
	a.ExpenseService = services.NewExpenseService(a.store)
	a.ReportsService = services.NewReportsService(a.store, a.ExpenseService, a.cfg.Business.CurrencySymbol)
	a.DataService = services.NewDataService(a.store)
	a.BackupSchedulerService = services.NewBackupSchedulerService(a.DataService, a.cfg.Backup)

	if a.cfg.FirstRun {
		if err := config.MarkSetupComplete(); err != nil {
			a.LoggerService.LogWarning("Failed to mark setup complete", err.Error())
		}
	}
	return nil
}

// shutdown stops background work and closes storage
func (a *App) shutdown() {
	if a.BackupSchedulerService != nil {
		a.BackupSchedulerService.Stop()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.LoggerService.LogError("Error closing database", err)
		}
	}
	a.LoggerService.Close()
}

func main() {
	app := NewApp()
	defer func() {
		if r := recover(); r != nil {
			app.LoggerService.LogPanic(r)
			app.shutdown()
			os.Exit(1)
		}
	}()

	err := newRootCmd(app).Execute()
	app.shutdown()
	if err != nil {
		os.Exit(1)
	}
}
