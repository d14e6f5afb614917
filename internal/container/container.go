// Package container provides dependency injection for the finance-manager
// application. It builds every component from the configuration once, so
// commands receive ready-wired collaborators.
package container

import (
	"fmt"
	"io"

	"fjacquet/finance-manager/internal/account"
	"fjacquet/finance-manager/internal/alert"
	"fjacquet/finance-manager/internal/config"
	"fjacquet/finance-manager/internal/csvexchange"
	"fjacquet/finance-manager/internal/ledger"
	"fjacquet/finance-manager/internal/logging"
	"fjacquet/finance-manager/internal/report"
	"fjacquet/finance-manager/internal/service"
	"fjacquet/finance-manager/internal/stats"
	"fjacquet/finance-manager/internal/store"
	"fjacquet/finance-manager/internal/transfer"
)

// Container holds all application dependencies.
//
// Container is immutable after creation; fields are reached through getters.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       store.UserStore
	accounts    *account.Service
	coordinator *transfer.Coordinator
	aggregator  *stats.Aggregator
	evaluator   *alert.Evaluator
	exchanger   *csvexchange.Exchanger
	reports     *report.ReportGenerator
	service     *service.FinanceService
}

// NewContainer creates and wires all application dependencies with a
// logrus logger configured from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	userStore, err := newUserStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	ledgerOpts := []ledger.Option{
		ledger.WithLogger(logger),
		ledger.WithWarningThreshold(cfg.WarningThreshold()),
		ledger.WithResetOnSet(cfg.Wallet.ResetBudgetOnSet),
		ledger.WithRecomputeOnRemove(cfg.Wallet.RecomputeBudgetOnRemove),
		ledger.WithCategories(cfg.Wallet.DefaultCategories),
	}
	policy := account.Policy{
		BcryptCost:        cfg.Security.BcryptCost,
		MinUsernameLength: cfg.Security.MinUsernameLength,
		MinPasswordLength: cfg.Security.MinPasswordLength,
	}
	accounts := account.NewService(account.NewRegistry(), policy, logger, ledgerOpts...)

	coordinator := transfer.NewCoordinator(logger, cfg.LockTimeout())
	aggregator := stats.NewAggregator(logger)
	evaluator := alert.NewEvaluator(cfg.LowBalanceThreshold())
	exchanger := csvexchange.NewExchanger(cfg.Delimiter(), logger)

	svc, err := service.NewFinanceService(service.Dependencies{
		Accounts:    accounts,
		Store:       userStore,
		Coordinator: coordinator,
		Aggregator:  aggregator,
		Evaluator:   evaluator,
		Exchanger:   exchanger,
		Logger:      logger,
	})
	if err != nil {
		closeStore(userStore)
		return nil, fmt.Errorf("failed to create finance service: %w", err)
	}

	logger.Debug("Container initialized successfully",
		logging.Field{Key: "backend", Value: cfg.Data.Backend})

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       userStore,
		accounts:    accounts,
		coordinator: coordinator,
		aggregator:  aggregator,
		evaluator:   evaluator,
		exchanger:   exchanger,
		reports:     report.NewReportGenerator(logger),
		service:     svc,
	}, nil
}

func newUserStore(cfg *config.Config, logger logging.Logger) (store.UserStore, error) {
	switch cfg.Data.Backend {
	case config.BackendSQLite:
		s, err := store.NewSQLiteStore(cfg.DatabasePath(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return s, nil
	case config.BackendYAML, "":
		return store.NewFileStore(cfg.UsersFilePath(), logger), nil
	default:
		return nil, fmt.Errorf("unknown data backend: %s", cfg.Data.Backend)
	}
}

func closeStore(s store.UserStore) {
	if c, ok := s.(io.Closer); ok {
		_ = c.Close()
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the user store selected by data.backend.
func (c *Container) GetStore() store.UserStore {
	return c.store
}

// GetAccounts returns the account service.
func (c *Container) GetAccounts() *account.Service {
	return c.accounts
}

// GetCoordinator returns the transfer coordinator.
func (c *Container) GetCoordinator() *transfer.Coordinator {
	return c.coordinator
}

// GetAggregator returns the statistics aggregator.
func (c *Container) GetAggregator() *stats.Aggregator {
	return c.aggregator
}

// GetEvaluator returns the alert evaluator.
func (c *Container) GetEvaluator() *alert.Evaluator {
	return c.evaluator
}

// GetExchanger returns the CSV exchanger.
func (c *Container) GetExchanger() *csvexchange.Exchanger {
	return c.exchanger
}

// GetReportGenerator returns the report renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reports
}

// GetService returns the finance service used by the commands.
func (c *Container) GetService() *service.FinanceService {
	return c.service
}

// Close releases the store. It is safe to call more than once.
func (c *Container) Close() error {
	if closer, ok := c.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
