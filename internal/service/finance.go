// Package service is the entry point used by the CLI. It validates user
// input before handing it to the ledger, transfer, statistics and alert
// components, and bridges the user registry to the persistent store.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fjacquet/finance-manager/internal/account"
	"fjacquet/finance-manager/internal/alert"
	"fjacquet/finance-manager/internal/csvexchange"
	"fjacquet/finance-manager/internal/logging"
	"fjacquet/finance-manager/internal/models"
	"fjacquet/finance-manager/internal/stats"
	"fjacquet/finance-manager/internal/store"
	"fjacquet/finance-manager/internal/transfer"
	"fjacquet/finance-manager/internal/validation"
	"fjacquet/finance-manager/internal/walleterror"

	"github.com/shopspring/decimal"
)

// Dependencies groups the collaborators of a FinanceService.
type Dependencies struct {
	Accounts    *account.Service
	Store       store.UserStore
	Coordinator *transfer.Coordinator
	Aggregator  *stats.Aggregator
	Evaluator   *alert.Evaluator
	Exchanger   *csvexchange.Exchanger
	Logger      logging.Logger
}

// TransactionInput is the raw user input for a new income or expense.
type TransactionInput struct {
	Amount      string
	Category    string
	Description string
	// Date uses the "02.01.2006 15:04" layout. Empty means now.
	Date string
}

// FinanceService implements the user-facing operations.
type FinanceService struct {
	accounts    *account.Service
	store       store.UserStore
	coordinator *transfer.Coordinator
	aggregator  *stats.Aggregator
	evaluator   *alert.Evaluator
	exchanger   *csvexchange.Exchanger
	logger      logging.Logger
}

// NewFinanceService creates the service. Accounts and Store are required;
// the remaining collaborators get defaults when nil.
func NewFinanceService(deps Dependencies) (*FinanceService, error) {
	if deps.Accounts == nil {
		return nil, fmt.Errorf("account service cannot be nil")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("user store cannot be nil")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	s := &FinanceService{
		accounts:    deps.Accounts,
		store:       deps.Store,
		coordinator: deps.Coordinator,
		aggregator:  deps.Aggregator,
		evaluator:   deps.Evaluator,
		exchanger:   deps.Exchanger,
		logger:      logger.WithField(logging.FieldComponent, "service"),
	}
	if s.coordinator == nil {
		s.coordinator = transfer.NewCoordinator(logger, transfer.DefaultLockTimeout)
	}
	if s.aggregator == nil {
		s.aggregator = stats.NewAggregator(logger)
	}
	if s.evaluator == nil {
		s.evaluator = alert.NewEvaluator(models.DefaultLowBalanceThreshold)
	}
	if s.exchanger == nil {
		s.exchanger = csvexchange.NewExchanger(csvexchange.DefaultDelimiter, logger)
	}
	return s, nil
}

// LoadUsers restores every stored user into the registry and returns how
// many were restored. Entries that cannot be restored are skipped.
func (s *FinanceService) LoadUsers() int {
	restored := 0
	for name, rec := range s.store.Load() {
		if _, err := s.accounts.Restore(name, rec.PasswordHash, rec.Ledger); err != nil {
			s.logger.WithError(err).Warn("Skipping stored user",
				logging.Field{Key: logging.FieldOwner, Value: name})
			continue
		}
		restored++
	}
	s.logger.Debug("Users restored", logging.Field{Key: logging.FieldCount, Value: restored})
	return restored
}

// SaveUsers persists the whole registry. The error is meant to be reported
// to the user; in-memory state stays valid either way.
func (s *FinanceService) SaveUsers() error {
	users := s.accounts.Registry().Users()
	records := make([]store.UserRecord, 0, len(users))
	for _, u := range users {
		records = append(records, store.UserRecord{
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Ledger:       u.Ledger.Snapshot(),
		})
	}
	if err := s.store.Save(records); err != nil {
		s.logger.WithError(err).Error("Failed to save users")
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

// Register creates a new account.
func (s *FinanceService) Register(username, password, confirm string) (*account.User, error) {
	return s.accounts.Register(username, password, confirm)
}

// Login authenticates and returns the user.
func (s *FinanceService) Login(username, password string) (*account.User, error) {
	return s.accounts.Authenticate(username, password)
}

// ChangePassword replaces the password of username.
func (s *FinanceService) ChangePassword(username, oldPassword, newPassword, confirm string) error {
	return s.accounts.ChangePassword(username, oldPassword, newPassword, confirm)
}

// AddIncome records an income entry.
func (s *FinanceService) AddIncome(u *account.User, in TransactionInput) (models.Transaction, error) {
	return s.addTransaction(u, models.TransactionTypeIncome, in)
}

// AddExpense records an expense entry and updates the category budget.
func (s *FinanceService) AddExpense(u *account.User, in TransactionInput) (models.Transaction, error) {
	return s.addTransaction(u, models.TransactionTypeExpense, in)
}

func (s *FinanceService) addTransaction(u *account.User, typ models.TransactionType, in TransactionInput) (models.Transaction, error) {
	if err := requireUser(u); err != nil {
		return models.Transaction{}, err
	}

	b := models.NewTransactionBuilder().
		WithAmountFromString(in.Amount).
		WithType(typ).
		WithCategory(in.Category).
		WithDescription(strings.TrimSpace(in.Description))
	if strings.TrimSpace(in.Date) != "" {
		b = b.WithDateFromString(in.Date)
	}
	tx, err := b.Build()
	if err != nil {
		return models.Transaction{}, err
	}

	u.Ledger.AddTransaction(tx)
	s.logger.Info("Transaction added",
		logging.Field{Key: logging.FieldOwner, Value: u.Username},
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: logging.FieldCategory, Value: tx.Category},
		logging.Field{Key: logging.FieldAmount, Value: models.FormatAmount(tx.Amount)})
	return tx, nil
}

// RemoveTransaction deletes the entry with the given id. Removing an
// unknown id is not an error; the result reports whether anything changed.
func (s *FinanceService) RemoveTransaction(u *account.User, id string) (bool, error) {
	if err := requireUser(u); err != nil {
		return false, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return false, walleterror.NewValidationError("id", "cannot be empty")
	}
	removed := u.Ledger.RemoveTransaction(id)
	if removed {
		s.logger.Info("Transaction removed",
			logging.Field{Key: logging.FieldOwner, Value: u.Username},
			logging.Field{Key: logging.FieldTransactionID, Value: id})
	}
	return removed, nil
}

// AddCategory registers a category name.
func (s *FinanceService) AddCategory(u *account.User, name string) error {
	if err := requireUser(u); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return walleterror.NewValidationError("category", "cannot be empty")
	}
	u.Ledger.AddCategory(name)
	return nil
}

// RemoveCategory deletes a category and its budget. Categories still used
// by a transaction are kept.
func (s *FinanceService) RemoveCategory(u *account.User, name string) error {
	if err := requireUser(u); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if !u.Ledger.HasCategory(name) {
		return &walleterror.CategoryNotFoundError{Category: name}
	}
	if !u.Ledger.RemoveCategory(name) {
		return walleterror.NewValidationError("category", fmt.Sprintf("'%s' is used by existing transactions", name))
	}
	return nil
}

// SetBudget installs a budget for category.
func (s *FinanceService) SetBudget(u *account.User, category, limit string) error {
	if err := requireUser(u); err != nil {
		return err
	}
	amount, err := parseLimit(limit)
	if err != nil {
		return err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return walleterror.NewValidationError("category", "cannot be empty")
	}
	return u.Ledger.SetBudget(category, amount)
}

// EditBudget changes the limit of an existing budget.
func (s *FinanceService) EditBudget(u *account.User, category, limit string) error {
	if err := requireUser(u); err != nil {
		return err
	}
	amount, err := parseLimit(limit)
	if err != nil {
		return err
	}
	return u.Ledger.EditBudget(strings.TrimSpace(category), amount)
}

// RemoveBudget deletes the budget of category.
func (s *FinanceService) RemoveBudget(u *account.User, category string) error {
	if err := requireUser(u); err != nil {
		return err
	}
	if !u.Ledger.RemoveBudget(strings.TrimSpace(category)) {
		return &walleterror.CategoryNotFoundError{Category: category, Reason: "no budget set"}
	}
	return nil
}

// ResetBudget zeroes the spending of a budget.
func (s *FinanceService) ResetBudget(u *account.User, category string) error {
	if err := requireUser(u); err != nil {
		return err
	}
	return u.Ledger.ResetBudget(strings.TrimSpace(category))
}

// Transfer moves amount from u to the user named recipient.
func (s *FinanceService) Transfer(ctx context.Context, u *account.User, recipient, amount, description string) (transfer.Result, error) {
	if err := requireUser(u); err != nil {
		return transfer.Result{}, err
	}
	value, err := models.ParseAmount(amount)
	if err != nil {
		return transfer.Result{}, walleterror.NewValidationError("amount", err.Error())
	}
	to, ok := s.accounts.Lookup(strings.TrimSpace(recipient))
	if !ok {
		return transfer.Result{}, walleterror.NewValidationError("recipient", fmt.Sprintf("user '%s' not found", recipient))
	}
	return s.coordinator.Transfer(ctx, u.Ledger, to.Ledger, value, strings.TrimSpace(description))
}

// Statistics summarises u's transactions within period.
func (s *FinanceService) Statistics(u *account.User, period stats.Period) (stats.StatisticsResult, error) {
	if err := requireUser(u); err != nil {
		return stats.StatisticsResult{}, err
	}
	return s.aggregator.GetStatistics(u.Ledger, period)
}

// CombinedStatistics summarises several users' transactions within period.
// Repeated names are counted once.
func (s *FinanceService) CombinedStatistics(usernames []string, period stats.Period) (stats.CombinedStatistics, error) {
	sources := make([]stats.Source, 0, len(usernames))
	seen := make(map[string]struct{}, len(usernames))
	for _, name := range usernames {
		name = strings.TrimSpace(name)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		u, ok := s.accounts.Lookup(name)
		if !ok {
			return stats.CombinedStatistics{}, walleterror.NewValidationError("user", fmt.Sprintf("user '%s' not found", name))
		}
		sources = append(sources, u.Ledger)
	}
	return s.aggregator.GetCombinedStatistics(sources, period)
}

// TransactionsInPeriod lists u's entries within period, newest first.
func (s *FinanceService) TransactionsInPeriod(u *account.User, period stats.Period) ([]models.Transaction, error) {
	if err := requireUser(u); err != nil {
		return nil, err
	}
	return s.aggregator.TransactionsInPeriod(u.Ledger, period)
}

// CategoryStatistics returns all-time figures for categories. An empty
// list means every category known to the ledger.
func (s *FinanceService) CategoryStatistics(u *account.User, categories []string) ([]stats.CategoryStatsResult, error) {
	if err := requireUser(u); err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		categories = u.Ledger.Categories()
	}
	return s.aggregator.GetCategoryStatistics(u.Ledger, categories)
}

// FullReport builds the complete report for period.
func (s *FinanceService) FullReport(u *account.User, period stats.Period) (stats.FullReport, error) {
	if err := requireUser(u); err != nil {
		return stats.FullReport{}, err
	}
	return s.aggregator.GenerateFullReport(u.Ledger, period)
}

// Alerts evaluates budget and balance alerts for u.
func (s *FinanceService) Alerts(u *account.User) ([]alert.Alert, error) {
	if err := requireUser(u); err != nil {
		return nil, err
	}
	return s.evaluator.Evaluate(u.Ledger), nil
}

// Export writes u's ledger to a CSV file and returns the path written.
func (s *FinanceService) Export(u *account.User, path string) (string, error) {
	if err := requireUser(u); err != nil {
		return "", err
	}
	if strings.TrimSpace(path) == "" {
		return "", walleterror.NewValidationError("file", "cannot be empty")
	}
	return s.exchanger.ExportFile(path, u.Ledger.Snapshot())
}

// Import reads a CSV file into u's ledger. Either every valid row is
// applied or none is.
func (s *FinanceService) Import(ctx context.Context, u *account.User, path string) (csvexchange.ImportResult, error) {
	if err := requireUser(u); err != nil {
		return csvexchange.ImportResult{}, err
	}
	if err := validation.ImportFile(csvexchange.WithCSVExtension(path)); err != nil {
		return csvexchange.ImportResult{}, err
	}
	return s.exchanger.ImportFile(ctx, path, u.Ledger)
}

// IsUserError reports whether err stems from user input rather than from
// the system.
func IsUserError(err error) bool {
	var (
		validation *walleterror.ValidationError
		auth       *walleterror.AuthorizationError
		notFound   *walleterror.CategoryNotFoundError
		funds      *walleterror.InsufficientFundsError
	)
	return errors.As(err, &validation) || errors.As(err, &auth) ||
		errors.As(err, &notFound) || errors.As(err, &funds)
}

func requireUser(u *account.User) error {
	if u == nil || u.Ledger == nil {
		return &walleterror.AuthorizationError{Reason: "not logged in"}
	}
	return nil
}

func parseLimit(limit string) (decimal.Decimal, error) {
	amount, err := models.ParseAmount(limit)
	if err != nil {
		return decimal.Zero, walleterror.NewValidationError("limit", err.Error())
	}
	return amount, nil
}
