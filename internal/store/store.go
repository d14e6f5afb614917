// Package store persists users and their ledgers to YAML or SQLite.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"fjacquet/finance-manager/internal/fileutils"
	"fjacquet/finance-manager/internal/ledger"
	"fjacquet/finance-manager/internal/logging"
	"fjacquet/finance-manager/internal/models"
	"fjacquet/finance-manager/internal/validation"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FormatVersion is written to every file and checked on load.
const FormatVersion = 1

// UserRecord is the persisted form of one account.
type UserRecord struct {
	Username     string
	PasswordHash string
	Ledger       ledger.Snapshot
}

// UserStore loads and saves the full user set.
type UserStore interface {
	Load() map[string]UserRecord
	Save(records []UserRecord) error
}

// FileStore keeps the user set in a single YAML file.
type FileStore struct {
	path   string
	logger logging.Logger
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string, logger logging.Logger) *FileStore {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &FileStore{path: path, logger: logger.WithField(logging.FieldFile, path)}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads every user. A missing, unreadable or corrupt file yields an
// empty set; the problem is logged, never returned.
func (s *FileStore) Load() map[string]UserRecord {
	records := make(map[string]UserRecord)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("User file not found, starting empty")
		} else {
			s.logger.WithError(err).Warn("Failed to read user file, starting empty")
		}
		return records
	}

	if info, err := os.Stat(s.path); err == nil {
		if err := validation.FilePermissions(info.Mode()); err != nil {
			s.logger.Warn("User file is accessible by other users",
				logging.Field{Key: logging.FieldFile, Value: s.path},
				logging.Field{Key: logging.FieldError, Value: err.Error()})
		}
	}

	var file fileDTO
	if err := yaml.Unmarshal(data, &file); err != nil {
		s.logger.WithError(err).Warn("Failed to parse user file, starting empty")
		return records
	}
	if file.Version > FormatVersion {
		s.logger.Warn("User file has a newer format, starting empty",
			logging.Field{Key: "version", Value: file.Version})
		return records
	}

	for _, u := range file.Users {
		rec, err := u.toRecord()
		if err != nil {
			s.logger.WithError(err).Warn("Skipping corrupt user entry",
				logging.Field{Key: logging.FieldOwner, Value: u.Username})
			continue
		}
		if _, dup := records[rec.Username]; dup {
			s.logger.Warn("Skipping duplicate user entry",
				logging.Field{Key: logging.FieldOwner, Value: rec.Username})
			continue
		}
		records[rec.Username] = rec
	}

	s.logger.Debug("Users loaded", logging.Field{Key: logging.FieldCount, Value: len(records)})
	return records
}

// Save writes every user atomically: the data goes to a temporary file in
// the same directory which then replaces the target.
func (s *FileStore) Save(records []UserRecord) error {
	sorted := append([]UserRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Username < sorted[j].Username })

	file := fileDTO{Version: FormatVersion, Users: make([]userDTO, 0, len(sorted))}
	for _, rec := range sorted {
		file.Users = append(file.Users, fromRecord(rec))
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("error marshaling users: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := fileutils.EnsureDirectoryExists(dir); err != nil {
		return fmt.Errorf("error creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once renamed
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("error writing users: %w", err)
	}
	if err := tmp.Chmod(models.PermissionDataFile); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("error setting file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("error replacing user file: %w", err)
	}

	s.logger.Debug("Users saved", logging.Field{Key: logging.FieldCount, Value: len(sorted)})
	return nil
}

type fileDTO struct {
	Version int       `yaml:"version"`
	Users   []userDTO `yaml:"users"`
}

type userDTO struct {
	Username     string           `yaml:"username"`
	PasswordHash string           `yaml:"password_hash"`
	Categories   []string         `yaml:"categories"`
	Transactions []transactionDTO `yaml:"transactions"`
	Budgets      []budgetDTO      `yaml:"budgets"`
}

type transactionDTO struct {
	ID          string `yaml:"id"`
	Type        string `yaml:"type"`
	Category    string `yaml:"category"`
	Amount      string `yaml:"amount"`
	Date        string `yaml:"date"`
	Description string `yaml:"description,omitempty"`
}

type budgetDTO struct {
	Category         string `yaml:"category"`
	Limit            string `yaml:"limit"`
	Spent            string `yaml:"spent"`
	WarningThreshold string `yaml:"warning_threshold"`
}

func fromRecord(rec UserRecord) userDTO {
	u := userDTO{
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		Categories:   append([]string(nil), rec.Ledger.Categories...),
		Transactions: make([]transactionDTO, 0, len(rec.Ledger.Transactions)),
		Budgets:      make([]budgetDTO, 0, len(rec.Ledger.Budgets)),
	}
	for _, tx := range rec.Ledger.Transactions {
		u.Transactions = append(u.Transactions, transactionDTO{
			ID:          tx.ID,
			Type:        string(tx.Type),
			Category:    tx.Category,
			Amount:      models.FormatAmount(tx.Amount),
			Date:        tx.Date.Format(time.RFC3339Nano),
			Description: tx.Description,
		})
	}
	for _, b := range rec.Ledger.Budgets {
		u.Budgets = append(u.Budgets, budgetDTO{
			Category:         b.Category,
			Limit:            models.FormatAmount(b.Limit),
			Spent:            models.FormatAmount(b.CurrentSpending),
			WarningThreshold: b.WarningThreshold.String(),
		})
	}
	return u
}

func (u userDTO) toRecord() (UserRecord, error) {
	if u.Username == "" {
		return UserRecord{}, fmt.Errorf("entry without username")
	}

	snap := ledger.Snapshot{
		Owner:        u.Username,
		Categories:   append([]string(nil), u.Categories...),
		Transactions: make([]models.Transaction, 0, len(u.Transactions)),
		Budgets:      make([]models.Budget, 0, len(u.Budgets)),
	}
	for _, t := range u.Transactions {
		typ, ok := models.ParseTransactionType(t.Type)
		if !ok {
			return UserRecord{}, fmt.Errorf("transaction %s: unknown type '%s'", t.ID, t.Type)
		}
		amount, err := decimal.NewFromString(t.Amount)
		if err != nil {
			return UserRecord{}, fmt.Errorf("transaction %s: invalid amount: %w", t.ID, err)
		}
		date, err := time.Parse(time.RFC3339Nano, t.Date)
		if err != nil {
			return UserRecord{}, fmt.Errorf("transaction %s: invalid date: %w", t.ID, err)
		}
		snap.Transactions = append(snap.Transactions, models.Transaction{
			ID:          t.ID,
			Amount:      amount,
			Type:        typ,
			Category:    t.Category,
			Date:        date,
			Description: t.Description,
		})
	}
	for _, b := range u.Budgets {
		limit, err := decimal.NewFromString(b.Limit)
		if err != nil {
			return UserRecord{}, fmt.Errorf("budget %s: invalid limit: %w", b.Category, err)
		}
		spent, err := decimal.NewFromString(b.Spent)
		if err != nil {
			return UserRecord{}, fmt.Errorf("budget %s: invalid spent: %w", b.Category, err)
		}
		threshold := decimal.Zero
		if b.WarningThreshold != "" {
			if threshold, err = decimal.NewFromString(b.WarningThreshold); err != nil {
				return UserRecord{}, fmt.Errorf("budget %s: invalid warning threshold: %w", b.Category, err)
			}
		}
		snap.Budgets = append(snap.Budgets, models.Budget{
			Category:         b.Category,
			Limit:            limit,
			CurrentSpending:  spent,
			WarningThreshold: threshold,
		})
	}

	return UserRecord{Username: u.Username, PasswordHash: u.PasswordHash, Ledger: snap}, nil
}
