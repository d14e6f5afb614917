package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"

	"fjacquet/finance-manager/internal/fileutils"
	"fjacquet/finance-manager/internal/logging"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps the user set in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger logging.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path and
// applies pending migrations.
func NewSQLiteStore(path string, logger logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if err := fileutils.EnsureParentExists(path); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(path); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, path: path, logger: logger.WithField(logging.FieldFile, path)}, nil
}

// RunMigrations brings the schema at dbPath up to date on its own
// connection.
func RunMigrations(dbPath string) error {
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads every user. Query failures yield an empty set and a warning.
func (s *SQLiteStore) Load() map[string]UserRecord {
	records := make(map[string]UserRecord)
	users, err := s.loadUsers(context.Background())
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read users from database, starting empty")
		return records
	}

	for _, u := range users {
		rec, err := u.toRecord()
		if err != nil {
			s.logger.WithError(err).Warn("Skipping corrupt user entry",
				logging.Field{Key: logging.FieldOwner, Value: u.Username})
			continue
		}
		records[rec.Username] = rec
	}
	s.logger.Debug("Users loaded", logging.Field{Key: logging.FieldCount, Value: len(records)})
	return records
}

func (s *SQLiteStore) loadUsers(ctx context.Context) ([]*userDTO, error) {
	byName := make(map[string]*userDTO)
	var order []string

	rows, err := s.db.QueryContext(ctx, `SELECT username, password_hash FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	for rows.Next() {
		u := &userDTO{}
		if err := rows.Scan(&u.Username, &u.PasswordHash); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan user: %w", err)
		}
		byName[u.Username] = u
		order = append(order, u.Username)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT username, name FROM categories ORDER BY username, name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	for rows.Next() {
		var owner, name string
		if err := rows.Scan(&owner, &name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if u, ok := byName[owner]; ok {
			u.Categories = append(u.Categories, name)
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT username, id, type, category, amount, date, description FROM transactions ORDER BY username, seq`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	for rows.Next() {
		var owner string
		var t transactionDTO
		if err := rows.Scan(&owner, &t.ID, &t.Type, &t.Category, &t.Amount, &t.Date, &t.Description); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if u, ok := byName[owner]; ok {
			u.Transactions = append(u.Transactions, t)
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT username, category, limit_amount, spent, warning_threshold FROM budgets ORDER BY username, category`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	for rows.Next() {
		var owner string
		var b budgetDTO
		if err := rows.Scan(&owner, &b.Category, &b.Limit, &b.Spent, &b.WarningThreshold); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if u, ok := byName[owner]; ok {
			u.Budgets = append(u.Budgets, b)
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	out := make([]*userDTO, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate rows: %w", err)
	}
	return rows.Close()
}

// Save replaces the stored user set in a single database transaction.
func (s *SQLiteStore) Save(records []UserRecord) error {
	ctx := context.Background()
	sorted := append([]UserRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Username < sorted[j].Username })

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// no-op after commit
		_ = dbTx.Rollback()
	}()

	for _, table := range []string{"budgets", "transactions", "categories", "users"} {
		if _, err := dbTx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, rec := range sorted {
		u := fromRecord(rec)
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO users (username, password_hash) VALUES (?, ?)`, u.Username, u.PasswordHash); err != nil {
			return fmt.Errorf("insert user %s: %w", u.Username, err)
		}
		for _, c := range u.Categories {
			if _, err := dbTx.ExecContext(ctx,
				`INSERT INTO categories (username, name) VALUES (?, ?)`, u.Username, c); err != nil {
				return fmt.Errorf("insert category %s: %w", c, err)
			}
		}
		for seq, t := range u.Transactions {
			if _, err := dbTx.ExecContext(ctx,
				`INSERT INTO transactions (username, seq, id, type, category, amount, date, description)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				u.Username, seq, t.ID, t.Type, t.Category, t.Amount, t.Date, t.Description); err != nil {
				return fmt.Errorf("insert transaction %s: %w", t.ID, err)
			}
		}
		for _, b := range u.Budgets {
			if _, err := dbTx.ExecContext(ctx,
				`INSERT INTO budgets (username, category, limit_amount, spent, warning_threshold)
				 VALUES (?, ?, ?, ?, ?)`,
				u.Username, b.Category, b.Limit, b.Spent, b.WarningThreshold); err != nil {
				return fmt.Errorf("insert budget %s: %w", b.Category, err)
			}
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("Users saved", logging.Field{Key: logging.FieldCount, Value: len(sorted)})
	return nil
}
