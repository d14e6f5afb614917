// Package csvexchange exports a ledger to the semicolon-delimited CSV
// layout and imports it back.
//
// The file holds two sections. Transactions come first under the header
// "type;date;category;amount;description", followed by an empty line, a
// "Budgets:" marker and the budget rows under "category;limit;spent;remaining".
package csvexchange

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/finance-manager/internal/budget"
	"fjacquet/finance-manager/internal/fileutils"
	"fjacquet/finance-manager/internal/ledger"
	"fjacquet/finance-manager/internal/logging"
	"fjacquet/finance-manager/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// BudgetsMarker separates the transaction section from the budget section.
const BudgetsMarker = "Budgets:"

// DefaultDelimiter is used when none is configured.
const DefaultDelimiter = ';'

type transactionRow struct {
	Type        string `csv:"type"`
	Date        string `csv:"date"`
	Category    string `csv:"category"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
}

type budgetRow struct {
	Category  string `csv:"category"`
	Limit     string `csv:"limit"`
	Spent     string `csv:"spent"`
	Remaining string `csv:"remaining"`
}

// Target receives imported data in a single locked update.
type Target interface {
	Update(ctx context.Context, fn func(tx *ledger.Tx) error) error
}

// ImportResult counts what an import applied and skipped.
type ImportResult struct {
	Transactions int
	Budgets      int
	Skipped      int
}

// Exchanger reads and writes ledger CSV files.
type Exchanger struct {
	delimiter rune
	logger    logging.Logger
}

// NewExchanger creates an Exchanger. A zero delimiter means DefaultDelimiter.
func NewExchanger(delimiter rune, logger logging.Logger) *Exchanger {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Exchanger{delimiter: delimiter, logger: logger}
}

func (e *Exchanger) newWriter(w io.Writer) *gocsv.SafeCSVWriter {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.delimiter
	return gocsv.NewSafeCSVWriter(csvWriter)
}

func (e *Exchanger) newReader(r io.Reader) gocsv.CSVReader {
	csvReader := csv.NewReader(r)
	csvReader.Comma = e.delimiter
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true
	return csvReader
}

// Export writes both sections of snap to w.
func (e *Exchanger) Export(w io.Writer, snap ledger.Snapshot) error {
	txRows := make([]*transactionRow, 0, len(snap.Transactions))
	for _, tx := range snap.Transactions {
		txRows = append(txRows, &transactionRow{
			Type:        tx.Type.Label(),
			Date:        tx.FormattedDate(),
			Category:    tx.Category,
			Amount:      models.FormatAmount(tx.Amount),
			Description: tx.Description,
		})
	}
	if err := gocsv.MarshalCSV(txRows, e.newWriter(w)); err != nil {
		return fmt.Errorf("error writing transactions: %w", err)
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", BudgetsMarker); err != nil {
		return fmt.Errorf("error writing budgets marker: %w", err)
	}

	budgetRows := make([]*budgetRow, 0, len(snap.Budgets))
	for _, b := range snap.Budgets {
		budgetRows = append(budgetRows, &budgetRow{
			Category:  b.Category,
			Limit:     models.FormatAmount(b.Limit),
			Spent:     models.FormatAmount(b.CurrentSpending),
			Remaining: models.FormatAmount(budget.Remaining(b)),
		})
	}
	if err := gocsv.MarshalCSV(budgetRows, e.newWriter(w)); err != nil {
		return fmt.Errorf("error writing budgets: %w", err)
	}

	e.logger.Info("Ledger exported",
		logging.Field{Key: logging.FieldOwner, Value: snap.Owner},
		logging.Field{Key: logging.FieldCount, Value: len(txRows)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(e.delimiter)})
	return nil
}

// ExportFile writes snap to path, creating the parent directory. A missing
// .csv extension is appended; the final path is returned.
func (e *Exchanger) ExportFile(path string, snap ledger.Snapshot) (string, error) {
	path = WithCSVExtension(path)
	if err := fileutils.EnsureParentExists(path); err != nil {
		return "", fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionReportFile)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := e.Export(file, snap); err != nil {
		return "", err
	}
	return path, nil
}

// Import parses r and applies every valid row to target in one update.
// Transactions get fresh ids. Budgets keep their spent figure verbatim.
// Malformed rows are logged and skipped.
func (e *Exchanger) Import(ctx context.Context, r io.Reader, target Target) (ImportResult, error) {
	txSection, budgetSection, err := splitSections(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("error reading CSV: %w", err)
	}

	var result ImportResult
	txs, skipped, err := e.parseTransactions(txSection)
	if err != nil {
		return ImportResult{}, err
	}
	result.Skipped += skipped

	budgets, skipped, err := e.parseBudgets(budgetSection)
	if err != nil {
		return ImportResult{}, err
	}
	result.Skipped += skipped

	err = target.Update(ctx, func(tx *ledger.Tx) error {
		for _, t := range txs {
			tx.AddTransaction(t)
		}
		for _, b := range budgets {
			if err := tx.ImportBudget(b.Category, b.Limit, b.CurrentSpending); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("error applying import: %w", err)
	}

	result.Transactions = len(txs)
	result.Budgets = len(budgets)
	e.logger.Info("Ledger imported",
		logging.Field{Key: logging.FieldCount, Value: result.Transactions},
		logging.Field{Key: "budgets", Value: result.Budgets},
		logging.Field{Key: "skipped", Value: result.Skipped})
	return result, nil
}

// ImportFile opens path (appending .csv when missing) and imports it.
func (e *Exchanger) ImportFile(ctx context.Context, path string, target Target) (ImportResult, error) {
	path = WithCSVExtension(path)
	file, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	e.logger.Debug("Importing CSV file", logging.Field{Key: logging.FieldFile, Value: path})
	return e.Import(ctx, file, target)
}

// WithCSVExtension appends .csv unless path already ends with it.
func WithCSVExtension(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return path
	}
	return path + ".csv"
}

func (e *Exchanger) parseTransactions(section string) ([]models.Transaction, int, error) {
	if section == "" {
		return nil, 0, nil
	}
	var rows []*transactionRow
	if err := gocsv.UnmarshalCSV(e.newReader(strings.NewReader(section)), &rows); err != nil {
		return nil, 0, fmt.Errorf("error parsing transactions: %w", err)
	}

	txs := make([]models.Transaction, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		tx, err := row.toTransaction()
		if err != nil {
			e.logger.WithError(err).Warn("Skipping malformed transaction row",
				logging.Field{Key: "row", Value: i + 1})
			skipped++
			continue
		}
		txs = append(txs, tx)
	}
	return txs, skipped, nil
}

func (e *Exchanger) parseBudgets(section string) ([]models.Budget, int, error) {
	if section == "" {
		return nil, 0, nil
	}
	var rows []*budgetRow
	if err := gocsv.UnmarshalCSV(e.newReader(strings.NewReader(section)), &rows); err != nil {
		return nil, 0, fmt.Errorf("error parsing budgets: %w", err)
	}

	budgets := make([]models.Budget, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		b, err := row.toBudget()
		if err != nil {
			e.logger.WithError(err).Warn("Skipping malformed budget row",
				logging.Field{Key: "row", Value: i + 1})
			skipped++
			continue
		}
		budgets = append(budgets, b)
	}
	return budgets, skipped, nil
}

func (r *transactionRow) toTransaction() (models.Transaction, error) {
	typ, ok := models.ParseTransactionType(strings.TrimSpace(r.Type))
	if !ok {
		return models.Transaction{}, fmt.Errorf("unknown transaction type '%s'", r.Type)
	}
	return models.NewTransactionBuilder().
		WithType(typ).
		WithDateFromString(r.Date).
		WithCategory(r.Category).
		WithAmountFromString(r.Amount).
		WithDescription(r.Description).
		Build()
}

func (r *budgetRow) toBudget() (models.Budget, error) {
	category := strings.TrimSpace(r.Category)
	if category == "" {
		return models.Budget{}, fmt.Errorf("budget without category")
	}
	limit, err := models.ParseAmount(r.Limit)
	if err != nil {
		return models.Budget{}, fmt.Errorf("budget %s: %w", category, err)
	}
	spent, err := models.ParseAmount(r.Spent)
	if err != nil {
		return models.Budget{}, fmt.Errorf("budget %s: %w", category, err)
	}
	if !limit.IsPositive() || spent.IsNegative() {
		return models.Budget{}, fmt.Errorf("budget %s: limit must be positive and spent non-negative", category)
	}
	return models.Budget{Category: category, Limit: limit, CurrentSpending: spent, WarningThreshold: decimal.Zero}, nil
}

// splitSections separates the transaction and budget sections. Blank
// lines and the marker count only outside quoted fields, so multi-line
// descriptions survive. Lines have no length limit.
func splitSections(r io.Reader) (string, string, error) {
	var txSection, budgetSection strings.Builder
	section := &txSection
	inQuotes := false

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", "", err
		}
		if line != "" {
			text := strings.TrimRight(line, "\r\n")
			switch trimmed := strings.TrimSpace(text); {
			case inQuotes:
				section.WriteString(text + "\n")
			case trimmed == "":
			case trimmed == BudgetsMarker:
				section = &budgetSection
			default:
				section.WriteString(text + "\n")
			}
			// escaped quotes come in pairs and leave the state unchanged
			if strings.Count(text, `"`)%2 == 1 {
				inQuotes = !inQuotes
			}
		}
		if err != nil {
			break
		}
	}
	return txSection.String(), budgetSection.String(), nil
}
