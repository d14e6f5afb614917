// Package report renders full reports and alert lists as text, JSON or
// YAML.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"fjacquet/finance-manager/internal/alert"
	"fjacquet/finance-manager/internal/logging"
	"fjacquet/finance-manager/internal/stats"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ReportGenerator renders reports in the supported formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &ReportGenerator{
		logger: logger.WithField(logging.FieldComponent, "ReportGenerator"),
	}
}

// GenerateReport renders a full report in the specified format.
func (g *ReportGenerator) GenerateReport(report *stats.FullReport, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return g.generateTextReport(report)
	case FormatJSON:
		return g.marshalJSON(report)
	case FormatYAML:
		return g.marshalYAML(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// GenerateAlerts renders an alert list in the specified format.
func (g *ReportGenerator) GenerateAlerts(alerts []alert.Alert, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		var buf bytes.Buffer
		if len(alerts) == 0 {
			buf.WriteString("No alerts\n")
			return buf.Bytes(), nil
		}
		buf.WriteString("=== ALERTS ===\n")
		for _, a := range alerts {
			fmt.Fprintf(&buf, "! %s\n", a.Message)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return g.marshalJSON(alerts)
	case FormatYAML:
		return g.marshalYAML(alerts)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// GenerateStatistics renders a period summary in the specified format.
func (g *ReportGenerator) GenerateStatistics(res stats.StatisticsResult, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		var buf bytes.Buffer
		if res.Owner != "" {
			fmt.Fprintf(&buf, "Statistics for %s\n", res.Owner)
		}
		fmt.Fprintf(&buf, "Period: %s\n", res.Period)
		fmt.Fprintf(&buf, "Transactions: %d\n", res.TransactionCount)
		fmt.Fprintf(&buf, "Income: %s\n", Amount(res.TotalIncome))
		fmt.Fprintf(&buf, "Expenses: %s\n", Amount(res.TotalExpenses))
		fmt.Fprintf(&buf, "Balance: %s\n", Amount(res.Balance))
		writeCategoryTotals(&buf, "INCOME BY CATEGORY", res.IncomeByCategory)
		writeCategoryTotals(&buf, "EXPENSES BY CATEGORY", res.ExpensesByCategory)
		return buf.Bytes(), nil
	case FormatJSON:
		return g.marshalJSON(res)
	case FormatYAML:
		return g.marshalYAML(res)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// GenerateCategoryStatistics renders per-category figures in the specified
// format.
func (g *ReportGenerator) GenerateCategoryStatistics(results []stats.CategoryStatsResult, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		var buf bytes.Buffer
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Category\tIncome\tExpenses\tBalance\tBudget\tRemaining")
		for _, r := range results {
			limit, remaining := "-", "-"
			if r.Budget != nil {
				limit = Amount(r.Budget.Limit)
				remaining = Amount(r.Budget.Remaining)
				if r.Budget.Exceeded {
					remaining += " (exceeded)"
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Category, Amount(r.Income), Amount(r.Expenses), Amount(r.Balance), limit, remaining)
		}
		if err := tw.Flush(); err != nil {
			return nil, fmt.Errorf("failed to render category statistics: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return g.marshalJSON(results)
	case FormatYAML:
		return g.marshalYAML(results)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) marshalJSON(v interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *ReportGenerator) marshalYAML(v interface{}) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

func (g *ReportGenerator) generateTextReport(r *stats.FullReport) ([]byte, error) {
	var buf bytes.Buffer
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, "FINANCIAL REPORT")
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "Owner: %s\n", r.Owner)
	fmt.Fprintf(&buf, "Period: %s\n", r.Period)
	fmt.Fprintf(&buf, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(&buf, "\n--- OVERVIEW ---")
	fmt.Fprintf(&buf, "Current balance: %s\n", Amount(r.Balance))
	fmt.Fprintf(&buf, "Total income: %s\n", Amount(r.TotalIncome))
	fmt.Fprintf(&buf, "Total expenses: %s\n", Amount(r.TotalExpenses))

	fmt.Fprintln(&buf, "\n--- PERIOD ---")
	fmt.Fprintf(&buf, "Period income: %s\n", Amount(r.PeriodStats.TotalIncome))
	fmt.Fprintf(&buf, "Period expenses: %s\n", Amount(r.PeriodStats.TotalExpenses))
	fmt.Fprintf(&buf, "Period balance: %s\n", Amount(r.PeriodStats.Balance))

	writeCategoryTotals(&buf, "INCOME BY CATEGORY", r.PeriodStats.IncomeByCategory)
	writeCategoryTotals(&buf, "EXPENSES BY CATEGORY", r.PeriodStats.ExpensesByCategory)

	if len(r.Budgets) > 0 {
		fmt.Fprintln(&buf, "\n--- BUDGETS ---")
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Category\tLimit\tSpent\tRemaining\tPeriod spent\tStatus")
		for _, b := range r.Budgets {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				b.Category, Amount(b.Limit), Amount(b.Spent), Amount(b.Remaining),
				Amount(b.PeriodSpent), budgetStatus(b))
		}
		if err := tw.Flush(); err != nil {
			return nil, fmt.Errorf("failed to render budgets: %w", err)
		}
	}

	a := r.Analysis
	fmt.Fprintln(&buf, "\n--- ANALYSIS ---")
	fmt.Fprintf(&buf, "Average expense per transaction: %s\n", Amount(a.AverageExpensePerTransaction))
	fmt.Fprintf(&buf, "Savings rate: %s%%\n", a.SavingsRate.StringFixed(1))
	fmt.Fprintf(&buf, "Financial health: %s\n", a.FinancialHealth)
	if len(a.TopExpenseCategories) > 0 {
		fmt.Fprintf(&buf, "\nTop %d expense categories:\n", len(a.TopExpenseCategories))
		writeAmounts(&buf, a.TopExpenseCategories)
	}
	fmt.Fprintln(&buf, rule)

	g.logger.Debug("Text report rendered", logging.Field{Key: logging.FieldOwner, Value: r.Owner})
	return buf.Bytes(), nil
}

// Amount formats a decimal with thousands grouping and two places.
func Amount(d decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", d.InexactFloat64())
}

func budgetStatus(b stats.BudgetReport) string {
	switch {
	case b.Exceeded:
		return "EXCEEDED"
	case b.Warning:
		return "WARNING"
	default:
		return "OK"
	}
}

func writeCategoryTotals(w io.Writer, title string, totals map[string]decimal.Decimal) {
	if len(totals) == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- %s ---\n", title)
	writeAmounts(w, SortedAmounts(totals))
}

func writeAmounts(w io.Writer, amounts []stats.CategoryAmount) {
	for _, c := range amounts {
		fmt.Fprintf(w, "  %-20s %s\n", c.Category+":", Amount(c.Amount))
	}
}

// SortedAmounts flattens a category map ordered by category name.
func SortedAmounts(totals map[string]decimal.Decimal) []stats.CategoryAmount {
	out := make([]stats.CategoryAmount, 0, len(totals))
	for c, amount := range totals {
		out = append(out, stats.CategoryAmount{Category: c, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
