package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fjacquet/finance-manager/internal/alert"
	"fjacquet/finance-manager/internal/logging"
	"fjacquet/finance-manager/internal/stats"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *stats.FullReport {
	d := decimal.RequireFromString
	return &stats.FullReport{
		Owner:         "alice",
		Period:        stats.MonthPeriod(2024, time.March),
		GeneratedAt:   time.Date(2024, time.April, 1, 8, 0, 0, 0, time.UTC),
		TotalIncome:   d("12500"),
		TotalExpenses: d("1380.25"),
		Balance:       d("11119.75"),
		PeriodStats: stats.StatisticsResult{
			TotalIncome:        d("2500"),
			TotalExpenses:      d("380.25"),
			Balance:            d("2119.75"),
			IncomeByCategory:   map[string]decimal.Decimal{"Salary": d("2500")},
			ExpensesByCategory: map[string]decimal.Decimal{"Taxi": d("80.25"), "Food": d("300")},
			TransactionCount:   4,
		},
		Budgets: []stats.BudgetReport{
			{Category: "Food", Limit: d("350"), Spent: d("300"), Remaining: d("50"), Warning: true, PeriodSpent: d("300")},
			{Category: "Taxi", Limit: d("50"), Spent: d("80.25"), Remaining: d("-30.25"), Exceeded: true, PeriodSpent: d("80.25")},
		},
		Analysis: stats.Analysis{
			AverageExpensePerTransaction: d("126.75"),
			TopExpenseCategories:         []stats.CategoryAmount{{Category: "Food", Amount: d("300")}, {Category: "Taxi", Amount: d("80.25")}},
			SavingsRate:                  d("88.96"),
			FinancialHealth:              stats.HealthExcellent,
		},
	}
}

func TestReportGenerator_GenerateReport_Text(t *testing.T) {
	generator := NewReportGenerator(logging.NewMockLogger())

	out, err := generator.GenerateReport(sampleReport(), "text")
	require.NoError(t, err)
	text := string(out)

	for _, want := range []string{
		"Owner: alice",
		"Period: 2024-03-01 - 2024-03-31",
		"Current balance: 11,119.75",
		"Period expenses: 380.25",
		"Savings rate: 89.0%",
		"Financial health: Excellent",
		"Top 2 expense categories:",
	} {
		assert.Contains(t, text, want)
	}
	assert.Less(t, strings.Index(text, "Food:"), strings.Index(text, "Taxi:"))

	var taxiLine string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "Taxi ") {
			taxiLine = line
		}
	}
	assert.Contains(t, taxiLine, "EXCEEDED")
	assert.Contains(t, taxiLine, "-30.25")
}

func TestReportGenerator_GenerateReport_JSON(t *testing.T) {
	generator := NewReportGenerator(nil)

	out, err := generator.GenerateReport(sampleReport(), "json")
	require.NoError(t, err)

	var decoded stats.FullReport
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "alice", decoded.Owner)
	assert.True(t, decimal.RequireFromString("11119.75").Equal(decoded.Balance))
	require.Len(t, decoded.Budgets, 2)
	assert.True(t, decoded.Budgets[1].Exceeded)
	assert.Equal(t, stats.HealthExcellent, decoded.Analysis.FinancialHealth)
}

func TestReportGenerator_GenerateReport_YAML(t *testing.T) {
	generator := NewReportGenerator(nil)

	out, err := generator.GenerateReport(sampleReport(), "YAML")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "alice", decoded["owner"])
	analysis, ok := decoded["analysis"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Excellent", analysis["financial_health"])
}

func TestReportGenerator_UnsupportedFormat(t *testing.T) {
	generator := NewReportGenerator(nil)

	_, err := generator.GenerateReport(sampleReport(), "xml")
	assert.Error(t, err)
	_, err = generator.GenerateAlerts(nil, "pdf")
	assert.Error(t, err)
}

func TestReportGenerator_GenerateAlerts(t *testing.T) {
	generator := NewReportGenerator(nil)

	out, err := generator.GenerateAlerts(nil, "text")
	require.NoError(t, err)
	assert.Equal(t, "No alerts\n", string(out))

	alerts := []alert.Alert{{Type: alert.TypeLowBalance, Amount: decimal.NewFromInt(40), Message: "Low balance: current balance: 40.00"}}
	out, err = generator.GenerateAlerts(alerts, "text")
	require.NoError(t, err)
	assert.Contains(t, string(out), "! Low balance: current balance: 40.00")

	out, err = generator.GenerateAlerts(alerts, "json")
	require.NoError(t, err)
	var decoded []alert.Alert
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, alert.TypeLowBalance, decoded[0].Type)
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"12.5", "12.50"},
		{"1234567.891", "1,234,567.89"},
		{"-1500", "-1,500.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Amount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestReportGenerator_GenerateStatistics(t *testing.T) {
	generator := NewReportGenerator(nil)
	res := sampleReport().PeriodStats
	res.Owner = "alice"
	res.Period = stats.MonthPeriod(2024, time.March)

	out, err := generator.GenerateStatistics(res, "text")
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "Statistics for alice")
	assert.Contains(t, text, "Transactions: 4")
	assert.Contains(t, text, "Balance: 2,119.75")
	assert.Contains(t, text, "EXPENSES BY CATEGORY")

	out, err = generator.GenerateStatistics(res, "json")
	require.NoError(t, err)
	var decoded stats.StatisticsResult
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, 4, decoded.TransactionCount)

	_, err = generator.GenerateStatistics(res, "xml")
	assert.Error(t, err)
}

func TestReportGenerator_GenerateCategoryStatistics(t *testing.T) {
	generator := NewReportGenerator(nil)
	d := decimal.RequireFromString
	results := []stats.CategoryStatsResult{
		{Category: "Food", Expenses: d("420"), Balance: d("-420"),
			Budget: &stats.BudgetSummary{Limit: d("400"), Spent: d("420"), Remaining: d("-20"), Exceeded: true}},
		{Category: "Salary", Income: d("3000"), Balance: d("3000")},
	}

	out, err := generator.GenerateCategoryStatistics(results, "text")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Food "))
	assert.Contains(t, lines[1], "(exceeded)")
	assert.Contains(t, lines[2], "3,000.00")

	out, err = generator.GenerateCategoryStatistics(results, "yaml")
	require.NoError(t, err)
	var decoded []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Len(t, decoded, 2)
}
