package root

import (
	"time"

	"fjacquet/finance-manager/internal/dateutils"
	"fjacquet/finance-manager/internal/stats"
	"fjacquet/finance-manager/internal/walleterror"

	"github.com/spf13/cobra"
)

// PeriodFlags selects a reporting period with --from/--to or --month.
type PeriodFlags struct {
	From  string
	To    string
	Month string

	now func() time.Time
}

// Bind registers the period flags on cmd.
func (p *PeriodFlags) Bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.From, "from", "", "Start date (YYYY-MM-DD or DD.MM.YYYY)")
	cmd.Flags().StringVar(&p.To, "to", "", "End date, inclusive (default: today)")
	cmd.Flags().StringVar(&p.Month, "month", "", "Whole month as YYYY-MM")
	cmd.MarkFlagsMutuallyExclusive("month", "from")
	cmd.MarkFlagsMutuallyExclusive("month", "to")
}

// Resolve turns the flags into a period. Without any flag it is the
// current month; --to alone reaches back to the first transaction.
func (p *PeriodFlags) Resolve() (stats.Period, error) {
	now := time.Now
	if p.now != nil {
		now = p.now
	}

	if p.Month != "" {
		year, month, err := dateutils.ParseMonth(p.Month)
		if err != nil {
			return stats.Period{}, walleterror.NewValidationError("month", err.Error())
		}
		return stats.MonthPeriod(year, month), nil
	}

	if p.From == "" && p.To == "" {
		today := now()
		return stats.MonthPeriod(today.Year(), today.Month()), nil
	}

	var start time.Time
	end := now()
	if p.From != "" {
		t, _, err := dateutils.ParseDate(p.From)
		if err != nil {
			return stats.Period{}, walleterror.NewValidationError("from", err.Error())
		}
		start = t
	}
	if p.To != "" {
		t, _, err := dateutils.ParseDate(p.To)
		if err != nil {
			return stats.Period{}, walleterror.NewValidationError("to", err.Error())
		}
		end = t
	}
	return stats.NewPeriod(start, end)
}
