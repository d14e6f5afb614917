package stats

import (
	"fmt"
	"time"

	"fjacquet/finance-manager/internal/dateutils"
	"fjacquet/finance-manager/internal/walleterror"
)

// Period is an inclusive range of calendar days.
type Period struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// NewPeriod truncates both bounds to their calendar day and rejects a start
// that falls after the end.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: dateutils.TruncateDay(start), End: dateutils.TruncateDay(end)}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// MonthPeriod covers every day of the given month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{
		Start: dateutils.StartOfMonth(year, month),
		End:   dateutils.EndOfMonth(year, month),
	}
}

// Validate reports a start after the end as a ValidationError.
func (p Period) Validate() error {
	if dateutils.CompareDates(p.Start, p.End) > 0 {
		return walleterror.NewValidationError("period",
			fmt.Sprintf("start %s is after end %s", dateutils.ToISODate(p.Start), dateutils.ToISODate(p.End)))
	}
	return nil
}

// Contains reports whether t's calendar day lies within the period.
func (p Period) Contains(t time.Time) bool {
	return dateutils.InDayRange(t, p.Start, p.End)
}

func (p Period) String() string {
	return dateutils.ToISODate(p.Start) + " - " + dateutils.ToISODate(p.End)
}
