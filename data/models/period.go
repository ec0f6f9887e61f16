package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period")

const (
	PeriodAll   = "all"
	yearLayout  = "2006"
	monthLayout = "2006-01"
)

// Period is a half open date range [Start, End). A zero Start or End is unbounded.
type Period struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParsePeriod accepts "", "all", a year ("2024") or a calendar month ("2024-03")
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, PeriodAll) {
		return AllTime(), nil
	}

	if t, err := time.Parse(monthLayout, s); err == nil && len(s) == len(monthLayout) {
		return MonthOf(t), nil
	}

	if t, err := time.Parse(yearLayout, s); err == nil && len(s) == len(yearLayout) {
		return YearOf(t), nil
	}

	return Period{}, fmt.Errorf("%w: %q, expected YYYY, YYYY-MM or %s", ErrInvalidPeriod, s, PeriodAll)
}

func AllTime() Period {
	return Period{Label: PeriodAll}
}

func MonthOf(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{Label: start.Format(monthLayout), Start: start, End: start.AddDate(0, 1, 0)}
}

func YearOf(t time.Time) Period {
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return Period{Label: start.Format(yearLayout), Start: start, End: start.AddDate(1, 0, 0)}
}

func (p Period) IsAll() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

func (p Period) Contains(t time.Time) bool {
	if !p.Start.IsZero() && t.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && !t.Before(p.End) {
		return false
	}
	return true
}

func (p Period) String() string {
	return p.Label
}
