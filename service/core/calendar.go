package core

import (
	"log"
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers whether an exchange was open on a date
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// GetTradingCalendar loads the calendar for an exchange MIC (ie XNSE, XNYS). An unknown
// MIC falls back to a Monday to Friday week.
func GetTradingCalendar(mic string) *TradingCalendar {
	cal := calendar.GetCalendar(strings.ToLower(mic))
	if cal == nil {
		log.Printf("no trading calendar for MIC '%s', using Mon-Fri", mic)
		return &TradingCalendar{Fallback: true, Timezone: time.UTC}
	}

	return &TradingCalendar{Calendar: cal, Timezone: cal.Loc}
}

// IsTradingDay checks the calendar date of d, regardless of the time of day or zone it carries
func (tc *TradingCalendar) IsTradingDay(d time.Time) bool {
	loc := tc.Timezone
	if loc == nil {
		loc = time.UTC
	}
	// midday keeps the date stable when moving zones
	date := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}
