package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/guregu/null/v6"
)

// PriceRecord is one trading day of a symbol, unique on (symbol, date).
// Missing values are carried as invalid nulls rather than zero.
type PriceRecord struct {
	Symbol string     `db:"symbol" json:"symbol"`
	Date   time.Time  `db:"trade_date" json:"date"`
	Open   null.Float `db:"open" json:"open"`
	High   null.Float `db:"high" json:"high"`
	Low    null.Float `db:"low" json:"low"`
	Close  null.Float `db:"close" json:"close"`
	Volume null.Int   `db:"volume" json:"volume"`
}

type Metric string

const (
	MetricOpen   Metric = "open"
	MetricHigh   Metric = "high"
	MetricLow    Metric = "low"
	MetricClose  Metric = "close"
	MetricVolume Metric = "volume"
)

var Metrics = []Metric{MetricOpen, MetricHigh, MetricLow, MetricClose, MetricVolume}

func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return MetricClose, nil
	}
	for _, m := range Metrics {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Value returns the metric for the record, volume is widened to a float
func (p PriceRecord) Value(metric Metric) null.Float {
	switch metric {
	case MetricOpen:
		return p.Open
	case MetricHigh:
		return p.High
	case MetricLow:
		return p.Low
	case MetricClose:
		return p.Close
	case MetricVolume:
		if !p.Volume.Valid {
			return null.Float{}
		}
		return null.FloatFrom(float64(p.Volume.Int64))
	default:
		return null.Float{}
	}
}

// PriceFilter scopes a read from the store. Empty symbols means every symbol.
type PriceFilter struct {
	Period  Period
	Symbols []string
}
