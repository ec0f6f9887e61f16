package models

import (
	"time"

	"github.com/guregu/null/v6"
)

type DailySeriesResult struct {
	Metadata *DailySeriesMetadata
	Records  []PriceRecord
}

type DailySeriesMetadata struct {
	Information   null.String
	Symbol        string
	LastRefreshed time.Time
	OutputSize    null.String
	TimeZone      string
}
