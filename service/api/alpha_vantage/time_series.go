package alpha_vantage

type TimeSeries uint8

// TimeSeries specifies a frequency to query for stock data.
const (
	TimeSeriesDaily TimeSeries = iota
	TimeSeriesWeekly
	TimeSeriesMonthly
)

func (t TimeSeries) Name() string {
	switch t {
	case TimeSeriesDaily:
		return "TimeSeriesDaily"
	case TimeSeriesWeekly:
		return "TimeSeriesWeekly"
	case TimeSeriesMonthly:
		return "TimeSeriesMonthly"
	default:
		return ""
	}
}

func (t TimeSeries) Function() string {
	switch t {
	case TimeSeriesDaily:
		return "TIME_SERIES_DAILY"
	case TimeSeriesWeekly:
		return "TIME_SERIES_WEEKLY"
	case TimeSeriesMonthly:
		return "TIME_SERIES_MONTHLY"
	default:
		return ""
	}
}

// TimeSeriesKey is the key of the series object in the response body
func (t TimeSeries) TimeSeriesKey() string {
	switch t {
	case TimeSeriesDaily:
		return "Time Series (Daily)"
	case TimeSeriesWeekly:
		return "Weekly Time Series"
	case TimeSeriesMonthly:
		return "Monthly Time Series"
	default:
		return ""
	}
}
