package models

const (
	TradingDaysPerYear = 252
	PercentScale       = 100
)

type Direction string

const (
	Gainers Direction = "gainers"
	Losers  Direction = "losers"
)

type RankBy string

const (
	RankByReturn     RankBy = "return"
	RankByVolume     RankBy = "volume"
	RankByVolatility RankBy = "volatility"
)

// ReportResources lists the options a client can send, so a front end does not hard code them
type ReportResources struct {
	Metrics    []string `json:"metrics"`
	Directions []string `json:"directions"`
	RankBy     []string `json:"rankby"`
	Periods    []string `json:"periods"`
}
