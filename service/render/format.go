package render

import (
	"github.com/dustin/go-humanize"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

// blank values render as empty cells

func fmtPercent(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return decimal.NewFromFloat(v.Float64).StringFixed(2) + "%"
}

func fmtShare(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return decimal.NewFromFloat(v.Float64).StringFixed(1) + "%"
}

func fmtSignedPercent(v null.Float) string {
	if !v.Valid {
		return ""
	}
	d := decimal.NewFromFloat(v.Float64)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

func fmtPrice(v null.Float) string {
	if !v.Valid {
		return ""
	}
	f, _ := decimal.NewFromFloat(v.Float64).Round(2).Float64()
	return humanize.CommafWithDigits(f, 2)
}

func fmtVolume(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return humanize.Comma(decimal.NewFromFloat(v.Float64).Round(0).IntPart())
}

func fmtRatio(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return decimal.NewFromFloat(v.Float64).StringFixed(2)
}
