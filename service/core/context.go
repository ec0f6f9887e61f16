package core

import (
	r "stockreport/data/repos"
	av "stockreport/service/api/alpha_vantage"
	"stockreport/service/config"
)

type ServiceContext struct {
	Store              r.PriceStore
	AlphaVantageClient *av.AlphaVantageClient
	Config             *config.Config
}

func (sc *ServiceContext) sectorOf(symbol string) string {
	if sc.Config == nil {
		return config.UnmappedSector
	}
	return sc.Config.SectorOf(symbol)
}
