package main

import (
	"github.com/rotisserie/eris"

	"github.com/valugen/comps-cli/internal/config"
	"github.com/valugen/comps-cli/internal/gather"
	"github.com/valugen/comps-cli/internal/source"
)

// buildGatherer wires the four source adapters from configuration.
func buildGatherer(cfg *config.Config) (*gather.Gatherer, error) {
	maps, err := source.LoadMaps(cfg.Sources.MapsPath)
	if err != nil {
		return nil, eris.Wrap(err, "build sources")
	}

	browser := source.NewBrowser(cfg.Browser.Timeout())
	sources := source.Set(
		source.NewAssessor(maps, browser, source.NewThrottler(cfg.Sources.AssessorDelay())),
		source.NewDeeds(maps, source.NewThrottler(cfg.Sources.DeedsDelay())),
		source.NewMassGIS(browser, source.NewThrottler(cfg.Sources.MassGISDelay()), cfg.Sources.MassGISMaxParcels),
		source.NewSERP(browser, source.NewThrottler(cfg.Sources.SERPDelay())),
	)

	return gather.New(sources, gather.WithYearsBack(cfg.Sources.YearsBack)), nil
}
