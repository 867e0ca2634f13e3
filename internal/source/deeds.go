package source

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/valugen/comps-cli/internal/model"
)

// Deeds is the registry-of-deeds source, targeting the MassLandRecords
// county portals. The form-driven search differs per registry and is not
// automated yet; for now the adapter resolves the registry, respects the
// throttle, and reports no records so the other sources carry coverage.
type Deeds struct {
	maps     *Maps
	throttle *Throttler
}

// NewDeeds creates the registry-of-deeds source.
func NewDeeds(maps *Maps, throttle *Throttler) *Deeds {
	return &Deeds{maps: maps, throttle: throttle}
}

// Name implements Source.
func (d *Deeds) Name() string { return LabelDeeds }

// Search implements Source.
func (d *Deeds) Search(ctx context.Context, q Query) ([]model.CandidateRecord, error) {
	registry := d.maps.RegistryFor(q.County)
	searchURL := strings.ReplaceAll(registry.SearchURLTemplate, "{search_page}", "SearchCriteria.aspx")

	if err := d.throttle.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "source: deeds throttle")
	}

	zap.L().Warn("deeds search not automated for this registry, returning no records",
		zap.String("source", LabelDeeds),
		zap.String("registry", registry.Name),
		zap.String("search_url", searchURL),
	)
	return nil, nil
}
