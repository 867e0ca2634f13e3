package source

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/valugen/comps-cli/internal/model"
)

// Assessor is the municipal assessor source. The actual scraping strategy is
// selected per municipality from the site directory; towns on an unmapped
// platform contribute nothing and leave coverage to MassGIS and SERP.
type Assessor struct {
	maps     *Maps
	browser  *Browser
	throttle *Throttler
}

// NewAssessor creates the municipal assessor source.
func NewAssessor(maps *Maps, browser *Browser, throttle *Throttler) *Assessor {
	return &Assessor{maps: maps, browser: browser, throttle: throttle}
}

// Name implements Source.
func (a *Assessor) Name() string { return LabelAssessor }

// Search implements Source, dispatching on the municipality's platform.
func (a *Assessor) Search(ctx context.Context, q Query) ([]model.CandidateRecord, error) {
	platform := a.maps.PlatformFor(q.City)
	log := zap.L().With(
		zap.String("source", LabelAssessor),
		zap.String("municipality", q.City),
		zap.String("platform", string(platform)),
	)

	switch platform {
	case PlatformVision:
		return a.searchVision(ctx, q, log)

	case PlatformAxisGIS, PlatformPatriot, PlatformBoston, PlatformCambridge:
		return nil, eris.Wrapf(ErrNotImplemented, "%s assessor platform %q", q.City, platform)

	default:
		// No mapped assessor platform: signal "no data" rather than failure
		// so the other sources carry this municipality.
		log.Warn("no assessor platform mapped, skipping municipal data")
		return nil, nil
	}
}
