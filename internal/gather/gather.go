package gather

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/valugen/comps-cli/internal/address"
	"github.com/valugen/comps-cli/internal/model"
	"github.com/valugen/comps-cli/internal/source"
)

// Gatherer runs the full aggregation pipeline over a fixed source set.
type Gatherer struct {
	sources   []source.Source
	yearsBack int
	now       func() time.Time
}

// Option configures a Gatherer.
type Option func(*Gatherer)

// WithYearsBack overrides the recency filter's lookback window.
func WithYearsBack(years int) Option {
	return func(g *Gatherer) { g.yearsBack = years }
}

// WithClock overrides the time source. Tests pin it.
func WithClock(now func() time.Time) Option {
	return func(g *Gatherer) { g.now = now }
}

// New creates a Gatherer over the given sources.
func New(sources []source.Source, opts ...Option) *Gatherer {
	g := &Gatherer{
		sources:   sources,
		yearsBack: DefaultYearsBack,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes one aggregation request end to end. The returned result is
// always well-formed; Error is true only when the input is invalid, in which
// case no source is ever invoked.
func (g *Gatherer) Run(ctx context.Context, subject model.SubjectProperty) *model.GatherResult {
	if err := subject.Validate(); err != nil {
		return model.ErrorResult("Error: " + eris.ToString(err, false))
	}
	subject.ApplyDefaults()

	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID), zap.String("city", subject.City))
	now := g.now()

	q := source.Query{
		PropertyType:   subject.PropertyType,
		City:           subject.City,
		County:         subject.County,
		State:          subject.State,
		SubjectAddress: subject.Address,
		YearsBack:      g.yearsBack,
	}

	raw := Collect(ctx, g.sources, q)
	merged := Merge(raw)
	recent := FilterRecent(merged, g.yearsBack, now)
	nRecent := len(recent)
	ranked := Rank(excludeSubject(recent, subject.Address), subject, now)

	selected := ranked
	if n := subject.NumberOfComps.Int(); n > 0 && len(selected) > n {
		selected = selected[:n]
	}
	if selected == nil {
		selected = []model.CandidateRecord{}
	}

	// Funnel counts are taken before subject exclusion; the summary reports
	// what merging and the recency filter produced, exclusion only trims the
	// selectable pool.
	funnel := model.FunnelStats{
		Raw:      len(raw),
		Deduped:  len(merged),
		Recent:   nRecent,
		Selected: len(selected),
	}
	log.Info("aggregation complete",
		zap.Int("raw", funnel.Raw),
		zap.Int("deduped", funnel.Deduped),
		zap.Int("recent", funnel.Recent),
		zap.Int("selected", funnel.Selected),
	)

	return &model.GatherResult{
		RunID:           runID,
		ComparableSales: selected,
		SearchSummary:   Summarize(subject, funnel, raw, merged, selected),
	}
}

// excludeSubject drops the subject property itself from the comp set.
func excludeSubject(records []model.CandidateRecord, subjectAddress string) []model.CandidateRecord {
	if subjectAddress == "" {
		return records
	}
	out := records[:0]
	for _, rec := range records {
		if address.Same(rec.Address, subjectAddress) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
