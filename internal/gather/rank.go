package gather

import (
	"math"
	"sort"
	"time"

	"github.com/valugen/comps-cli/internal/model"
	"github.com/valugen/comps-cli/internal/parse"
)

// Score component weights. Confidence carries the most signal; the three
// similarity components only contribute when their inputs are present, so
// sparse records sort by whatever signal they have.
const (
	weightConfidence = 0.4
	weightRecency    = 0.3
	weightSize       = 0.15
	weightAge        = 0.15

	// rankYearsBack fixes the recency decay horizon independently of the
	// filter's lookback window.
	rankYearsBack = 3

	// minPlausibleYearBuilt guards against placeholder years (0, 1) that
	// assessor exports use for unknown construction dates.
	minPlausibleYearBuilt = 1800
)

// Rank sorts records by relevance to the subject, best first. The sort is
// stable so equal-scored records keep their merge order.
func Rank(records []model.CandidateRecord, subject model.SubjectProperty, now time.Time) []model.CandidateRecord {
	ranked := make([]model.CandidateRecord, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		return relevanceScore(ranked[i], subject, now) > relevanceScore(ranked[j], subject, now)
	})
	return ranked
}

func relevanceScore(rec model.CandidateRecord, subject model.SubjectProperty, now time.Time) float64 {
	// A record that reached ranking without a score contributes nothing on
	// the confidence component.
	score := weightConfidence * rec.ConfidenceOr(0)

	if t, ok := parse.SaleTime(rec.SaleDate); ok {
		days := now.Sub(t).Hours() / 24
		score += weightRecency * math.Max(0, 1-days/(rankYearsBack*365))
	}

	subjectSize := subject.SizeSqFt.Int()
	if subjectSize > 0 && rec.BuildingSizeSqFt != nil && *rec.BuildingSizeSqFt > 0 {
		diff := math.Abs(float64(subjectSize - *rec.BuildingSizeSqFt))
		score += weightSize * math.Max(0, 1-2*diff/float64(subjectSize))
	}

	subjectYear := subject.YearBuilt.Int()
	if subjectYear > 0 && rec.YearBuilt != nil && *rec.YearBuilt > minPlausibleYearBuilt {
		diff := math.Abs(float64(subjectYear - *rec.YearBuilt))
		score += weightAge * math.Max(0, 1-diff/50)
	}

	return score
}
