package gather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valugen/comps-cli/internal/model"
)

var rankNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

var rankSubject = model.SubjectProperty{
	City:         "Quincy",
	County:       "Norfolk",
	PropertyType: "retail",
	SizeSqFt:     10000,
	YearBuilt:    1990,
}

func TestRelevanceScoreConfidenceOnly(t *testing.T) {
	r := model.CandidateRecord{Address: "1 A St"}
	r.SetConfidence(0.8)
	assert.InDelta(t, 0.4*0.8, relevanceScore(r, rankSubject, rankNow), 1e-9)
}

func TestRelevanceScoreFullComponents(t *testing.T) {
	r := model.CandidateRecord{
		Address:          "1 A St",
		SaleDate:         rankNow.AddDate(0, 0, -365).Format("2006-01-02"),
		BuildingSizeSqFt: model.IntPtr(12000), // 20% size delta
		YearBuilt:        model.IntPtr(1980),  // 10 years off
	}
	r.SetConfidence(0.9)

	want := 0.4*0.9 +
		0.3*(1-365.0/(3*365)) +
		0.15*(1-2*2000.0/10000) +
		0.15*(1-10.0/50)
	assert.InDelta(t, want, relevanceScore(r, rankSubject, rankNow), 1e-6)
}

func TestRelevanceScoreComponentsClampAtZero(t *testing.T) {
	r := model.CandidateRecord{
		Address:          "1 A St",
		SaleDate:         rankNow.AddDate(-5, 0, 0).Format("2006-01-02"), // past the decay horizon
		BuildingSizeSqFt: model.IntPtr(100000),                          // wildly off-size
		YearBuilt:        model.IntPtr(1900),                            // 90 years off
	}
	r.SetConfidence(0.5)
	assert.InDelta(t, 0.4*0.5, relevanceScore(r, rankSubject, rankNow), 1e-9)
}

func TestRelevanceScoreIgnoresImplausibleYearBuilt(t *testing.T) {
	r := model.CandidateRecord{Address: "1 A St", YearBuilt: model.IntPtr(0)}
	r.SetConfidence(0.5)
	assert.InDelta(t, 0.4*0.5, relevanceScore(r, rankSubject, rankNow), 1e-9)
}

func TestRelevanceScoreSkipsSizeWithoutSubjectSize(t *testing.T) {
	subject := rankSubject
	subject.SizeSqFt = 0
	r := model.CandidateRecord{Address: "1 A St", BuildingSizeSqFt: model.IntPtr(10000)}
	r.SetConfidence(0.5)
	assert.InDelta(t, 0.4*0.5, relevanceScore(r, subject, rankNow), 1e-9)
}

func TestRankOrdersBestFirst(t *testing.T) {
	weak := model.CandidateRecord{Address: "1 Weak St"}
	weak.SetConfidence(0.3)
	strong := model.CandidateRecord{
		Address:          "2 Strong St",
		SaleDate:         rankNow.AddDate(0, -2, 0).Format("2006-01-02"),
		BuildingSizeSqFt: model.IntPtr(10000),
		YearBuilt:        model.IntPtr(1990),
	}
	strong.SetConfidence(0.9)

	ranked := Rank([]model.CandidateRecord{weak, strong}, rankSubject, rankNow)
	require.Len(t, ranked, 2)
	assert.Equal(t, "2 Strong St", ranked[0].Address)
	assert.Equal(t, "1 Weak St", ranked[1].Address)
}

func TestRankUnscoredBelowLowScored(t *testing.T) {
	unscored := model.CandidateRecord{Address: "1 Nil St"}
	low := model.CandidateRecord{Address: "2 Low St"}
	low.SetConfidence(0.1)

	// Any score beats no score.
	ranked := Rank([]model.CandidateRecord{unscored, low}, rankSubject, rankNow)
	require.Len(t, ranked, 2)
	assert.Equal(t, "2 Low St", ranked[0].Address)
	assert.InDelta(t, 0, relevanceScore(unscored, rankSubject, rankNow), 1e-9)
}

func TestRankStableOnTies(t *testing.T) {
	a := model.CandidateRecord{Address: "1 First St"}
	a.SetConfidence(0.5)
	b := model.CandidateRecord{Address: "2 Second St"}
	b.SetConfidence(0.5)
	c := model.CandidateRecord{Address: "3 Third St"}
	c.SetConfidence(0.5)

	ranked := Rank([]model.CandidateRecord{a, b, c}, rankSubject, rankNow)
	require.Len(t, ranked, 3)
	assert.Equal(t, "1 First St", ranked[0].Address)
	assert.Equal(t, "2 Second St", ranked[1].Address)
	assert.Equal(t, "3 Third St", ranked[2].Address)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	a := model.CandidateRecord{Address: "1 Low St"}
	a.SetConfidence(0.1)
	b := model.CandidateRecord{Address: "2 High St"}
	b.SetConfidence(0.9)

	in := []model.CandidateRecord{a, b}
	_ = Rank(in, rankSubject, rankNow)
	assert.Equal(t, "1 Low St", in[0].Address)
}
