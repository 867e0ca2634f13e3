package gather

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valugen/comps-cli/internal/model"
)

var summarySubject = model.SubjectProperty{
	City:         "Quincy",
	County:       "Norfolk",
	PropertyType: "retail",
}

func TestSummarizeFullReport(t *testing.T) {
	final := []model.CandidateRecord{
		{Address: "1 A St", SaleDate: "2024-03-18", SalePrice: model.IntPtr(4200000), Source: "Multiple Sources - MassGIS Property Viewer, Web Search"},
		{Address: "2 B St", SaleDate: "2023-06-02", SalePrice: model.IntPtr(900000), Source: "Vision Government Solutions - Quincy Assessor"},
	}
	funnel := model.FunnelStats{Raw: 12, Deduped: 8, Recent: 6, Selected: 2}

	s := Summarize(summarySubject, funnel, final)

	assert.Contains(t, s, "retail properties in Quincy, Norfolk County")
	assert.Contains(t, s, "12 raw entries")
	assert.Contains(t, s, "8 unique properties")
	assert.Contains(t, s, "6 within the last 3 years")
	assert.Contains(t, s, "2 selected")
	assert.Contains(t, s, "Vision Government Solutions")
	assert.NotContains(t, s, "Multiple Sources")
	assert.Contains(t, s, "Sale dates range from Jun 2023 to Mar 2024")
	assert.Contains(t, s, "$900,000 to $4,200,000")
}

func TestSummarizeCollectsSourcesAcrossStages(t *testing.T) {
	raw := []model.CandidateRecord{{Address: "1 A St", Source: "Web Search"}}
	final := []model.CandidateRecord{{Address: "2 B St", Source: "MassGIS Property Viewer"}}

	s := Summarize(summarySubject, model.FunnelStats{Raw: 1, Deduped: 1, Recent: 1, Selected: 1}, raw, final)
	assert.Contains(t, s, "MassGIS Property Viewer, Web Search")
}

func TestSummarizeOmitsEmptySections(t *testing.T) {
	final := []model.CandidateRecord{{Address: "1 A St", Source: "Web Search"}}

	s := Summarize(summarySubject, model.FunnelStats{Raw: 1, Deduped: 1, Recent: 1, Selected: 1}, final)
	assert.NotContains(t, s, "Sale dates range")
	assert.NotContains(t, s, "Sale prices range")
}

func TestSummarizeZeroRawEntries(t *testing.T) {
	s := Summarize(summarySubject, model.FunnelStats{})
	assert.Contains(t, s, "0 raw entries")
	assert.NotContains(t, s, "Sources:")
	assert.Contains(t, s, "No suitable comparable sales found")
}
