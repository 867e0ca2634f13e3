package gather

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/valugen/comps-cli/internal/model"
	"github.com/valugen/comps-cli/internal/parse"
)

var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

func formatPrice(v int) string {
	return currencyPrinter.Sprintf("$%d", v)
}

// Summarize produces the human-readable report of one aggregation run: the
// funnel counts, contributing sources, and the date and price spread of the
// final selection. Sections without data are omitted.
func Summarize(subject model.SubjectProperty, funnel model.FunnelStats, stages ...[]model.CandidateRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b,
		"Comparable sales search for %s properties in %s, %s County: %d raw entries found across all sources, %d unique properties after merging, %d within the last %d years, %d selected.",
		subject.PropertyType, subject.City, subject.County,
		funnel.Raw, funnel.Deduped, funnel.Recent, DefaultYearsBack, funnel.Selected,
	)

	if sources := distinctSources(stages); len(sources) > 0 {
		fmt.Fprintf(&b, " Sources: %s.", strings.Join(sources, ", "))
	}

	var final []model.CandidateRecord
	if len(stages) > 0 {
		final = stages[len(stages)-1]
	}
	if lo, hi, ok := dateRange(final); ok {
		fmt.Fprintf(&b, " Sale dates range from %s to %s.", lo, hi)
	}
	if lo, hi, ok := priceRange(final); ok {
		fmt.Fprintf(&b, " Sale prices range from %s to %s.", formatPrice(lo), formatPrice(hi))
	}
	if funnel.Selected == 0 {
		b.WriteString(" No suitable comparable sales found.")
	}

	return b.String()
}

// distinctSources collects the primary source labels seen at any pipeline
// stage, skipping the synthetic combined label.
func distinctSources(stages [][]model.CandidateRecord) []string {
	seen := map[string]bool{}
	for _, stage := range stages {
		for _, rec := range stage {
			label := PrimaryLabel(rec.Source)
			if label == "" || label == "Multiple Sources" {
				continue
			}
			seen[label] = true
		}
	}
	out := make([]string, 0, len(seen))
	for label := range seen {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

func dateRange(records []model.CandidateRecord) (string, string, bool) {
	var lo, hi string
	for _, rec := range records {
		t, ok := parse.SaleTime(rec.SaleDate)
		if !ok {
			continue
		}
		iso := t.Format(parse.ISODate)
		if lo == "" || iso < lo {
			lo = iso
		}
		if hi == "" || iso > hi {
			hi = iso
		}
	}
	if lo == "" {
		return "", "", false
	}
	loT, _ := parse.SaleTime(lo)
	hiT, _ := parse.SaleTime(hi)
	return loT.Format("Jan 2006"), hiT.Format("Jan 2006"), true
}

func priceRange(records []model.CandidateRecord) (int, int, bool) {
	lo, hi, found := 0, 0, false
	for _, rec := range records {
		if rec.SalePrice == nil {
			continue
		}
		p := *rec.SalePrice
		if !found || p < lo {
			lo = p
		}
		if !found || p > hi {
			hi = p
		}
		found = true
	}
	return lo, hi, found
}
