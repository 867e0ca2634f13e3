package gather

import (
	"sort"
	"strings"

	"github.com/valugen/comps-cli/internal/address"
	"github.com/valugen/comps-cli/internal/model"
)

// PrimaryLabel extracts the leading provenance label from a source string,
// the portion before the first " - " separator. "Vision Government
// Solutions - Weymouth Assessor" and "Vision Government Solutions - Quincy
// Assessor" corroborate as one source.
func PrimaryLabel(src string) string {
	if i := strings.Index(src, " - "); i >= 0 {
		return src[:i]
	}
	return src
}

// Merge collapses records sharing a normalized address into one enriched
// record per property. Records with an empty normalized address are dropped.
// Output order follows each group's first appearance in the input, which is
// itself fixed by source order, so merging is deterministic.
func Merge(records []model.CandidateRecord) []model.CandidateRecord {
	groups := make(map[string][]model.CandidateRecord)
	var keyOrder []string

	for _, rec := range records {
		key := address.Normalize(rec.Address)
		if key == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], rec)
	}

	merged := make([]model.CandidateRecord, 0, len(keyOrder))
	for _, key := range keyOrder {
		merged = append(merged, mergeGroup(groups[key]))
	}
	return merged
}

// mergeGroup folds one address group into a single record. The most
// trustworthy, most complete record seeds the result; the rest fill in its
// gaps and count as corroboration.
func mergeGroup(group []model.CandidateRecord) model.CandidateRecord {
	// An unscored record sorts as zero here; the 0.5 default applies only to
	// the boost base below. Scored records always seed ahead of unscored ones.
	sort.SliceStable(group, func(i, j int) bool {
		ci := group[i].ConfidenceOr(0)
		cj := group[j].ConfidenceOr(0)
		if ci != cj {
			return ci > cj
		}
		return group[i].FieldCount() > group[j].FieldCount()
	})

	seed := group[0]
	labels := map[string]bool{}
	for _, rec := range group {
		l := PrimaryLabel(rec.Source)
		if l == "" {
			l = "Unknown"
		}
		labels[l] = true
	}
	for _, rec := range group[1:] {
		seed.FillFrom(rec)
	}

	if len(labels) > 1 {
		names := make([]string, 0, len(labels))
		for l := range labels {
			names = append(names, l)
		}
		sort.Strings(names)
		seed.Source = "Multiple Sources - " + strings.Join(names, ", ")
		seed.SetConfidence(seed.ConfidenceOr(model.DefaultConfidence) + 0.1*float64(len(labels)-1))
	}
	return seed
}
