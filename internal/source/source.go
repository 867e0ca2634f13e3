// Package source defines the comparable-sale data sources consumed by the
// gather pipeline, and the site-specific adapters that implement them.
package source

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/valugen/comps-cli/internal/model"
)

// Fixed source labels, used for failure logging and summary provenance.
const (
	LabelAssessor = "MunicipalAssessor"
	LabelDeeds    = "RegistryOfDeeds"
	LabelMassGIS  = "MassGIS"
	LabelSERP     = "SERP"
)

// ErrNotImplemented marks a platform the adapter set recognizes but cannot
// scrape yet. The coordinator logs it differently from a scrape failure so
// "platform unsupported" is distinguishable from "site broke".
var ErrNotImplemented = eris.New("source: platform not implemented")

// Query carries the subject-property fields every adapter searches on.
type Query struct {
	PropertyType   string
	City           string
	County         string
	State          string
	SubjectAddress string
	YearsBack      int
}

// Source is a single provider of raw candidate records. Implementations
// drive their own I/O (browser, HTTP) and may block; the coordinator isolates
// their failures and imposes no timeout of its own.
type Source interface {
	// Name returns the source's fixed label.
	Name() string
	// Search returns raw candidate records for the query, or an error.
	// A nil, nil return means the source ran but found nothing.
	Search(ctx context.Context, q Query) ([]model.CandidateRecord, error)
}

// Set is the fixed four-source fan-out used by the gather pipeline,
// in the concatenation order the merge tie-break depends on.
func Set(assessor, deeds, massgis, serp Source) []Source {
	return []Source{assessor, deeds, massgis, serp}
}
