package model

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// FlexInt is an integer that unmarshals from either a JSON number or a
// numeric string. Callers upstream hand us both ("12000" and 12000).
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return eris.Wrapf(err, "model: parse numeric value %q", s)
	}
	*f = FlexInt(int(v))
	return nil
}

// Int returns the plain int value.
func (f FlexInt) Int() int { return int(f) }

// SubjectProperty is the input document describing the property we are
// finding comparables for.
type SubjectProperty struct {
	City          string  `json:"subjectCity"`
	County        string  `json:"subjectCounty"`
	State         string  `json:"subjectState"`
	PropertyType  string  `json:"subjectPropertyType"`
	Address       string  `json:"subjectAddress,omitempty"`
	SizeSqFt      FlexInt `json:"subjectSizeSqFt,omitempty"`
	YearBuilt     FlexInt `json:"subjectYearBuilt,omitempty"`
	NumberOfComps FlexInt `json:"numberOfComps,omitempty"`
}

// DefaultNumberOfComps is used when the input omits numberOfComps.
const DefaultNumberOfComps = 5

// ApplyDefaults fills subjectState and numberOfComps when absent.
func (s *SubjectProperty) ApplyDefaults() {
	if s.State == "" {
		s.State = "MA"
	}
	if s.NumberOfComps <= 0 {
		s.NumberOfComps = DefaultNumberOfComps
	}
}

// Validate checks the required fields. City, county, and property type drive
// every adapter query; without them there is nothing to search.
func (s SubjectProperty) Validate() error {
	var missing []string
	if s.City == "" {
		missing = append(missing, "subjectCity")
	}
	if s.County == "" {
		missing = append(missing, "subjectCounty")
	}
	if s.PropertyType == "" {
		missing = append(missing, "subjectPropertyType")
	}
	if len(missing) > 0 {
		return eris.Errorf("model: input missing required fields (%s)", strings.Join(missing, ", "))
	}
	return nil
}

// ParseSubject decodes and validates an input document.
func ParseSubject(data []byte) (SubjectProperty, error) {
	var s SubjectProperty
	if err := json.Unmarshal(data, &s); err != nil {
		return SubjectProperty{}, eris.Wrap(err, "model: decode input document")
	}
	if err := s.Validate(); err != nil {
		return SubjectProperty{}, err
	}
	s.ApplyDefaults()
	return s, nil
}

// GatherResult is the output document of one aggregation run.
type GatherResult struct {
	RunID           string            `json:"runId,omitempty"`
	ComparableSales []CandidateRecord `json:"comparableSales"`
	SearchSummary   string            `json:"searchSummary"`
	Error           bool              `json:"error"`
}

// ErrorResult builds the error-shaped output document.
func ErrorResult(msg string) *GatherResult {
	return &GatherResult{
		ComparableSales: []CandidateRecord{},
		SearchSummary:   msg,
		Error:           true,
	}
}

// FunnelStats tracks record counts through the pipeline stages, for the
// search summary and structured logs.
type FunnelStats struct {
	Raw      int `json:"raw"`
	Deduped  int `json:"deduped"`
	Recent   int `json:"recent"`
	Selected int `json:"selected"`
}
