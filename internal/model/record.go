// Package model defines the records flowing through the comparable sales pipeline.
package model

// CandidateRecord is one comparable sale as reported by a single data source.
// Every field except Address is optional; adapters populate what they can and
// leave the rest nil or empty. A record without an address is discarded during
// merging because the normalized address is the only identity key we have.
type CandidateRecord struct {
	Address          string   `json:"address,omitempty"`
	SaleDate         string   `json:"saleDate,omitempty"` // YYYY-MM-DD when parseable
	SalePrice        *int     `json:"salePrice,omitempty"`
	BuildingSizeSqFt *int     `json:"buildingSizeSqFt,omitempty"`
	LotSizeSqFt      *int     `json:"lotSizeSqFt,omitempty"`
	AssessedValue    *int     `json:"assessedValue,omitempty"`
	YearBuilt        *int     `json:"yearBuilt,omitempty"`
	PropertyType     string   `json:"propertyType,omitempty"`
	UseCode          string   `json:"useCode,omitempty"`
	ParcelID         string   `json:"parcelId,omitempty"`
	BriefDescription string   `json:"briefDescription,omitempty"`
	Source           string   `json:"source,omitempty"`
	Confidence       *float64 `json:"confidenceScore,omitempty"`
}

// DefaultConfidence is assumed when a source did not attach a score.
const DefaultConfidence = 0.5

// ConfidenceCap is the ceiling applied after any corroboration boost.
const ConfidenceCap = 0.95

// ConfidenceOr returns the record's confidence score, or def when unset.
func (r CandidateRecord) ConfidenceOr(def float64) float64 {
	if r.Confidence == nil {
		return def
	}
	return *r.Confidence
}

// SetConfidence replaces the confidence score, clamping to [0, ConfidenceCap].
func (r *CandidateRecord) SetConfidence(v float64) {
	if v < 0 {
		v = 0
	}
	if v > ConfidenceCap {
		v = ConfidenceCap
	}
	r.Confidence = &v
}

// CapConfidence lowers the confidence score to at most limit. A record with
// no score is treated as DefaultConfidence first, so the cap always applies.
func (r *CandidateRecord) CapConfidence(limit float64) {
	cur := r.ConfidenceOr(DefaultConfidence)
	if cur > limit {
		cur = limit
	}
	r.SetConfidence(cur)
}

// FieldCount reports how many fields carry a value. Used as the completeness
// half of the merge ordering key (confidence first, completeness second).
func (r CandidateRecord) FieldCount() int {
	n := 0
	for _, s := range []string{r.Address, r.SaleDate, r.PropertyType, r.UseCode, r.ParcelID, r.BriefDescription, r.Source} {
		if s != "" {
			n++
		}
	}
	for _, p := range []*int{r.SalePrice, r.BuildingSizeSqFt, r.LotSizeSqFt, r.AssessedValue, r.YearBuilt} {
		if p != nil {
			n++
		}
	}
	if r.Confidence != nil {
		n++
	}
	return n
}

// FillFrom copies values from other into any empty field of r. Source and
// Confidence are never filled here; combined provenance and corroboration
// boosts are the merge engine's job.
func (r *CandidateRecord) FillFrom(other CandidateRecord) {
	if r.Address == "" {
		r.Address = other.Address
	}
	if r.SaleDate == "" {
		r.SaleDate = other.SaleDate
	}
	if r.PropertyType == "" {
		r.PropertyType = other.PropertyType
	}
	if r.UseCode == "" {
		r.UseCode = other.UseCode
	}
	if r.ParcelID == "" {
		r.ParcelID = other.ParcelID
	}
	if r.BriefDescription == "" {
		r.BriefDescription = other.BriefDescription
	}
	if r.SalePrice == nil {
		r.SalePrice = other.SalePrice
	}
	if r.BuildingSizeSqFt == nil {
		r.BuildingSizeSqFt = other.BuildingSizeSqFt
	}
	if r.LotSizeSqFt == nil {
		r.LotSizeSqFt = other.LotSizeSqFt
	}
	if r.AssessedValue == nil {
		r.AssessedValue = other.AssessedValue
	}
	if r.YearBuilt == nil {
		r.YearBuilt = other.YearBuilt
	}
}

// IntPtr returns a pointer to v. Convenience for adapters and tests.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }
