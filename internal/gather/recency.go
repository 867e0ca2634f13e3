package gather

import (
	"time"

	"go.uber.org/zap"

	"github.com/valugen/comps-cli/internal/model"
	"github.com/valugen/comps-cli/internal/parse"
)

// DefaultYearsBack is the lookback window for the recency filter.
const DefaultYearsBack = 3

// Confidence ceilings for records that cannot prove their recency. These
// keep undatable records in play while ensuring dated ones outrank them.
const (
	unparsableDateCap = 0.4
	missingDateCap    = 0.3
)

// FilterRecent drops records whose sale year falls before now's year minus
// yearsBack. Records without a parseable date are kept but have their
// confidence capped rather than dropped; the ranker then down-weights them.
// A record dated exactly at the boundary year is retained.
func FilterRecent(records []model.CandidateRecord, yearsBack int, now time.Time) []model.CandidateRecord {
	cutoffYear := now.Year() - yearsBack

	out := make([]model.CandidateRecord, 0, len(records))
	for _, rec := range records {
		switch {
		case rec.SaleDate == "":
			rec.CapConfidence(missingDateCap)
			out = append(out, rec)

		default:
			year, ok := parse.SaleYear(rec.SaleDate)
			if !ok {
				zap.L().Warn("unparsable sale date, capping confidence",
					zap.String("address", rec.Address),
					zap.String("sale_date", rec.SaleDate),
				)
				rec.CapConfidence(unparsableDateCap)
				out = append(out, rec)
				continue
			}
			if year < cutoffYear {
				continue
			}
			out = append(out, rec)
		}
	}
	return out
}
