package geodb

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Match confidences: a single candidate is a solid match; having to pick
// among several lowers our trust in the pick. A match whose LOC_ID is blank
// cannot be joined to the other layers at all.
const (
	singleMatchConfidence = 0.75
	multiMatchConfidence  = 0.65
	brokenMatchConfidence = 0.3
)

// Result is the lookup's output document. Failures are reported in Error,
// never raised: callers can always serialize the result. Data is nil on
// failure; Warnings carry degraded-enrichment notes on success.
type Result struct {
	Error           string         `json:"error,omitempty"`
	Data            map[string]any `json:"data"`
	Warnings        []string       `json:"warnings,omitempty"`
	SourceLocID     string         `json:"sourceLocId,omitempty"`
	MatchConfidence float64        `json:"matchConfidence,omitempty"`
}

func errorResult(err error) *Result {
	return &Result{Error: eris.ToString(err, false)}
}

// assessAttrs maps assessor DBF columns to the attribute names exposed in
// Data. Absent columns surface as null so callers see a stable shape
// regardless of how sparse a town's extract is.
var assessAttrs = []struct{ key, col string }{
	{"propertyId", "PROP_ID"},
	{"buildingValue", "BLDG_VAL"},
	{"landValue", "LAND_VAL"},
	{"otherValue", "OTHER_VAL"},
	{"totalValue", "TOTAL_VAL"},
	{"fiscalYear", "FY"},
	{"lotSize", "LOT_SIZE"},
	{"lotUnits", "LOT_UNITS"},
	{"landSaleDate", "LS_DATE"},
	{"landSalePrice", "LS_PRICE"},
	{"landSaleBook", "LS_BOOK"},
	{"landSalePage", "LS_PAGE"},
	{"siteAddressNumber", "ADDR_NUM"},
	{"siteAddressStreet", "FULL_STR"},
	{"siteAddressFull", "SITE_ADDR"},
	{"city", "CITY"},
	{"zoning", "ZONING"},
	{"yearBuilt", "YEAR_BUILT"},
	{"buildingAreaSqFt", "BLD_AREA"},
	{"residentialAreaSqFt", "RES_AREA"},
	{"units", "UNITS"},
	{"style", "STYLE"},
	{"stories", "STORIES"},
	{"numberOfRooms", "NUM_ROOMS"},
	{"camaId", "CAMA_ID"},
	{"townId", "TOWN_ID"},
	{"ownerName", "OWNER1"},
	{"ownerAddress1", "OWN_ADDR"},
	{"ownerCity", "OWN_CITY"},
	{"ownerState", "OWN_ST"},
	{"ownerZip", "OWN_ZIP"},
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var leadingNumRe = regexp.MustCompile(`^\s*(\d+[A-Za-z]?)\s+(.*)$`)

// splitAddress divides a site address into its leading number and the
// street remainder. "45 Commerce Way" -> ("45", "Commerce Way").
func splitAddress(addr string) (num, street string) {
	if m := leadingNumRe.FindStringSubmatch(addr); m != nil {
		return m[1], strings.TrimSpace(m[2])
	}
	return "", strings.TrimSpace(addr)
}

func normToken(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// streetMatch reports whether a parcel's street name and the queried street
// remainder plausibly name the same street. Suffix abbreviation differs
// between the two, so containment in either direction counts.
func streetMatch(fullStr, remainder string) bool {
	a, b := normToken(fullStr), normToken(remainder)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Lookup finds the parcel for a site address in a local parcel extract
// directory and returns its attributes under the stable names in
// assessAttrs. Address matching is city-exact, number-exact,
// street-substring; geometry and use-code enrichment degrade to warnings
// when their layers fail.
func Lookup(dir, siteAddress, city, state, zip string) *Result {
	assess, err := openLayer(dir, layerAssess)
	if err != nil {
		return errorResult(err)
	}
	if err := assess.requireColumns(requiredAssessColumns...); err != nil {
		return errorResult(err)
	}

	addrNum, street := splitAddress(siteAddress)
	if addrNum == "" {
		return errorResult(eris.Errorf("geodb: address %q has no leading street number", siteAddress))
	}

	wantCity := strings.ReplaceAll(strings.ToLower(city), " ", "")
	var matched []feature
	for _, f := range assess.features {
		haveCity := strings.ReplaceAll(strings.ToLower(f.attrs["CITY"]), " ", "")
		if haveCity != wantCity {
			continue
		}
		if f.attrs["ADDR_NUM"] != addrNum {
			continue
		}
		if !streetMatch(f.attrs["FULL_STR"], street) {
			continue
		}
		matched = append(matched, f)
	}

	if len(matched) == 0 {
		return errorResult(eris.Errorf("geodb: no parcel matches %q in %s", siteAddress, city))
	}

	result := &Result{MatchConfidence: singleMatchConfidence}
	if len(matched) > 1 {
		result.MatchConfidence = multiMatchConfidence
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d parcels match %q, using the first", len(matched), siteAddress))
	}
	parcel := matched[0]
	locID := parcel.attrs["LOC_ID"]
	if locID == "" {
		return &Result{
			Error:           fmt.Sprintf("geodb: parcel matching %q has no LOC_ID, cannot join to other layers", siteAddress),
			Warnings:        result.Warnings,
			MatchConfidence: brokenMatchConfidence,
		}
	}
	result.SourceLocID = locID

	data := make(map[string]any, len(assessAttrs)+6)
	for _, a := range assessAttrs {
		data[a.key] = nullable(parcel.attrs[a.col])
	}
	data["locationId"] = locID
	data["useCode"] = nullable(parcel.attrs["USE_CODE"])
	data["useDescription"] = "Unknown"
	data["mapParId"] = nullable(parcel.attrs["MAP_PAR_ID"])
	data["gisParcelAreaSqFt"] = nil
	data["polyType"] = nil

	joinTaxPar(dir, result, data)
	joinUseCodes(dir, result, data)

	result.Data = data
	zap.L().Info("geodb parcel lookup complete",
		zap.String("city", city),
		zap.String("state", state),
		zap.String("zip", zip),
		zap.String("loc_id", result.SourceLocID),
		zap.Float64("confidence", result.MatchConfidence),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result
}

// joinTaxPar enriches the result with parcel-geometry attributes. The
// geometry layer is optional for callers that only need assessment data, so
// every failure here is a warning.
func joinTaxPar(dir string, result *Result, data map[string]any) {
	taxPar, err := openLayer(dir, layerTaxPar)
	if err != nil {
		result.Warnings = append(result.Warnings, "tax parcel layer unavailable: "+eris.ToString(err, false))
		return
	}
	f, ok := taxPar.findByLocID(result.SourceLocID)
	if !ok {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("no tax parcel geometry for %s", result.SourceLocID))
		return
	}
	if v := f.attrs["POLY_TYPE"]; v != "" {
		data["polyType"] = v
	}
	// The geometry layer's parcel id is authoritative when both layers
	// carry one.
	if v := f.attrs["MAP_PAR_ID"]; v != "" {
		data["mapParId"] = v
	}
	if area := shapeArea(f.shape); area > 0 {
		data["gisParcelAreaSqFt"] = area
	}
}

// joinUseCodes translates the parcel's use code to its description via the
// use-code lookup layer. Enrichment only; failures are warnings.
func joinUseCodes(dir string, result *Result, data map[string]any) {
	useCode, _ := data["useCode"].(string)
	if useCode == "" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("use code missing for %s, cannot look up use description", result.SourceLocID))
		return
	}
	lut, err := openLayer(dir, layerUseLUT)
	if err != nil {
		result.Warnings = append(result.Warnings, "use code lookup unavailable: "+eris.ToString(err, false))
		return
	}
	for _, f := range lut.features {
		if f.attrs["USE_CODE"] == useCode {
			if desc := f.attrs["USE_DESC"]; desc != "" {
				data["useDescription"] = desc
			}
			return
		}
	}
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("use code %s not present in lookup table", useCode))
}
