package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/valugen/comps-cli/internal/model"
	"github.com/valugen/comps-cli/internal/parse"
)

// massGISConfidence reflects GIS parcel attributes: authoritative but often
// staler than a direct assessor sale listing.
const massGISConfidence = 0.8

const (
	massGISViewerURL = "https://massgis.maps.arcgis.com/apps/OnePane/basicviewer/index.html"
	massGISAppID     = "47689963e7bb4007961676ad9fc56ae9"
)

// MassGIS extracts parcel attributes from the statewide property tax parcel
// viewer by sampling parcel popups around the searched municipality.
type MassGIS struct {
	browser    *Browser
	throttle   *Throttler
	maxParcels int
}

// NewMassGIS creates the GIS viewer source. maxParcels bounds how many
// parcel popups are sampled per search.
func NewMassGIS(browser *Browser, throttle *Throttler, maxParcels int) *MassGIS {
	if maxParcels <= 0 {
		maxParcels = 20
	}
	return &MassGIS{browser: browser, throttle: throttle, maxParcels: maxParcels}
}

// Name implements Source.
func (m *MassGIS) Name() string { return LabelMassGIS }

// collectPopupsJS clicks up to max parcel graphics on the viewer map and
// collects the popup HTML each click produces.
const collectPopupsJS = `
(function(max) {
  const out = [];
  const shapes = document.querySelectorAll('svg g[clip-path] g path, path[fill-opacity="0"]');
  for (let i = 0; i < shapes.length && out.length < max; i++) {
    shapes[i].dispatchEvent(new MouseEvent('click', {bubbles: true}));
    const popup = document.querySelector('div.esriPopup, div.esri-popup, div.esri-view-popup__main-container');
    if (popup && popup.offsetParent !== null) {
      out.push(popup.innerHTML);
      const close = popup.querySelector('div.close, button[title="Close"]');
      if (close) close.click();
    }
  }
  return out;
})(%d)`

// Search implements Source.
func (m *MassGIS) Search(ctx context.Context, q Query) ([]model.CandidateRecord, error) {
	if err := m.throttle.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "source: massgis throttle")
	}

	log := zap.L().With(zap.String("source", LabelMassGIS), zap.String("city", q.City))

	var popups []string
	searchSel := `input#searchInput, input[placeholder="Find address or place"]`
	err := m.browser.Run(ctx,
		chromedp.Navigate(fmt.Sprintf("%s?appid=%s", massGISViewerURL, massGISAppID)),
		chromedp.WaitVisible(searchSel, chromedp.ByQuery),
		chromedp.SendKeys(searchSel, q.City+"\n", chromedp.ByQuery),
		chromedp.Sleep(3*time.Second), // let the map pan and parcel layer render
		chromedp.Evaluate(fmt.Sprintf(collectPopupsJS, m.maxParcels), &popups),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "source: massgis viewer search for %s", q.City)
	}

	var records []model.CandidateRecord
	for _, popupHTML := range popups {
		rec, ok := ParseMassGISPopup(popupHTML)
		if !ok {
			continue
		}
		if q.PropertyType != "" && !MatchesPropertyType(rec, q.PropertyType) {
			continue
		}
		records = append(records, rec)
	}

	log.Info("massgis parcels extracted",
		zap.Int("popups", len(popups)),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// Popup field patterns, ordered from the specific markup we have seen to
// generic label/strong adjacency.
var (
	gisAddrRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:Site Address|Address|Location):\s*<strong>([^<]+)</strong>`),
		regexp.MustCompile(`(?is)<div[^>]*class="title"[^>]*>([^<]+)</div>`),
		regexp.MustCompile(`(?is)<div[^>]*class="hzLine"[^>]*>Site Address:\s*([^<]+)</div>`),
	}
	gisUseRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:Use Code|Property Use|Prop Class):\s*<strong>(\d+)\s*-\s*([^<]+)</strong>`),
		regexp.MustCompile(`(?is)(?:Use Code|Property Use|Prop Class):\s*<strong>([^<]+)</strong>`),
		regexp.MustCompile(`(?is)<div[^>]*class="hzLine"[^>]*>Use Code:\s*(\d+)\s*-\s*([^<]+)</div>`),
	}
	gisValueRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:Total Value|Assessed Value):\s*<strong>\$([\d,]+)</strong>`),
		regexp.MustCompile(`(?is)<div[^>]*class="hzLine"[^>]*>Total Value:\s*\$([\d,]+)</div>`),
	}
	gisLotRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:Lot Size|Land Area):\s*<strong>([^<]+)</strong>`),
		regexp.MustCompile(`(?is)<div[^>]*class="hzLine"[^>]*>Lot Size:\s*([^<]+)</div>`),
	}
	gisSaleDateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:Last Sale Date|Sale Date):\s*<strong>([^<]+)</strong>`),
		regexp.MustCompile(`(?is)<div[^>]*class="hzLine"[^>]*>Last Sale Date:\s*([^<]+)</div>`),
	}
	gisSalePriceRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:Last Sale Price|Sale Price):\s*<strong>\$([\d,]+)</strong>`),
		regexp.MustCompile(`(?is)<div[^>]*class="hzLine"[^>]*>Last Sale Price:\s*\$([\d,]+)</div>`),
	}
)

func firstMatch(html string, res []*regexp.Regexp) []string {
	for _, re := range res {
		if m := re.FindStringSubmatch(html); m != nil {
			return m
		}
	}
	return nil
}

// ParseMassGISPopup extracts a candidate record from a parcel popup's HTML.
// Returns false when no address is present; an address-less parcel cannot
// participate in merging.
func ParseMassGISPopup(popupHTML string) (model.CandidateRecord, bool) {
	var rec model.CandidateRecord

	if m := firstMatch(popupHTML, gisAddrRes); m != nil {
		rec.Address = strings.TrimSpace(m[1])
	}
	if rec.Address == "" {
		return model.CandidateRecord{}, false
	}

	if m := firstMatch(popupHTML, gisUseRes); m != nil {
		if len(m) == 3 {
			rec.UseCode = strings.TrimSpace(m[1])
			rec.PropertyType = strings.TrimSpace(m[2])
		} else {
			rec.PropertyType = strings.TrimSpace(m[1])
		}
	}
	if m := firstMatch(popupHTML, gisValueRes); m != nil {
		if v, ok := parse.Price(m[1]); ok {
			rec.AssessedValue = model.IntPtr(v)
		}
	}
	if m := firstMatch(popupHTML, gisLotRes); m != nil {
		if v, ok := parse.Area(m[1]); ok {
			rec.LotSizeSqFt = model.IntPtr(v)
		}
	}
	if m := firstMatch(popupHTML, gisSaleDateRes); m != nil {
		if d, ok := parse.Date(strings.TrimSpace(m[1])); ok {
			rec.SaleDate = d
		} else {
			zap.L().Warn("massgis: unparsable sale date in popup", zap.String("raw", strings.TrimSpace(m[1])))
		}
	}
	if m := firstMatch(popupHTML, gisSalePriceRes); m != nil {
		if v, ok := parse.Price(m[1]); ok {
			rec.SalePrice = model.IntPtr(v)
		}
	}

	rec.Source = "MassGIS Property Viewer"
	rec.SetConfidence(massGISConfidence)

	var desc []string
	if rec.PropertyType != "" {
		desc = append(desc, rec.PropertyType)
	}
	if rec.LotSizeSqFt != nil {
		desc = append(desc, fmt.Sprintf("%d sq ft lot", *rec.LotSizeSqFt))
	}
	if rec.AssessedValue != nil {
		desc = append(desc, fmt.Sprintf("Assessed: $%d", *rec.AssessedValue))
	}
	if len(desc) > 0 {
		rec.BriefDescription = strings.Join(desc, ", ")
	} else {
		rec.BriefDescription = "Property data from MassGIS"
	}

	return rec, true
}

// officeCodes and retailCodes are the common Vision-style use codes for
// those categories, used when the popup's type text is too generic.
var (
	officeCodes = map[string]bool{"340": true, "341": true, "343": true, "344": true}
	retailCodes = map[string]bool{"300": true, "301": true, "325": true, "327": true}
)

// MatchesPropertyType reports whether a parcel record plausibly matches the
// requested property type, by type-text keywords first and use-code prefix
// conventions second.
func MatchesPropertyType(rec model.CandidateRecord, target string) bool {
	if rec.PropertyType == "" && rec.UseCode == "" {
		return false
	}
	pt := strings.ToLower(rec.PropertyType)
	tgt := strings.ToLower(target)

	if pt != "" && strings.Contains(pt, tgt) {
		return true
	}

	keywordSets := map[string][]string{
		"commercial": {"commercial", "retail", "office", "industrial", "warehouse", "mixed use", "business", "store", "shop"},
		"industrial": {"industrial", "mfg", "manufacturing", "warehouse"},
		"office":     {"office"},
		"retail":     {"retail", "store", "shop"},
	}
	if keywords, ok := keywordSets[tgt]; ok && pt != "" {
		for _, kw := range keywords {
			if strings.Contains(pt, kw) {
				return true
			}
		}
	}

	switch {
	case rec.UseCode == "":
		return false
	case tgt == "commercial" && strings.HasPrefix(rec.UseCode, "3"):
		return true
	case tgt == "industrial" && strings.HasPrefix(rec.UseCode, "4"):
		return true
	case tgt == "office" && officeCodes[rec.UseCode]:
		return true
	case tgt == "retail" && retailCodes[rec.UseCode]:
		return true
	}
	return false
}
