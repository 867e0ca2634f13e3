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

// visionConfidence is the default score for a Vision assessor sale record:
// a direct sale listing from the taxing authority itself.
const visionConfidence = 0.9

// visionUseCodes maps broad property types to Vision use-code dropdown
// values. Lookup is exact first, then substring.
var visionUseCodes = map[string]string{
	"retail":      "300",
	"office":      "340",
	"industrial":  "400",
	"warehouse":   "401",
	"apartment":   "111",
	"mixed use":   "013",
	"commercial":  "3",
	"residential": "1",
}

// VisionUseCode maps a property type to the site's use-code value.
func VisionUseCode(propertyType string) (string, bool) {
	pt := strings.ToLower(propertyType)
	if code, ok := visionUseCodes[pt]; ok {
		return code, true
	}
	for key, code := range visionUseCodes {
		if strings.Contains(pt, key) {
			return code, true
		}
	}
	return "", false
}

func visionBaseURL(municipality string) string {
	clean := strings.ReplaceAll(strings.ToLower(municipality), " ", "")
	return fmt.Sprintf("https://gis.vgsi.com/%sma/", clean)
}

// searchVision drives the Vision Government Solutions sales search for one
// municipality and parses the results table plus per-parcel detail pages.
func (a *Assessor) searchVision(ctx context.Context, q Query, log *zap.Logger) ([]model.CandidateRecord, error) {
	if err := a.throttle.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "source: vision throttle")
	}

	baseURL := visionBaseURL(q.City)
	currentYear := time.Now().Year()
	startYear := currentYear - q.YearsBack

	actions := []chromedp.Action{
		chromedp.Navigate(baseURL + "Sales/SalesSearch.aspx"),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.SetValue(`select[name$="ddlSaleYear1"]`, fmt.Sprintf("%d", startYear), chromedp.ByQuery),
		chromedp.SetValue(`select[name$="ddlSaleYear2"]`, fmt.Sprintf("%d", currentYear), chromedp.ByQuery),
	}
	if code, ok := VisionUseCode(q.PropertyType); ok {
		actions = append(actions, chromedp.SetValue(`select[name$="ddlUseCode"]`, code, chromedp.ByQuery))
	} else {
		log.Warn("no vision use code for property type", zap.String("property_type", q.PropertyType))
	}

	var pageHTML string
	actions = append(actions,
		chromedp.Click(`input[type="submit"]`, chromedp.ByQuery),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
	)

	if err := a.browser.Run(ctx, actions...); err != nil {
		return nil, eris.Wrapf(err, "source: vision sales search for %s", q.City)
	}

	rows := ParseVisionSales(pageHTML, q.City)
	log.Info("vision sales rows parsed", zap.Int("rows", len(rows)))

	// Enrich each sale from its parcel detail page; a failed detail fetch
	// leaves the sale with just the search-row fields.
	for i := range rows {
		if rows[i].ParcelID == "" {
			continue
		}
		if err := a.throttle.Wait(ctx); err != nil {
			return rows, eris.Wrap(err, "source: vision throttle")
		}
		var detailHTML string
		detailURL := baseURL + "Parcel.aspx?pid=" + rows[i].ParcelID
		err := a.browser.Run(ctx,
			chromedp.Navigate(detailURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.OuterHTML("html", &detailHTML, chromedp.ByQuery),
		)
		if err != nil {
			log.Warn("vision detail fetch failed",
				zap.String("parcel_id", rows[i].ParcelID),
				zap.Error(err),
			)
			continue
		}
		FillVisionDetails(&rows[i], detailHTML)
	}

	return rows, nil
}

var (
	visionRowRe  = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	visionCellRe = regexp.MustCompile(`(?is)<td[^>]*>(.*?)</td>`)
	visionPIDRe  = regexp.MustCompile(`(?i)(?:pid|parid)=([^&"']+)`)
	tagRe        = regexp.MustCompile(`(?s)<[^>]*>`)
)

func stripTags(s string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(s, " "))
}

// ParseVisionSales extracts sale rows from a Vision sales-search results
// page. Expected cell order: parcel, sale date, sale price, address. Rows
// missing a parseable date or price are skipped; a sale record without
// either is useless as a comp.
func ParseVisionSales(pageHTML, municipality string) []model.CandidateRecord {
	var sales []model.CandidateRecord

	for _, rowMatch := range visionRowRe.FindAllStringSubmatch(pageHTML, -1) {
		cells := visionCellRe.FindAllStringSubmatch(rowMatch[1], -1)
		if len(cells) < 4 {
			continue
		}

		parcelCell := cells[0][1]
		parcelID := ""
		if m := visionPIDRe.FindStringSubmatch(parcelCell); m != nil {
			parcelID = m[1]
		} else {
			parcelID = stripTags(parcelCell)
		}

		saleDate, dateOK := parse.Date(stripTags(cells[1][1]))
		salePrice, priceOK := parse.Price(stripTags(cells[2][1]))
		addr := stripTags(cells[3][1])

		if !dateOK || !priceOK || addr == "" {
			continue
		}

		rec := model.CandidateRecord{
			Address:   addr,
			SaleDate:  saleDate,
			SalePrice: model.IntPtr(salePrice),
			ParcelID:  parcelID,
			Source:    fmt.Sprintf("Vision Government Solutions - %s Assessor", municipality),
		}
		rec.SetConfidence(visionConfidence)
		sales = append(sales, rec)
	}

	return sales
}

// Label-following extraction for Vision parcel detail pages. The sites vary
// in markup but keep "Label ... value" adjacency.
var visionDetailRes = map[string]*regexp.Regexp{
	"building": regexp.MustCompile(`(?is)(?:Building Area|Total Living Area|GBA)\s*:?\s*</[^>]+>\s*<[^>]+>([^<]+)<`),
	"lot":      regexp.MustCompile(`(?is)(?:Land Area|Lot Size)\s*:?\s*</[^>]+>\s*<[^>]+>([^<]+)<`),
	"year":     regexp.MustCompile(`(?is)Year Built\s*:?\s*</[^>]+>\s*<[^>]+>([^<]+)<`),
	"use":      regexp.MustCompile(`(?is)(?:Property Use|Use Code|Prop Class)\s*:?\s*</[^>]+>\s*<[^>]+>([^<]+)<`),
	"style":    regexp.MustCompile(`(?is)(?:Building Style|Style)\s*:?\s*</[^>]+>\s*<[^>]+>([^<]+)<`),
	"grade":    regexp.MustCompile(`(?is)(?:Grade|Condition)\s*:?\s*</[^>]+>\s*<[^>]+>([^<]+)<`),
}

// FillVisionDetails enriches a sale record from its parcel detail page HTML.
// Fields that fail to parse are simply left unset.
func FillVisionDetails(rec *model.CandidateRecord, detailHTML string) {
	extract := func(key string) (string, bool) {
		m := visionDetailRes[key].FindStringSubmatch(detailHTML)
		if m == nil {
			return "", false
		}
		v := strings.TrimSpace(m[1])
		return v, v != ""
	}

	if v, ok := extract("building"); ok {
		if area, areaOK := parse.Area(v); areaOK {
			rec.BuildingSizeSqFt = model.IntPtr(area)
		}
	}
	if v, ok := extract("lot"); ok {
		if area, areaOK := parse.Area(v); areaOK {
			rec.LotSizeSqFt = model.IntPtr(area)
		}
	}
	if v, ok := extract("year"); ok {
		if year, yearOK := parse.Year(v); yearOK {
			rec.YearBuilt = model.IntPtr(year)
		}
	}
	if v, ok := extract("use"); ok {
		rec.PropertyType = v
	}

	var descParts []string
	if v, ok := extract("style"); ok {
		descParts = append(descParts, "Style: "+v)
	}
	if v, ok := extract("grade"); ok {
		descParts = append(descParts, "Condition: "+v)
	}
	if len(descParts) > 0 {
		rec.BriefDescription = strings.Join(descParts, "; ")
	}
}
