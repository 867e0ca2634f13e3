package source

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/valugen/comps-cli/internal/address"
	"github.com/valugen/comps-cli/internal/model"
	"github.com/valugen/comps-cli/internal/parse"
)

const serpConfidence = 0.6

// serpQueryTemplates cover the phrasings that surface recent commercial sale
// coverage. %[1]s is the property type, %[2]s the city, %[3]s the state.
var serpQueryTemplates = []string{
	`%[1]s property sold %[2]s %[3]s`,
	`%[1]s building sale %[2]s %[3]s recent`,
	`commercial real estate transaction %[2]s %[3]s %[1]s`,
	`"%[2]s" %[1]s property sale price`,
	`%[1]s for sale sold %[2]s Massachusetts`,
	`%[2]s %[3]s %[1]s real estate closed sale`,
	`recently sold %[1]s %[2]s %[3]s square feet`,
}

type serpEngine struct {
	name      string
	searchURL string // fmt template taking the escaped query
	resultSel string
}

var serpEngines = []serpEngine{
	{name: "google", searchURL: "https://www.google.com/search?q=%s&num=20", resultSel: `div#search`},
	{name: "bing", searchURL: "https://www.bing.com/search?q=%s&count=20", resultSel: `ol#b_results`},
}

// SERP mines web search result snippets for sale mentions. Lowest
// confidence of the four sources; snippets are noisy and undated text
// costs a record its recency standing downstream.
type SERP struct {
	browser  *Browser
	throttle *Throttler
}

func NewSERP(browser *Browser, throttle *Throttler) *SERP {
	return &SERP{browser: browser, throttle: throttle}
}

// Name implements Source.
func (s *SERP) Name() string { return LabelSERP }

// Search implements Source.
func (s *SERP) Search(ctx context.Context, q Query) ([]model.CandidateRecord, error) {
	log := zap.L().With(zap.String("source", LabelSERP), zap.String("city", q.City))

	var records []model.CandidateRecord
	seen := make(map[string]bool)

	for _, tmpl := range serpQueryTemplates {
		query := fmt.Sprintf(tmpl, q.PropertyType, q.City, q.State)
		for _, eng := range serpEngines {
			if err := s.throttle.Wait(ctx); err != nil {
				return records, eris.Wrap(err, "source: serp throttle")
			}

			var html string
			err := s.browser.Run(ctx,
				chromedp.Navigate(fmt.Sprintf(eng.searchURL, url.QueryEscape(query))),
				chromedp.WaitVisible(eng.resultSel, chromedp.ByQuery),
				chromedp.Sleep(time.Second),
				chromedp.OuterHTML(eng.resultSel, &html, chromedp.ByQuery),
			)
			if err != nil {
				// One engine refusing a query must not sink the rest.
				log.Warn("serp engine fetch failed",
					zap.String("engine", eng.name),
					zap.String("query", query),
					zap.Error(err),
				)
				continue
			}

			for _, snippet := range SplitSnippets(html) {
				rec, ok := ExtractSaleMention(snippet, q)
				if !ok {
					continue
				}
				key := address.Normalize(rec.Address)
				if seen[key] {
					continue
				}
				seen[key] = true
				records = append(records, rec)
			}
		}
	}

	records = dropStaleSERP(records, q.YearsBack)
	log.Info("serp mentions extracted", zap.Int("records", len(records)))
	return records, nil
}

var (
	snippetRe = regexp.MustCompile(`(?is)<(?:div|li)[^>]*class="[^"]*(?:\bg\b|b_algo|MjjYud)[^"]*"[^>]*>.*?</(?:div|li)>`)

	// Street address: number plus a capitalized street name ending in a
	// recognizable suffix. Snippet text offers nothing more structured.
	serpAddrRe = regexp.MustCompile(`\b(\d{1,5}(?:-\d{1,5})?\s+[A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+){0,3}\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Way|Place|Pl|Court|Ct|Parkway|Pkwy)\b\.?)`)

	serpPriceRe = regexp.MustCompile(`\$\s?([\d,]+(?:\.\d+)?)\s*(million|M\b|mm\b)?`)
	serpDateRe  = regexp.MustCompile(`\b(?:(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+\d{1,2},?\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4})\b`)
	serpSqFtRe  = regexp.MustCompile(`([\d,]+)\s*(?:sq\.?\s?ft|square\s+feet|SF\b)`)
	serpTypeRe  = regexp.MustCompile(`(?i)\b(retail|office|industrial|warehouse|apartment|mixed[- ]use|commercial)\b`)

	saleVerbRe = regexp.MustCompile(`(?i)\b(sold|sale|sells|purchased|acquired|traded|closed)\b`)
)

// SplitSnippets carves a result page into per-result chunks of visible text.
func SplitSnippets(html string) []string {
	raws := snippetRe.FindAllString(html, -1)
	out := make([]string, 0, len(raws))
	for _, raw := range raws {
		text := strings.TrimSpace(stripTags(raw))
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

// ExtractSaleMention pulls a candidate record out of a snippet's text. A
// usable mention names an address and carries at least a price or a date;
// it must also read like a sale and reference the searched city.
func ExtractSaleMention(text string, q Query) (model.CandidateRecord, bool) {
	if !saleVerbRe.MatchString(text) {
		return model.CandidateRecord{}, false
	}
	if q.City != "" && !strings.Contains(strings.ToLower(text), strings.ToLower(q.City)) {
		return model.CandidateRecord{}, false
	}

	var rec model.CandidateRecord
	if m := serpAddrRe.FindStringSubmatch(text); m != nil {
		rec.Address = strings.TrimSuffix(strings.TrimSpace(m[1]), ".")
	}
	if rec.Address == "" {
		return model.CandidateRecord{}, false
	}

	if m := serpPriceRe.FindStringSubmatch(text); m != nil {
		if m[2] != "" {
			// "$4.2 million" style; keep the decimal before scaling.
			if f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
				rec.SalePrice = model.IntPtr(int(f * 1_000_000))
			}
		} else if v, ok := parse.Price(m[1]); ok {
			rec.SalePrice = model.IntPtr(v)
		}
	}
	if m := serpDateRe.FindString(text); m != "" {
		if d, ok := parse.Date(m); ok {
			rec.SaleDate = d
		}
	}
	if rec.SalePrice == nil && rec.SaleDate == "" {
		return model.CandidateRecord{}, false
	}

	if m := serpSqFtRe.FindStringSubmatch(text); m != nil {
		if v, ok := parse.Area(m[1]); ok {
			rec.BuildingSizeSqFt = model.IntPtr(v)
		}
	}
	if m := serpTypeRe.FindString(text); m != "" {
		rec.PropertyType = titleCase(strings.ToLower(m))
	}

	rec.Source = "Web Search"
	rec.SetConfidence(serpConfidence)
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	rec.BriefDescription = text
	return rec, true
}

// dropStaleSERP removes mentions whose date parses but falls outside the
// lookback window. Undated mentions survive; the recency stage downstream
// caps their confidence instead.
func dropStaleSERP(records []model.CandidateRecord, yearsBack int) []model.CandidateRecord {
	if yearsBack <= 0 {
		return records
	}
	cutoff := time.Now().AddDate(-yearsBack, 0, 0)
	out := records[:0]
	for _, rec := range records {
		if rec.SaleDate != "" {
			if t, ok := parse.SaleTime(rec.SaleDate); ok && t.Before(cutoff) {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}
