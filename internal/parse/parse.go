// Package parse holds the shared text-parsing helpers for scraped assessor,
// registry, and search-result content. All functions are best-effort: failure
// to parse means "field absent", never an error; the pipeline downstream
// penalizes missing data via confidence instead of dropping records outright.
package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// ISODate is the canonical sale-date layout used across the pipeline.
	ISODate = "2006-01-02"

	// SqFtPerAcre converts assessor lot sizes quoted in acres.
	SqFtPerAcre = 43560
)

var (
	digitsRe   = regexp.MustCompile(`[^\d]`)
	groupedRe  = regexp.MustCompile(`([\d,]+)`)
	yearRe     = regexp.MustCompile(`(\d{4})`)
	decimalRe  = regexp.MustCompile(`([\d.]+)`)
)

// Price extracts an integer dollar amount from text like "$1,250,000".
// Returns (0, false) when no digits are present.
func Price(text string) (int, bool) {
	cleaned := digitsRe.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Area extracts an integer square footage from text like "12,500 SF".
// When the text is quoted in acres ("1.5 AC") it converts to square feet.
func Area(text string) (int, bool) {
	if strings.Contains(strings.ToUpper(text), "AC") {
		if m := decimalRe.FindStringSubmatch(text); m != nil {
			acres, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return int(acres * SqFtPerAcre), true
			}
		}
		return 0, false
	}
	m := groupedRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return v, true
}

// Year extracts the first 4-digit year from text.
func Year(text string) (int, bool) {
	m := yearRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// dateLayouts are the formats seen across assessor sites, GIS popups, and
// search snippets, tried in order.
var dateLayouts = []string{
	"1/2/2006",
	"1/2/06",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan. 2, 2006",
	ISODate,
}

// Date normalizes a free-text date to YYYY-MM-DD. Returns ("", false) when
// no known layout matches.
func Date(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format(ISODate), true
		}
	}
	return "", false
}

// SaleYear parses a canonical YYYY-MM-DD sale date and returns its year.
func SaleYear(isoDate string) (int, bool) {
	t, err := time.Parse(ISODate, isoDate)
	if err != nil {
		return 0, false
	}
	return t.Year(), true
}

// SaleTime parses a canonical YYYY-MM-DD sale date.
func SaleTime(isoDate string) (time.Time, bool) {
	t, err := time.Parse(ISODate, isoDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
