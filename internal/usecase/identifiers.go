package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns
var (
	// 10 to 13 digits, single hyphen or space between any two, the last one
	// possibly the ISBN-10 check character X. Checksums are not validated.
	isbnPattern = regexp.MustCompile(`\b(?:\d[- ]?){9,12}[\dX]\b`)

	asinPattern = regexp.MustCompile(`/dp/([A-Z0-9]{10})`)
)

// amazonMarker identifies marketplace URLs among search results
const amazonMarker = "amazon.com"

// ExtractISBN returns the first ISBN-shaped digit run in text with hyphens and
// spaces removed. The match is not anchored to an "ISBN" label, so any
// qualifying run (a barcode, for instance) is accepted.
func ExtractISBN(text string) (string, bool) {
	match := isbnPattern.FindString(text)
	if match == "" {
		return "", false
	}
	return strings.NewReplacer("-", "", " ", "").Replace(match), true
}

// ExtractASIN returns the 10-character product code from a /dp/<code> URL segment
func ExtractASIN(url string) (string, bool) {
	m := asinPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FindASIN scans search results in order and returns the first ASIN found in
// an Amazon URL. Non-Amazon URLs are skipped.
func FindASIN(urls []string) (string, bool) {
	for _, u := range urls {
		if !strings.Contains(u, amazonMarker) {
			continue
		}
		if asin, ok := ExtractASIN(u); ok {
			return asin, true
		}
	}
	return "", false
}

// buildSearchQuery is the web search used to resolve an ISBN to an Amazon listing
func buildSearchQuery(isbn string) string {
	return isbn + " amazon"
}
