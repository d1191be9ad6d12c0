// Package search resolves queries to ranked result URLs using either the
// Google results page or the Programmable Search JSON API.
package search

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bookscout/backend/internal/domain"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the Google web results page
	DefaultBaseURL = "https://www.google.com/search"

	// DefaultUserAgent gets the lightweight results page, whose links are /url?q= redirects
	DefaultUserAgent = "Lynx/2.8.9rel.1 libwww-FM/2.14 SSL-MM/1.4.1 GNUTLS/3.6.13"
)

// Scraper reads result links from the Google results page
type Scraper struct {
	httpClient *resty.Client
	baseURL    string
}

// NewScraper creates a results-page scraper. Empty arguments fall back to defaults.
func NewScraper(baseURL, userAgent string) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Scraper{
		httpClient: resty.New().
			SetTimeout(15*time.Second).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "*/*").
			SetCookie(&http.Cookie{Name: "CONSENT", Value: "YES+"}),
		baseURL: baseURL,
	}
}

// SetTimeout overrides the request timeout
func (s *Scraper) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		s.httpClient.SetTimeout(timeout)
	}
}

// Search fetches one results page and returns up to numResults outbound links
// in page order.
func (s *Scraper) Search(ctx context.Context, query string, numResults int) ([]string, error) {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":    query,
			"num":  strconv.Itoa(numResults + 2),
			"hl":   "en",
			"safe": "active",
		}).
		Get(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchFailure, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", domain.ErrSearchFailure, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("%w: parse results page: %v", domain.ErrSearchFailure, err)
	}

	urls := ParseResultLinks(doc, numResults)
	log.Debug().Str("component", "search").Str("query", query).Int("results", len(urls)).Msg("scraped results page")
	return urls, nil
}

// ParseResultLinks collects distinct outbound result URLs from a results page.
func ParseResultLinks(doc *goquery.Document, limit int) []string {
	seen := make(map[string]bool)
	var urls []string

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if len(urls) >= limit {
			return false
		}
		href, _ := a.Attr("href")
		target, ok := resultURL(href)
		if !ok || seen[target] {
			return true
		}
		seen[target] = true
		urls = append(urls, target)
		return true
	})

	return urls
}

// resultURL unwraps /url?q= redirects and drops links back into Google itself
func resultURL(href string) (string, bool) {
	if strings.HasPrefix(href, "/url?") {
		u, err := url.Parse(href)
		if err != nil {
			return "", false
		}
		href = u.Query().Get("q")
		if href == "" {
			href = u.Query().Get("url")
		}
	}

	u, err := url.Parse(href)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	if isGoogleHost(u.Hostname()) {
		return "", false
	}
	return href, true
}

func isGoogleHost(host string) bool {
	host = strings.ToLower(host)
	return host == "google.com" ||
		strings.HasSuffix(host, ".google.com") ||
		strings.HasSuffix(host, ".googleusercontent.com") ||
		strings.HasSuffix(host, ".gstatic.com")
}
