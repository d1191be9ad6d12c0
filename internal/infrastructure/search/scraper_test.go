package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/bookscout/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<a href="/search?q=9781234567890+amazon&tbm=isch">Images</a>
<a href="https://accounts.google.com/ServiceLogin">Sign in</a>
<div class="ezO2md">
  <a href="/url?q=https://www.amazon.com/Example-Book/dp/B00EXAMPLE&sa=U&ved=2ah">Example Book: Amazon.com</a>
</div>
<div class="ezO2md">
  <a href="/url?q=https://www.amazon.com/Example-Book/dp/B00EXAMPLE&sa=U&ved=3ah">Example Book duplicate</a>
</div>
<div class="ezO2md">
  <a href="/url?q=https://www.goodreads.com/book/show/42&sa=U">Goodreads</a>
</div>
<div class="ezO2md">
  <a href="https://www.abebooks.com/9781234567890/">AbeBooks</a>
</div>
<div class="ezO2md">
  <a href="/url?q=https://maps.google.com/&sa=U">Maps</a>
</div>
<div class="ezO2md">
  <a href="/url?q=https://www.ebay.com/itm/1&sa=U">eBay</a>
</div>
</body></html>`

func TestParseResultLinks(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resultsPage))
	require.NoError(t, err)

	urls := ParseResultLinks(doc, 5)

	assert.Equal(t, []string{
		"https://www.amazon.com/Example-Book/dp/B00EXAMPLE",
		"https://www.goodreads.com/book/show/42",
		"https://www.abebooks.com/9781234567890/",
		"https://www.ebay.com/itm/1",
	}, urls)
}

func TestParseResultLinks_Limit(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resultsPage))
	require.NoError(t, err)

	urls := ParseResultLinks(doc, 2)

	assert.Len(t, urls, 2)
	assert.Equal(t, "https://www.amazon.com/Example-Book/dp/B00EXAMPLE", urls[0])
}

func TestResultURL(t *testing.T) {
	tests := []struct {
		href   string
		want   string
		wantOK bool
	}{
		{"/url?q=https://www.amazon.com/dp/B00EXAMPLE&sa=U", "https://www.amazon.com/dp/B00EXAMPLE", true},
		{"/url?url=https://www.amazon.com/dp/B00EXAMPLE", "https://www.amazon.com/dp/B00EXAMPLE", true},
		{"https://www.amazon.com/dp/B00EXAMPLE", "https://www.amazon.com/dp/B00EXAMPLE", true},
		{"/search?q=next+page", "", false},
		{"#", "", false},
		{"mailto:someone@example.com", "", false},
		{"https://www.google.com/preferences", "", false},
		{"https://webcache.googleusercontent.com/search?q=cache", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, ok := resultURL(tt.href)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScraperSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "9781234567890 amazon", r.URL.Query().Get("q"))
		assert.Equal(t, "7", r.URL.Query().Get("num"))
		assert.Equal(t, "en", r.URL.Query().Get("hl"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	scraper := NewScraper(server.URL, "")
	urls, err := scraper.Search(context.Background(), "9781234567890 amazon", 5)

	require.NoError(t, err)
	require.NotEmpty(t, urls)
	assert.Equal(t, "https://www.amazon.com/Example-Book/dp/B00EXAMPLE", urls[0])
}

func TestScraperSearch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	urls, err := NewScraper(server.URL, "test-agent").Search(context.Background(), "query", 5)

	assert.Nil(t, urls)
	assert.ErrorIs(t, err, domain.ErrSearchFailure)
	assert.Contains(t, err.Error(), "429")
}

func TestScraperSearch_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>No results</body></html>"))
	}))
	defer server.Close()

	urls, err := NewScraper(server.URL, "").Search(context.Background(), "query", 5)

	require.NoError(t, err)
	assert.Empty(t, urls)
}
