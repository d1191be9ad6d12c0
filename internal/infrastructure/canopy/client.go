package canopy

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bookscout/backend/internal/domain"
	"github.com/go-resty/resty/v2"
	"github.com/lithammer/dedent"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the Canopy GraphQL endpoint
const DefaultBaseURL = "https://graphql.canopyapi.co/"

var productQuery = strings.TrimSpace(dedent.Dedent(`
	query amazonProduct($asin: String!) {
	  amazonProduct(input: {asin: $asin}) {
	    title
	    mainImageUrl
	    rating
	    price {
	      display
	    }
	  }
	}
`))

// Client talks to the Canopy GraphQL product API
type Client struct {
	httpClient *resty.Client
	apiKey     string
	baseURL    string
	debug      bool
}

// NewClient creates a new Canopy API client
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: resty.New().
			SetTimeout(30*time.Second).
			SetHeaders(map[string]string{
				"Content-Type": "application/json",
				"API-KEY":      apiKey,
			}),
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// SetDebug toggles resty request/response dumps
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
	c.httpClient.SetDebug(debug)
}

// SetTimeout overrides the per-request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.httpClient.SetTimeout(timeout)
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// LookupProduct sends the product query for asin and returns the decoded body.
// Transport failures and non-200 answers return domain.ErrProductAPIFailure.
// A 200 answer may still carry no product; callers check Data.AmazonProduct.
func (c *Client) LookupProduct(ctx context.Context, asin string) (*Response, error) {
	log.Debug().Str("component", "canopy").Str("asin", asin).Msg("looking up product")

	var result Response
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(graphQLRequest{
			Query:     productQuery,
			Variables: map[string]any{"asin": asin},
		}).
		SetResult(&result).
		Post(c.baseURL)
	if err != nil {
		log.Error().Str("component", "canopy").Err(err).Str("asin", asin).Msg("request error")
		return nil, fmt.Errorf("%w: %v", domain.ErrProductAPIFailure, err)
	}

	if resp.StatusCode() != http.StatusOK {
		log.Error().
			Str("component", "canopy").
			Int("status", resp.StatusCode()).
			Str("body", string(resp.Body())).
			Msg("API error")
		return nil, fmt.Errorf("%w: status %d", domain.ErrProductAPIFailure, resp.StatusCode())
	}

	for _, gqlErr := range result.Errors {
		log.Warn().Str("component", "canopy").Str("asin", asin).Str("error", gqlErr.Message).Msg("GraphQL error")
	}

	return &result, nil
}

// GetProduct looks up asin and maps the answer to a domain record.
// It returns nil, nil when the API answered without a product.
func (c *Client) GetProduct(ctx context.Context, asin string) (*domain.ProductRecord, error) {
	resp, err := c.LookupProduct(ctx, asin)
	if err != nil {
		return nil, err
	}
	return MapToProductRecord(resp), nil
}
