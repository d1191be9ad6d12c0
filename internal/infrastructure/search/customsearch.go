package search

import (
	"context"
	"fmt"

	"github.com/bookscout/backend/internal/domain"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxCustomSearchResults is the per-request cap of the JSON API
const maxCustomSearchResults = 10

// CustomSearch queries a Google Programmable Search engine
type CustomSearch struct {
	service  *customsearch.Service
	engineID string
}

// NewCustomSearch creates a Programmable Search provider for engineID
func NewCustomSearch(ctx context.Context, apiKey, engineID string, opts ...option.ClientOption) (*CustomSearch, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search service: %w", err)
	}
	return &CustomSearch{service: service, engineID: engineID}, nil
}

// Search returns the links of the first numResults items
func (c *CustomSearch) Search(ctx context.Context, query string, numResults int) ([]string, error) {
	if numResults > maxCustomSearchResults {
		numResults = maxCustomSearchResults
	}

	res, err := c.service.Cse.List().
		Q(query).
		Cx(c.engineID).
		Num(int64(numResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchFailure, err)
	}

	urls := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}

	log.Debug().Str("component", "search").Str("query", query).Int("results", len(urls)).Msg("custom search done")
	return urls, nil
}
