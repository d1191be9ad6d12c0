package canopy

import "github.com/bookscout/backend/internal/domain"

// Response is the GraphQL envelope returned by Canopy
type Response struct {
	Data   Data           `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// Data holds the query result; AmazonProduct is nil for unknown or delisted ASINs
type Data struct {
	AmazonProduct *AmazonProduct `json:"amazonProduct"`
}

// AmazonProduct mirrors the selected fields of the amazonProduct query
type AmazonProduct struct {
	Title        *string  `json:"title"`
	MainImageURL *string  `json:"mainImageUrl"`
	Rating       *float64 `json:"rating"`
	Price        *Price   `json:"price"`
}

// Price is Canopy's money object
type Price struct {
	Display *string `json:"display"`
}

// GraphQLError is one entry of a GraphQL errors array
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// MapToProductRecord converts a Canopy response to our domain ProductRecord.
// Absent fields become empty strings.
func MapToProductRecord(resp *Response) *domain.ProductRecord {
	if resp == nil || resp.Data.AmazonProduct == nil {
		return nil
	}
	p := resp.Data.AmazonProduct

	record := &domain.ProductRecord{
		Title:        stringValue(p.Title),
		MainImageURL: stringValue(p.MainImageURL),
		Rating:       p.Rating,
	}
	if p.Price != nil {
		record.DisplayPrice = stringValue(p.Price.Display)
	}
	return record
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
