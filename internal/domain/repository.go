package domain

import "context"

// TextRecognizer detects text in an image.
// Annotations are ordered as the provider returns them; the first one holds
// the full recognized text. A provider-reported failure is a *ProviderError.
type TextRecognizer interface {
	DetectText(ctx context.Context, image []byte) ([]string, error)
}

// SearchProvider runs a web search and returns result URLs in ranking order
type SearchProvider interface {
	Search(ctx context.Context, query string, numResults int) ([]string, error)
}

// ProductClient fetches product data for an ASIN.
// A nil record with a nil error means the API answered but had no such product.
type ProductClient interface {
	GetProduct(ctx context.Context, asin string) (*ProductRecord, error)
}
