package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoISBN is returned when the recognized text carries no ISBN-shaped digit run
	ErrNoISBN = errors.New("no ISBN found in recognized text")

	// ErrNoASIN is returned when none of the search results links to an Amazon product page
	ErrNoASIN = errors.New("no ASIN found in search results")

	// ErrProductNotFound is returned when the product API has no product for an ASIN
	ErrProductNotFound = errors.New("product not found")

	// ErrProductAPIFailure is returned when the Canopy API request fails or answers non-200
	ErrProductAPIFailure = errors.New("failed to fetch data from Canopy API")

	// ErrInvalidPrice is returned when a display price cannot be parsed
	ErrInvalidPrice = errors.New("invalid display price")

	// ErrOCRFailure is returned when the OCR provider call fails
	ErrOCRFailure = errors.New("OCR request failed")

	// ErrSearchFailure is returned when the search provider call fails
	ErrSearchFailure = errors.New("search request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)

// ProviderError carries a message reported by an upstream provider that must
// reach the client unchanged.
type ProviderError struct {
	Provider string
	Message  string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// Unwrap lets callers match provider errors with errors.Is(err, ErrOCRFailure).
func (e *ProviderError) Unwrap() error {
	return ErrOCRFailure
}

// Stage names a step of the scouting pipeline.
type Stage string

const (
	StageOCR           Stage = "ocr"
	StageISBN          Stage = "isbn"
	StageSearch        Stage = "search"
	StageASIN          Stage = "asin"
	StageProduct       Stage = "product"
	StageProfitability Stage = "profitability"
)

// StageError is the terminal failure of one pipeline step. Status is the HTTP
// status the delivery layer answers with and Message is the client-facing text.
type StageError struct {
	Stage   Stage
	Status  int
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
