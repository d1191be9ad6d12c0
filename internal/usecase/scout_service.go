package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bookscout/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Client-facing messages for each pipeline failure
const (
	MsgNoISBN             = "No ISBN found in the text"
	MsgNoASIN             = "No ASIN found in Google search results"
	MsgProductNotFound    = "Product details not found"
	MsgPriceUnavailable   = "Product price unavailable"
	MsgSearchFailedPrefix = "search provider failed"
)

// DefaultSearchResults is how many search results are scanned for an ASIN
const DefaultSearchResults = 5

// ScoutServiceConfig holds configuration for the scout service
type ScoutServiceConfig struct {
	SearchResults int
	Fees          FeeSchedule
}

// ScoutService turns a book photo into product details and a profitability figure.
// It holds no per-request state and is safe for concurrent use.
type ScoutService struct {
	recognizer    domain.TextRecognizer
	search        domain.SearchProvider
	products      domain.ProductClient
	searchResults int
	fees          FeeSchedule
}

// NewScoutService creates a new scout service with dependencies
func NewScoutService(
	recognizer domain.TextRecognizer,
	search domain.SearchProvider,
	products domain.ProductClient,
	config ScoutServiceConfig,
) *ScoutService {
	searchResults := config.SearchResults
	if searchResults <= 0 {
		searchResults = DefaultSearchResults
	}

	fees := config.Fees
	if fees == (FeeSchedule{}) {
		fees = DefaultFeeSchedule
	}

	return &ScoutService{
		recognizer:    recognizer,
		search:        search,
		products:      products,
		searchResults: searchResults,
		fees:          fees,
	}
}

// Scout runs the whole pipeline for one uploaded image.
// Flow: OCR -> ISBN -> search -> ASIN -> product lookup -> profitability.
// Every failure is a *domain.StageError and stops the pipeline.
func (s *ScoutService) Scout(ctx context.Context, image []byte, buyPrice float64) (*domain.ScoutResult, error) {
	text, err := s.recognizeText(ctx, image)
	if err != nil {
		return nil, err
	}

	isbn, err := s.extractISBN(text)
	if err != nil {
		return nil, err
	}

	asin, err := s.resolveASIN(ctx, isbn)
	if err != nil {
		return nil, err
	}

	product, err := s.lookupProduct(ctx, asin)
	if err != nil {
		return nil, err
	}

	report, err := AnalyzeProfitability(product, buyPrice, s.fees)
	if err != nil {
		log.Warn().Err(err).Str("asin", asin).Msg("cannot compute profitability")
		return nil, &domain.StageError{
			Stage:   domain.StageProfitability,
			Status:  http.StatusInternalServerError,
			Message: MsgPriceUnavailable,
			Err:     err,
		}
	}

	log.Info().
		Str("isbn", isbn).
		Str("asin", asin).
		Str("price", product.DisplayPrice).
		Str("profitability", report.Profitability).
		Msg("book scouted")

	return &domain.ScoutResult{
		ProductDetails: domain.ProductDetails{
			Title:        product.Title,
			ISBN:         isbn,
			ASIN:         asin,
			Price:        product.DisplayPrice,
			MainImageURL: product.MainImageURL,
		},
		Profitability: report,
	}, nil
}

// recognizeText returns the first text annotation, or "" when there is none
func (s *ScoutService) recognizeText(ctx context.Context, image []byte) (string, error) {
	annotations, err := s.recognizer.DetectText(ctx, image)
	if err != nil {
		message := err.Error()
		var providerErr *domain.ProviderError
		if errors.As(err, &providerErr) {
			message = providerErr.Message
		}
		log.Error().Err(err).Msg("text detection failed")
		return "", &domain.StageError{
			Stage:   domain.StageOCR,
			Status:  http.StatusInternalServerError,
			Message: message,
			Err:     err,
		}
	}

	if len(annotations) == 0 {
		return "", nil
	}
	return annotations[0], nil
}

func (s *ScoutService) extractISBN(text string) (string, error) {
	isbn, ok := ExtractISBN(text)
	if !ok {
		log.Info().Int("textLength", len(text)).Msg("no ISBN in recognized text")
		return "", &domain.StageError{
			Stage:   domain.StageISBN,
			Status:  http.StatusBadRequest,
			Message: MsgNoISBN,
			Err:     domain.ErrNoISBN,
		}
	}
	return isbn, nil
}

func (s *ScoutService) resolveASIN(ctx context.Context, isbn string) (string, error) {
	urls, err := s.search.Search(ctx, buildSearchQuery(isbn), s.searchResults)
	if err != nil {
		log.Error().Err(err).Str("isbn", isbn).Msg("search failed")
		return "", &domain.StageError{
			Stage:   domain.StageSearch,
			Status:  http.StatusInternalServerError,
			Message: fmt.Sprintf("%s: %v", MsgSearchFailedPrefix, err),
			Err:     fmt.Errorf("%w: %v", domain.ErrSearchFailure, err),
		}
	}

	asin, ok := FindASIN(urls)
	if !ok {
		log.Info().Str("isbn", isbn).Strs("urls", urls).Msg("no ASIN in search results")
		return "", &domain.StageError{
			Stage:   domain.StageASIN,
			Status:  http.StatusBadRequest,
			Message: MsgNoASIN,
			Err:     domain.ErrNoASIN,
		}
	}
	return asin, nil
}

// lookupProduct answers "not found" both for a failed API call and for a
// missing product; only the log tells them apart.
func (s *ScoutService) lookupProduct(ctx context.Context, asin string) (*domain.ProductRecord, error) {
	product, err := s.products.GetProduct(ctx, asin)
	if err != nil {
		log.Error().Err(err).Str("asin", asin).Msg("product lookup failed")
		return nil, &domain.StageError{
			Stage:   domain.StageProduct,
			Status:  http.StatusBadRequest,
			Message: MsgProductNotFound,
			Err:     err,
		}
	}
	if product == nil {
		log.Info().Str("asin", asin).Msg("product API returned no product")
		return nil, &domain.StageError{
			Stage:   domain.StageProduct,
			Status:  http.StatusBadRequest,
			Message: MsgProductNotFound,
			Err:     domain.ErrProductNotFound,
		}
	}
	return product, nil
}
