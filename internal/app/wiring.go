// Package app assembles the scout pipeline from configuration. The HTTP
// server and the operator CLI share it so both run the same providers.
package app

import (
	"context"
	"fmt"

	"github.com/bookscout/backend/config"
	"github.com/bookscout/backend/internal/domain"
	"github.com/bookscout/backend/internal/infrastructure/canopy"
	"github.com/bookscout/backend/internal/infrastructure/gemini"
	"github.com/bookscout/backend/internal/infrastructure/search"
	"github.com/bookscout/backend/internal/infrastructure/vision"
	"github.com/bookscout/backend/internal/usecase"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// NewScoutService builds the OCR, search and product clients named by cfg
// and wires them into a scout service.
func NewScoutService(ctx context.Context, cfg *config.Config) (*usecase.ScoutService, error) {
	recognizer, err := NewRecognizer(ctx, cfg.OCR)
	if err != nil {
		return nil, err
	}

	searcher, err := NewSearchProvider(ctx, cfg.Search)
	if err != nil {
		return nil, err
	}

	products := canopy.NewClient(cfg.Canopy.APIKey, cfg.Canopy.BaseURL)
	if cfg.Canopy.Timeout > 0 {
		products.SetTimeout(cfg.Canopy.Timeout)
	}
	if cfg.Server.Environment == "development" {
		products.SetDebug(true)
		log.Debug().Msg("canopy client debug mode enabled")
	}

	return usecase.NewScoutService(recognizer, searcher, products, usecase.ScoutServiceConfig{
		SearchResults: cfg.Search.NumResults,
		Fees:          FeeSchedule(cfg.Fees),
	}), nil
}

// NewRecognizer returns the configured OCR provider
func NewRecognizer(ctx context.Context, cfg config.OCRConfig) (domain.TextRecognizer, error) {
	switch cfg.Provider {
	case "gemini":
		recognizer, err := gemini.NewRecognizer(ctx, gemini.Options{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("provider", "gemini").Str("model", cfg.GeminiModel).Msg("OCR provider ready")
		return recognizer, nil
	case "vision", "":
		var opts []option.ClientOption
		if cfg.Endpoint != "" {
			// local emulators take no credentials
			opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
		}
		client, err := vision.NewClient(ctx, cfg.CredentialsFile, opts...)
		if err != nil {
			return nil, err
		}
		log.Info().Str("provider", "vision").Msg("OCR provider ready")
		return client, nil
	default:
		return nil, fmt.Errorf("unknown OCR provider: %s", cfg.Provider)
	}
}

// NewSearchProvider returns the configured web search provider
func NewSearchProvider(ctx context.Context, cfg config.SearchConfig) (domain.SearchProvider, error) {
	switch cfg.Provider {
	case "customsearch":
		client, err := search.NewCustomSearch(ctx, cfg.APIKey, cfg.EngineID)
		if err != nil {
			return nil, err
		}
		log.Info().Str("provider", "customsearch").Msg("search provider ready")
		return client, nil
	case "scrape", "":
		scraper := search.NewScraper(cfg.BaseURL, cfg.UserAgent)
		if cfg.Timeout > 0 {
			scraper.SetTimeout(cfg.Timeout)
		}
		log.Info().Str("provider", "scrape").Str("base_url", cfg.BaseURL).Msg("search provider ready")
		return scraper, nil
	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Provider)
	}
}

// FeeSchedule converts the configured fee model
func FeeSchedule(fees config.FeesConfig) usecase.FeeSchedule {
	return usecase.FeeSchedule{
		ReferralRate:    fees.ReferralRate,
		ClosingFee:      fees.ClosingFee,
		FulfillmentRate: fees.FulfillmentRate,
		InventoryRate:   fees.InventoryRate,
		ShippingRate:    fees.ShippingRate,
	}
}
