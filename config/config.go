package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	OCR       OCRConfig
	Search    SearchConfig
	Canopy    CanopyConfig
	Fees      FeesConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
}

// OCRConfig selects and configures the text recognition provider
type OCRConfig struct {
	Provider        string `mapstructure:"provider"` // "vision" or "gemini"
	CredentialsFile string `mapstructure:"credentials_file"`
	Endpoint        string `mapstructure:"endpoint"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`
	GeminiModel     string `mapstructure:"gemini_model"`
}

// SearchConfig selects and configures the web search provider
type SearchConfig struct {
	Provider   string        `mapstructure:"provider"` // "scrape" or "customsearch"
	BaseURL    string        `mapstructure:"base_url"`
	NumResults int           `mapstructure:"num_results"`
	UserAgent  string        `mapstructure:"user_agent"`
	APIKey     string        `mapstructure:"api_key"`
	EngineID   string        `mapstructure:"engine_id"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// CanopyConfig holds Canopy product API configuration
type CanopyConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FeesConfig holds the marketplace fee model
type FeesConfig struct {
	ReferralRate    float64 `mapstructure:"referral_rate"`
	ClosingFee      float64 `mapstructure:"closing_fee"`
	FulfillmentRate float64 `mapstructure:"fulfillment_rate"`
	InventoryRate   float64 `mapstructure:"inventory_rate"`
	ShippingRate    float64 `mapstructure:"shipping_rate"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	// A missing .env is fine; the environment may already be populated
	_ = godotenv.Load()

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bookscout/")

	// Environment variable settings
	v.SetEnvPrefix("BOOKSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// bindEnv maps keys without defaults to their env vars, including the
// unprefixed names Google and Canopy tooling use.
func bindEnv(v *viper.Viper) error {
	bindings := [][]string{
		{"ocr.credentials_file", "BOOKSCOUT_OCR_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS"},
		{"ocr.endpoint", "BOOKSCOUT_OCR_ENDPOINT"},
		{"ocr.gemini_api_key", "BOOKSCOUT_OCR_GEMINI_API_KEY", "GEMINI_API_KEY"},
		{"canopy.api_key", "BOOKSCOUT_CANOPY_API_KEY", "CANOPY_API_KEY"},
		{"search.api_key", "BOOKSCOUT_SEARCH_API_KEY"},
		{"search.engine_id", "BOOKSCOUT_SEARCH_ENGINE_ID"},
	}
	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("bind env %s: %w", b[0], err)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.max_upload_bytes", 10<<20)

	// OCR defaults
	v.SetDefault("ocr.provider", "vision")
	v.SetDefault("ocr.gemini_model", "gemini-2.5-flash")

	// Search defaults
	v.SetDefault("search.provider", "scrape")
	v.SetDefault("search.base_url", "https://www.google.com/search")
	v.SetDefault("search.num_results", 5)
	v.SetDefault("search.user_agent", "")
	v.SetDefault("search.timeout", "15s")

	// Canopy defaults
	v.SetDefault("canopy.base_url", "https://graphql.canopyapi.co/")
	v.SetDefault("canopy.timeout", "30s")

	// Fee model defaults
	v.SetDefault("fees.referral_rate", 0.15)
	v.SetDefault("fees.closing_fee", 1.80)
	v.SetDefault("fees.fulfillment_rate", 0.40)
	v.SetDefault("fees.inventory_rate", 0.0025)
	v.SetDefault("fees.shipping_rate", 0.0267)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Canopy.APIKey == "" {
		return fmt.Errorf("Canopy API key is required (set CANOPY_API_KEY)")
	}

	switch config.OCR.Provider {
	case "vision":
	case "gemini":
		if config.OCR.GeminiAPIKey == "" {
			return fmt.Errorf("Gemini API key is required when OCR provider is 'gemini' (set GEMINI_API_KEY)")
		}
	default:
		return fmt.Errorf("OCR provider must be 'vision' or 'gemini', got: %s", config.OCR.Provider)
	}

	switch config.Search.Provider {
	case "scrape":
	case "customsearch":
		if config.Search.APIKey == "" || config.Search.EngineID == "" {
			return fmt.Errorf("search API key and engine ID are required when search provider is 'customsearch'")
		}
	default:
		return fmt.Errorf("search provider must be 'scrape' or 'customsearch', got: %s", config.Search.Provider)
	}

	if config.Search.NumResults <= 0 {
		return fmt.Errorf("search.num_results must be positive, got: %d", config.Search.NumResults)
	}

	if config.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got: %d", config.Server.MaxUploadBytes)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit.per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
