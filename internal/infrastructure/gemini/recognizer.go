package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bookscout/backend/internal/domain"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.5-flash"

const providerName = "gemini"

const transcribePrompt = `Transcribe all text printed in this image, exactly as it appears, line by line.
Include every number, such as ISBNs, barcodes and prices.
Respond ONLY with the transcribed text. If there is no text, respond with an empty message.`

// Recognizer uses a Gemini model as the OCR provider
type Recognizer struct {
	client *genai.Client
	model  string
}

// Options configures the Gemini recognizer
type Options struct {
	APIKey  string
	Model   string
	BaseURL string // overrides the API endpoint, empty for the public one
}

// NewRecognizer creates a Gemini-backed text recognizer
func NewRecognizer(ctx context.Context, opts Options) (*Recognizer, error) {
	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Recognizer{client: client, model: model}, nil
}

// DetectText transcribes the image. The whole transcription is returned as a
// single annotation, or none when the model found no text.
func (r *Recognizer) DetectText(ctx context.Context, image []byte) ([]string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(transcribePrompt),
		{InlineData: &genai.Blob{Data: image, MIMEType: http.DetectContentType(image)}},
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := r.client.Models.GenerateContent(ctx, r.model, contents, nil)
	if err != nil {
		log.Error().Str("component", "gemini").Err(err).Msg("generate content failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRFailure, err)
	}

	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return nil, &domain.ProviderError{
			Provider: providerName,
			Message:  fmt.Sprintf("image rejected by provider: %s", result.PromptFeedback.BlockReason),
		}
	}

	text := strings.TrimSpace(result.Text())
	log.Debug().Str("component", "gemini").Int("chars", len(text)).Msg("text transcribed")
	if text == "" {
		return nil, nil
	}
	return []string{text}, nil
}
