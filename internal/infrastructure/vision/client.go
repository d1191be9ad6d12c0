package vision

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/bookscout/backend/internal/domain"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	visionapi "google.golang.org/api/vision/v1"
)

const providerName = "vision"

// Client runs TEXT_DETECTION against the Cloud Vision images:annotate endpoint
type Client struct {
	service *visionapi.Service
}

// NewClient creates a Cloud Vision client. An empty credentialsFile falls back
// to application default credentials.
func NewClient(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*Client, error) {
	if credentialsFile != "" {
		opts = append([]option.ClientOption{option.WithCredentialsFile(credentialsFile)}, opts...)
	}

	service, err := visionapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision service: %w", err)
	}
	return &Client{service: service}, nil
}

// DetectText returns the text annotations for image. The first annotation is
// the full text block. An error reported inside the annotate response comes
// back as a *domain.ProviderError carrying the provider's message.
func (c *Client) DetectText(ctx context.Context, image []byte) ([]string, error) {
	req := &visionapi.BatchAnnotateImagesRequest{
		Requests: []*visionapi.AnnotateImageRequest{
			{
				Image:    &visionapi.Image{Content: base64.StdEncoding.EncodeToString(image)},
				Features: []*visionapi.Feature{{Type: "TEXT_DETECTION"}},
			},
		},
	}

	resp, err := c.service.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		log.Error().Str("component", "vision").Err(err).Msg("annotate request failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRFailure, err)
	}

	if len(resp.Responses) == 0 {
		return nil, nil
	}

	res := resp.Responses[0]
	if res.Error != nil && res.Error.Message != "" {
		return nil, &domain.ProviderError{Provider: providerName, Message: res.Error.Message}
	}

	annotations := make([]string, 0, len(res.TextAnnotations))
	for _, a := range res.TextAnnotations {
		annotations = append(annotations, a.Description)
	}

	log.Debug().Str("component", "vision").Int("annotations", len(annotations)).Msg("text detected")
	return annotations, nil
}
