package gcpvision

import (
	"context"
	"fmt"
	"strings"

	visionapi "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/luxeledger/authenticity/internal/domain/vision"
	"github.com/luxeledger/authenticity/internal/pkg/logger"
)

const (
	maxLabels = 10
	maxLogos  = 5
)

// Client implements the vision.Client port on top of the Cloud Vision API.
type Client struct {
	log       *logger.Logger
	annotator *visionapi.ImageAnnotatorClient
}

// New builds a Vision client. An empty credentialsFile falls back to ambient
// application-default credentials.
func New(ctx context.Context, credentialsFile string, log *logger.Logger) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	annotator, err := visionapi.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &Client{log: log.With("client", "gcpvision"), annotator: annotator}, nil
}

func (c *Client) Close() error {
	if c.annotator != nil {
		return c.annotator.Close()
	}
	return nil
}

// Annotate requests label, text, logo and image-property detection for one
// image URI and maps the response into the fixed observation shape.
func (c *Client) Annotate(ctx context.Context, imageURI string) (*vision.Observation, error) {
	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{
			Source: &visionpb.ImageSource{ImageUri: imageURI},
		},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: maxLabels},
			{Type: visionpb.Feature_TEXT_DETECTION},
			{Type: visionpb.Feature_LOGO_DETECTION, MaxResults: maxLogos},
			{Type: visionpb.Feature_IMAGE_PROPERTIES},
		},
	}

	br := &visionpb.BatchAnnotateImagesRequest{Requests: []*visionpb.AnnotateImageRequest{req}}
	resp, err := c.annotator.BatchAnnotateImages(ctx, br)
	if err != nil {
		return nil, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return nil, fmt.Errorf("vision returned no response")
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return nil, fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}

	return mapResponse(r0), nil
}

func mapResponse(r *visionpb.AnnotateImageResponse) *vision.Observation {
	obs := &vision.Observation{}

	for _, l := range r.LabelAnnotations {
		if l == nil {
			continue
		}
		obs.Labels = append(obs.Labels, vision.Label{
			Description: l.Description,
			Score:       float64(l.Score),
		})
	}

	// The first text annotation is the full extracted text; its lines become
	// the observation's text blocks.
	if len(r.TextAnnotations) > 0 && r.TextAnnotations[0] != nil {
		for _, line := range strings.Split(r.TextAnnotations[0].Description, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				obs.TextBlocks = append(obs.TextBlocks, line)
			}
		}
	}

	for _, l := range r.LogoAnnotations {
		if l == nil {
			continue
		}
		obs.Logos = append(obs.Logos, vision.Logo{
			Description: l.Description,
			Score:       float64(l.Score),
		})
	}

	if props := r.ImagePropertiesAnnotation; props != nil && props.DominantColors != nil {
		for _, ci := range props.DominantColors.Colors {
			if ci == nil || ci.Color == nil {
				continue
			}
			obs.Colors = append(obs.Colors, vision.Color{
				RGB: fmt.Sprintf("#%02x%02x%02x",
					int(ci.Color.Red), int(ci.Color.Green), int(ci.Color.Blue)),
				Fraction: float64(ci.PixelFraction),
			})
		}
	}

	return obs
}
