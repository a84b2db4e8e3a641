package images

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var ErrNoImage = errors.New("no image in response")

// Image is generated image bytes with their MIME type
type Image struct {
	Data     []byte
	MimeType string
}

// Extension returns the file extension for the image's MIME type
func (i Image) Extension() string {
	if i.MimeType == "image/jpeg" {
		return "jpg"
	}
	return "png"
}

// Generator turns a prompt into an image
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Image, error)
}

// contentModels is the part of genai.Models the generator calls
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator produces images with a Gemini image model
type GeminiGenerator struct {
	models contentModels
	model  string
}

// NewGeminiGenerator builds a Gemini API client. baseURL is optional and
// overrides the public endpoint.
func NewGeminiGenerator(ctx context.Context, baseURL, model, apiKey string) (*GeminiGenerator, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(baseURL, "/") + "/"}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiGenerator{models: client.Models, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (*Image, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		return nil, fmt.Errorf("calling image model: %w", err)
	}
	return firstImage(resp)
}

// firstImage returns the first inline image of the first candidate
func firstImage(resp *genai.GenerateContentResponse) (*Image, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoImage
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}
		blob := part.InlineData
		if strings.HasPrefix(blob.MIMEType, "image/") && len(blob.Data) > 0 {
			return &Image{Data: blob.Data, MimeType: blob.MIMEType}, nil
		}
	}
	return nil, ErrNoImage
}
