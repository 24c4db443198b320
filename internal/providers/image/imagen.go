package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const imagenDefaultTimeout = 90 * time.Second

// ImagenOptions controls how the Imagen client is configured.
type ImagenOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// ImagenGenerator calls the Google Imagen predict endpoint and returns the
// first generated image's bytes.
type ImagenGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type imagenPredictRequest struct {
	Instances  []imagenInstance  `json:"instances"`
	Parameters *imagenParameters `json:"parameters,omitempty"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount int `json:"sampleCount,omitempty"`
}

type imagenPredictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType,omitempty"`
	} `json:"predictions"`
}

// NewImagenGenerator constructs an ImagenGenerator.
func NewImagenGenerator(opts ImagenOptions) (*ImagenGenerator, error) {
	if opts.APIKey == "" {
		return nil, errors.New("imagen api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "imagen-3.0-generate-002"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: imagenDefaultTimeout}
	}
	return &ImagenGenerator{
		apiKey:  opts.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  client,
	}, nil
}

// Generate requests one image for the prompt and returns its decoded bytes.
func (g *ImagenGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	payload := imagenPredictRequest{
		Instances:  []imagenInstance{{Prompt: prompt}},
		Parameters: &imagenParameters{SampleCount: 1},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("imagen: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:predict", g.baseURL, url.PathEscape(g.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("imagen: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("imagen: call provider: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("imagen: provider status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out imagenPredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("imagen: decode response: %w", err)
	}
	if len(out.Predictions) == 0 {
		return nil, errors.New("imagen: no image generated")
	}

	data, err := base64.StdEncoding.DecodeString(out.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return nil, fmt.Errorf("imagen: decode image payload: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("imagen: empty image payload")
	}
	return data, nil
}

var _ Generator = (*ImagenGenerator)(nil)
