package describe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	sonarDefaultTimeout = 30 * time.Second

	// FallbackDescription is returned whenever the upstream call cannot
	// produce usable text. Describe never fails the enclosing request.
	FallbackDescription = "A premium product crafted with care. Contact us to learn more about what makes it special."
)

// Describer produces a promotional description for a prompt. Implementations
// must return a non-empty string and a nil error even when the upstream
// provider is unreachable.
type Describer interface {
	Describe(ctx context.Context, prompt string) (string, error)
}

// SonarOptions controls how the Perplexity Sonar client is configured.
type SonarOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// SonarDescriber generates marketing copy through the Perplexity
// chat-completions API, falling back to a canned description on any failure.
type SonarDescriber struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type sonarRequest struct {
	Model    string         `json:"model"`
	Messages []sonarMessage `json:"messages"`
}

type sonarMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type sonarResponse struct {
	Choices []struct {
		Message sonarMessage `json:"message"`
	} `json:"choices"`
}

// NewSonarDescriber constructs a SonarDescriber.
func NewSonarDescriber(opts SonarOptions) *SonarDescriber {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.perplexity.ai"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "sonar-pro"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: sonarDefaultTimeout}
	}
	return &SonarDescriber{
		apiKey:  opts.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  client,
	}
}

// Describe returns promotional copy for the prompt. Any upstream failure
// yields the fallback description with a nil error.
func (d *SonarDescriber) Describe(ctx context.Context, prompt string) (string, error) {
	if d.apiKey == "" {
		return FallbackDescription, nil
	}

	payload := sonarRequest{
		Model: d.model,
		Messages: []sonarMessage{{
			Role:    "user",
			Content: buildDescriptionPrompt(prompt),
		}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return FallbackDescription, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/chat/completions", &buf)
	if err != nil {
		return FallbackDescription, nil
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return FallbackDescription, nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return FallbackDescription, nil
	}

	var out sonarResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return FallbackDescription, nil
	}
	if len(out.Choices) == 0 {
		return FallbackDescription, nil
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return FallbackDescription, nil
	}
	return text, nil
}

func buildDescriptionPrompt(prompt string) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Write a detailed, engaging, and promotional product description for the following prompt:\n%q\n", prompt)
	sb.WriteString("Highlight the key features, unique benefits, and reasons to choose this product. ")
	sb.WriteString("Make it sound appealing and persuasive, as if for a high-converting advertisement. ")
	sb.WriteString("Include a call to action at the end.")
	return sb.String()
}

var _ Describer = (*SonarDescriber)(nil)
