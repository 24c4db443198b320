package describe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDescriber(t *testing.T, handler http.HandlerFunc) *SonarDescriber {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSonarDescriber(SonarOptions{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
}

func TestDescribeReturnsProviderText(t *testing.T) {
	d := newTestDescriber(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req sonarRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "eco-friendly water bottle")

		_ = json.NewEncoder(w).Encode(sonarResponse{
			Choices: []struct {
				Message sonarMessage `json:"message"`
			}{{Message: sonarMessage{Role: "assistant", Content: "Buy this bottle!"}}},
		})
	})

	text, err := d.Describe(context.Background(), "eco-friendly water bottle")
	require.NoError(t, err)
	assert.Equal(t, "Buy this bottle!", text)
}

func TestDescribeFallsBackOnServerError(t *testing.T) {
	d := newTestDescriber(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	text, err := d.Describe(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, FallbackDescription, text)
}

func TestDescribeFallsBackOnEmptyChoices(t *testing.T) {
	d := newTestDescriber(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	text, err := d.Describe(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, FallbackDescription, text)
}

func TestDescribeFallsBackWithoutAPIKey(t *testing.T) {
	d := NewSonarDescriber(SonarOptions{})

	text, err := d.Describe(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, FallbackDescription, text)
}
