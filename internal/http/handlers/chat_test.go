package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskChatPassesThroughProviderResponse(t *testing.T) {
	env := newTestEnv(t)
	env.chat.raw = json.RawMessage(`{"candidates":[{"content":{"parts":[{"text":"42"}]}}]}`)

	resp := postJSON(t, env, "/api/gemini", `{"question":"what is the answer?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, string(env.chat.raw), string(body))
}

func TestAskChatRequiresQuestion(t *testing.T) {
	env := newTestEnv(t)

	resp := postJSON(t, env, "/api/gemini", `{"question":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAskChatFallsBackOnProviderError(t *testing.T) {
	env := newTestEnv(t)
	env.chat.err = assert.AnError

	resp := postJSON(t, env, "/api/gemini", `{"question":"hello"}`)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	out := decodeJSON[map[string]string](t, resp)
	assert.Equal(t, "could not get an answer", out["detail"])
}
