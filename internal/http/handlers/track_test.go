package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"server/internal/http/httpapi"
)

func postJSON(t *testing.T, env *testEnv, path, body string) *http.Response {
	t.Helper()
	router := httpapi.NewRouter(env.app)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Result()
}

func TestTrackRecordsEvent(t *testing.T) {
	env := newTestEnv(t)

	resp := postJSON(t, env, "/api/track", `{"event":"cta_click","variant":"b","meta":{"page":"home"}}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.Len(t, env.events.events, 1)
	ev := env.events.events[0]
	assert.Equal(t, "cta_click", ev.Event)
	assert.Equal(t, "b", ev.Variant)
	assert.Equal(t, "home", ev.Meta["page"])
}

func TestTrackRequiresEvent(t *testing.T) {
	env := newTestEnv(t)

	resp := postJSON(t, env, "/api/track", `{"variant":"b"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.events.events)
}

func TestTrackSwallowsStorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.events.err = assert.AnError

	resp := postJSON(t, env, "/api/track", `{"event":"cta_click"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
