package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questline"
	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/observability"
)

const tavernPath = "../../scenario/testdata/tavern.yaml"

func newTavern(t *testing.T, opts ...questline.Option) *questline.Engine {
	t.Helper()
	eng, err := questline.New(context.Background(), tavernPath, opts...)
	require.NoError(t, err)
	return eng
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestServer_Traversal(t *testing.T) {
	h := NewHandler(newTavern(t))

	w := do(t, h, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[StatusResponse](t, w)
	assert.Equal(t, domain.Pointer{}, status.Pointer)
	assert.Nil(t, status.Current)
	require.NotNil(t, status.Next)
	assert.Equal(t, "door", status.Next.UID)
	assert.True(t, status.CanStep)

	w = do(t, h, http.MethodPost, "/advance", "")
	require.Equal(t, http.StatusConflict, w.Code)
	status = decode[StatusResponse](t, w)
	require.NotNil(t, status.Steps)
	assert.Equal(t, 3, *status.Steps)
	assert.Contains(t, status.Error, "no jumps available")
	assert.Equal(t, "hall", status.Current.UID)
	assert.Equal(t, "event", status.Current.Tag)

	w = do(t, h, http.MethodGet, "/choice", "")
	require.Equal(t, http.StatusOK, w.Code)
	choice := decode[ChoiceResponse](t, w)
	assert.Equal(t, "hall", choice.Choice.UID)
	assert.False(t, choice.Resolved)
	require.Len(t, choice.Options, 2)
	assert.Equal(t, "stairs", choice.Options[0].UID())

	w = do(t, h, http.MethodPost, "/choices/hall", `{"option": "trapdoor"}`)
	require.Equal(t, http.StatusOK, w.Code)
	status = decode[StatusResponse](t, w)
	assert.Equal(t, domain.Pointer{State: "hall", Jump: "trapdoor"}, status.Pointer)
	assert.Equal(t, "cellar", status.Next.UID)

	w = do(t, h, http.MethodGet, "/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graph TD")
	assert.Contains(t, w.Body.String(), "class hall current;")
	assert.Contains(t, w.Body.String(), "class cellar next;")

	w = do(t, h, http.MethodPost, "/step", "")
	require.Equal(t, http.StatusOK, w.Code)
	status = decode[StatusResponse](t, w)
	assert.Equal(t, "cellar", status.Current.UID)
	assert.True(t, status.Processed)
	assert.False(t, status.CanStep)

	w = do(t, h, http.MethodPost, "/step", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodGet, "/choice", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestServer_ChooseErrors(t *testing.T) {
	h := NewHandler(newTavern(t))

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"Bad Body", "/choices/hall", `{`, http.StatusBadRequest},
		{"Missing Option", "/choices/hall", `{}`, http.StatusBadRequest},
		{"Unknown Choice", "/choices/ghost", `{"option": "stairs"}`, http.StatusNotFound},
		{"Not A Choice", "/choices/door", `{"option": "stairs"}`, http.StatusBadRequest},
		{"Recorded", "/choices/hall", `{"option": "stairs"}`, http.StatusOK},
		{"Already Chosen", "/choices/hall", `{"option": "trapdoor"}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestServer_ValidateAndInfo(t *testing.T) {
	h := NewHandler(newTavern(t))

	w := do(t, h, http.MethodPost, "/validate", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"valid": true}, decode[map[string]any](t, w))

	w = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/info", "")
	assert.Equal(t, questline.Version, decode[map[string]string](t, w)["version"])

	w = do(t, h, http.MethodOptions, "/step", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	h := NewHandler(
		newTavern(t, questline.WithLifecycleHooks(m.Hooks())),
		WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)

	do(t, h, http.MethodPost, "/step", "")

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `questline_states_entered_total{kind="state/start",state="door"} 1`)
}

func TestServer_ScenarioEventsUnsupported(t *testing.T) {
	h := NewHandler(newTavern(t))

	w := do(t, h, http.MethodGet, "/events?source=scenario", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager()

	ch, cancel := sm.Subscribe()
	assert.Equal(t, 1, sm.Len())

	sm.Broadcast(`{"state":"door"}`)
	assert.Equal(t, `{"state":"door"}`, <-ch)

	cancel()
	cancel()
	assert.Equal(t, 0, sm.Len())
	_, open := <-ch
	assert.False(t, open)
}
