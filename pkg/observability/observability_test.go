package observability_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/observability"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	jump := domain.NewJump("a_b", "a", "b")
	hooks.StateEntered(domain.NewStart("a"))
	hooks.JumpStarted(jump)
	hooks.JumpEnded(jump)
	hooks.StateEntered(domain.NewFinish("b"))
	hooks.StateEntered(domain.NewFinish("b"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatesEntered.WithLabelValues("a", "state/start")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatesEntered.WithLabelValues("b", "state/finish")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JumpsStarted.WithLabelValues("a_b")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JumpsEnded.WithLabelValues("a_b")))

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestMetrics_Unregistered(t *testing.T) {
	m, err := observability.NewMetrics(nil)
	require.NoError(t, err)
	m.Hooks().StateEntered(domain.NewNode("n"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatesEntered.WithLabelValues("n", "state")))
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	hooks := domain.ChainHooks(observability.LoggingHooks(logger))
	hooks.StateEntered(domain.NewStart("a"))
	hooks.JumpStarted(domain.NewOption("o", "c", "d"))
	hooks.JumpEnded(domain.NewOption("o", "c", "d"))

	out := buf.String()
	assert.Contains(t, out, "msg=state_enter state=a kind=state/start")
	assert.Contains(t, out, "msg=jump_start jump=o from=c to=d")
	assert.Contains(t, out, "msg=jump_end jump=o to=d")
}
