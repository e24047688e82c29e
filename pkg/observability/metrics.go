package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/questline/pkg/domain"
)

// Metrics holds the traversal counters.
type Metrics struct {
	StatesEntered *prometheus.CounterVec
	JumpsStarted  *prometheus.CounterVec
	JumpsEnded    *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg, if not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		StatesEntered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "questline_states_entered_total",
				Help: "Total number of states entered",
			},
			[]string{"state", "kind"},
		),
		JumpsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "questline_jumps_started_total",
				Help: "Total number of jumps selected",
			},
			[]string{"jump"},
		),
		JumpsEnded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "questline_jumps_ended_total",
				Help: "Total number of jumps completed",
			},
			[]string{"jump"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.StatesEntered, m.JumpsStarted, m.JumpsEnded} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that feed the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(s domain.State) {
			m.StatesEntered.WithLabelValues(s.UID(), string(s.Kind())).Inc()
		},
		OnJumpStart: func(j domain.Edge) {
			m.JumpsStarted.WithLabelValues(j.UID()).Inc()
		},
		OnJumpEnd: func(j domain.Edge) {
			m.JumpsEnded.WithLabelValues(j.UID()).Inc()
		},
	}
}
