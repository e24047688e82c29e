package observability

import (
	"log/slog"

	"github.com/aretw0/questline/pkg/domain"
)

// LoggingHooks logs every lifecycle event at Info level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(s domain.State) {
			logger.Info("state_enter", "state", s.UID(), "kind", s.Kind())
		},
		OnJumpStart: func(j domain.Edge) {
			logger.Info("jump_start", "jump", j.UID(), "from", j.From(), "to", j.To())
		},
		OnJumpEnd: func(j domain.Edge) {
			logger.Info("jump_end", "jump", j.UID(), "to", j.To())
		},
	}
}
