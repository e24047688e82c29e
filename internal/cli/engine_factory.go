package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/questline"
	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/observability"
)

// createEngine initializes a questline engine with standard CLI conventions.
func createEngine(ctx context.Context, opts RunOptions, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*questline.Engine, error) {
	if opts.Debug {
		hooks = append(hooks, observability.LoggingHooks(logger))
	}

	engineOpts := []questline.Option{
		questline.WithLogger(logger),
		questline.WithLifecycleHooks(domain.ChainHooks(hooks...)),
	}
	if opts.Seed != 0 {
		engineOpts = append(engineOpts, questline.WithSeed(opts.Seed))
	}

	engine, err := questline.New(ctx, opts.Path, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
