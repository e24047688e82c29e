package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/questline/internal/presentation/graph"
)

// Graph prints the scenario as a Mermaid flowchart.
func Graph(ctx context.Context, opts RunOptions) error {
	logger, err := createLogger(opts)
	if err != nil {
		return err
	}

	engine, err := createEngine(ctx, opts, logger)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(opts.Out, graph.GenerateMermaid(engine.Facts(), nil))
	return err
}
