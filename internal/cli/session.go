package cli

import (
	"context"

	"github.com/aretw0/questline"
	"github.com/aretw0/questline/internal/presentation/tui"
	"github.com/aretw0/questline/pkg/domain"
)

// RunSession plays the scenario once. Without a terminal on the input side it
// runs headless and takes the first option of every choice.
func RunSession(ctx context.Context, opts RunOptions) error {
	logger, err := createLogger(opts)
	if err != nil {
		return err
	}

	headless := opts.Headless || !isTerminal(opts.In)
	if !headless {
		tui.PrintBanner(opts.Out, questline.Version)
	}

	engine, err := createEngine(ctx, opts, logger)
	if err != nil {
		return err
	}

	r := &questline.Runner{
		Input:    opts.In,
		Output:   opts.Out,
		Headless: headless,
	}
	if !headless {
		r.Renderer = tui.NewRenderer()
	}

	if err := r.Run(ctx, engine); err != nil {
		logger.Error("run failed", "error", err)
		return err
	}

	if done, _ := engine.IsProcessed(); done && !headless {
		printSystemMessage(opts.Out, "%s", tui.Highlight("The End."))
	}
	logger.Info("run finished", "run", engine.ID)
	return nil
}

// Validate loads the scenario and checks every restriction it declares.
// With opts.Watch it keeps validating on every scenario change until ctx ends.
func Validate(ctx context.Context, opts RunOptions) error {
	logger, err := createLogger(opts)
	if err != nil {
		return err
	}

	engine, err := createEngine(ctx, opts, logger)
	if err != nil {
		return err
	}
	printSystemMessage(opts.Out, "%s is valid (%d facts)", opts.Path, factCount(engine))

	if !opts.Watch {
		return nil
	}

	changes, err := engine.Watch(ctx)
	if err != nil {
		return err
	}
	printSystemMessage(opts.Out, "Watching %s for changes...", opts.Path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case doc, ok := <-changes:
			if !ok {
				return nil
			}
			if err := engine.Reload(ctx); err != nil {
				printSystemMessage(opts.Out, "%s changed: %v", doc, err)
				continue
			}
			printSystemMessage(opts.Out, "%s changed: valid (%d facts)", doc, factCount(engine))
		}
	}
}

func factCount(engine *questline.Engine) int {
	n := 0
	for range engine.Facts().Filter(domain.KindFact) {
		n++
	}
	return n
}
