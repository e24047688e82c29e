package questline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/ports"
)

// ErrBlocked is returned by Runner.Run when the pointer cannot move and the
// scenario is not finished: an unmet requirement or a dead end.
var ErrBlocked = errors.New("traversal blocked")

// Runner drives an engine to the end of its scenario using the provided IO.
// It prints every state it enters and asks for a decision at each unresolved Choice.
type Runner struct {
	Input  io.Reader
	Output io.Writer
	// Headless resolves every Choice with its first option instead of prompting.
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// Run executes the traversal loop until the scenario finishes, the input ends,
// the user quits or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, driver ports.Driver) error {
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	if r.Input == nil && !r.Headless {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}

	var lines *bufio.Reader
	if r.Input != nil {
		lines = bufio.NewReader(r.Input)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := driver.IsProcessed()
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		current, err := driver.CurrentState()
		if err != nil {
			return err
		}
		if current != nil && current.Kind().Is(domain.KindChoice) {
			point, err := driver.NearestChoice()
			if err != nil {
				return err
			}
			if !point.Resolved() {
				option, err := r.decide(point, lines)
				if err != nil {
					if errors.Is(err, io.EOF) {
						return nil
					}
					return err
				}
				if option == "" {
					fmt.Fprintln(r.Output, "Bye!")
					return nil
				}
				if err := driver.Choose(current.UID(), option); err != nil {
					return err
				}
				continue
			}
		}

		ok, err := driver.CanDoStep()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w at %q", ErrBlocked, current.UID())
		}

		if err := driver.Step(); err != nil {
			if errors.Is(err, domain.ErrNoJumpsFromLastState) {
				return fmt.Errorf("%w: %w", ErrBlocked, err)
			}
			return fmt.Errorf("step error: %w", err)
		}

		entered, err := driver.CurrentState()
		if err != nil {
			return err
		}
		if entered != nil && (current == nil || entered.UID() != current.UID()) {
			r.show(entered)
		}
	}
}

func (r *Runner) show(state domain.State) {
	content := state.Details().Description
	if content == "" {
		content = state.UID()
	}
	if r.Renderer != nil {
		if rendered, err := r.Renderer(content); err == nil {
			content = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(content))
}

// decide returns the selected option uid, or "" when the user quits.
func (r *Runner) decide(point *domain.ChoicePoint, lines *bufio.Reader) (string, error) {
	if len(point.Options) == 0 {
		return "", fmt.Errorf("%w: choice %q has no options", ErrBlocked, point.Choice.UID())
	}
	if r.Headless {
		return point.Options[0].UID(), nil
	}

	for i, o := range point.Options {
		label := o.Label
		if label == "" {
			label = o.To()
		}
		fmt.Fprintf(r.Output, "  [%d] %s\n", i+1, label)
	}

	for {
		fmt.Fprint(r.Output, "> ")
		text, err := lines.ReadString('\n')
		input := strings.TrimSpace(text)
		if err != nil && input == "" {
			return "", err
		}

		if input == "exit" || input == "quit" {
			return "", nil
		}
		if n, convErr := strconv.Atoi(input); convErr == nil && n >= 1 && n <= len(point.Options) {
			return point.Options[n-1].UID(), nil
		}
		for _, o := range point.Options {
			if input == o.UID() {
				return o.UID(), nil
			}
		}

		fmt.Fprintf(r.Output, "Unknown option %q.\n", input)
		if err != nil {
			return "", err
		}
	}
}
