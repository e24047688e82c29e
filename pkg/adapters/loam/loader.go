package loam

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/scenario"
)

// Loader adapts a Loam repository of scenario documents to ports.ScenarioLoader.
// Each document describes one state; its id is the file name without extension
// unless the frontmatter sets a uid.
type Loader struct {
	Repo   *loam.TypedRepository[StateMetadata]
	logger *slog.Logger
}

// Option defines a functional option for configuring the Loader.
type Option func(*Loader)

// WithLogger sets a custom structured logger for the loader.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[StateMetadata], opts ...Option) *Loader {
	l := &Loader{
		Repo:   repo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open initializes a read-only Loam repository at path.
// Strict mode keeps numbers as json.Number across Markdown, YAML and JSON documents.
func Open(path string, opts ...Option) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[StateMetadata](repo), opts...), nil
}

type entry struct {
	id   string
	path string
	meta StateMetadata
	body string
}

// Load implements ports.ScenarioLoader.
func (l *Loader) Load(ctx context.Context) ([]domain.Fact, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	entries := make([]entry, 0, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.UID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		// List returns frontmatter only; the body needs a direct lookup.
		full, err := l.Repo.Get(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", doc.ID, err)
		}
		entries = append(entries, entry{id: id, path: doc.ID, meta: doc.Data, body: full.Content})
	}
	slices.SortFunc(entries, func(a, b entry) int { return strings.Compare(a.id, b.id) })

	var (
		facts        []domain.Fact
		restrictions []string
	)
	for _, e := range entries {
		for _, es := range e.meta.Facts {
			if err := scenario.Validate(es); err != nil {
				return nil, fmt.Errorf("%s: %w", e.path, err)
			}
			facts = append(facts, es.Fact())
		}
		for _, name := range e.meta.Restrictions {
			if !slices.Contains(restrictions, name) {
				restrictions = append(restrictions, name)
			}
		}

		if e.meta.Type == TypeFacts {
			continue
		}

		spec := scenario.StateSpec{
			UID:         e.id,
			Type:        e.meta.Type,
			Tag:         e.meta.Tag,
			Description: strings.TrimSpace(e.body),
			Require:     e.meta.Require,
			Jumps:       e.meta.Jumps,
			Options:     e.meta.Options,
			Default:     e.meta.Default,
		}
		if err := scenario.Validate(spec); err != nil {
			return nil, fmt.Errorf("%s: %w", e.path, err)
		}
		sf, err := spec.Facts()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.path, err)
		}
		facts = append(facts, sf...)
	}

	rs, err := scenario.RestrictionFacts(restrictions)
	if err != nil {
		return nil, err
	}
	facts = append(facts, rs...)

	l.logger.Debug("scenario loaded", "documents", len(entries), "facts", len(facts))
	return facts, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				l.logger.Debug("scenario changed", "document", evt.ID)
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
