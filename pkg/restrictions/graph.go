package restrictions

import (
	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/knowledge"
)

// graph is an ordered snapshot of the states, edges and resolutions of a store.
type graph struct {
	states   map[string]domain.State
	order    []string
	edges    []domain.Edge
	paths    []domain.ChoicePath
	incoming map[string]int
	outgoing map[string][]string
}

func load(kb domain.FactReader) *graph {
	g := &graph{
		states:   make(map[string]domain.State),
		incoming: make(map[string]int),
		outgoing: make(map[string][]string),
	}

	for _, s := range knowledge.Sorted(knowledge.Of[domain.State](kb, domain.KindState)) {
		g.states[s.UID()] = s
		g.order = append(g.order, s.UID())
	}

	g.edges = knowledge.Sorted(knowledge.Of[domain.Edge](kb, domain.KindJump))
	for _, e := range g.edges {
		g.incoming[e.To()]++
		g.outgoing[e.From()] = append(g.outgoing[e.From()], e.To())
	}

	g.paths = knowledge.Sorted(knowledge.Of[domain.ChoicePath](kb, domain.KindChoicePath))
	return g
}
