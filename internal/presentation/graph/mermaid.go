package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/knowledge"
	"github.com/aretw0/questline/pkg/requirements"
)

// GraphOverlay contains traversal data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
	// Jump is the in-progress jump; its destination is styled as next.
	Jump string
}

// OverlayFor builds an overlay from the pointer.
func OverlayFor(p domain.Pointer, visited ...string) *GraphOverlay {
	return &GraphOverlay{
		VisitedStates: visited,
		CurrentState:  p.State,
		Jump:          p.Jump,
	}
}

// GenerateMermaid produces a Mermaid flowchart of the states and jumps in kb.
// States and jumps are emitted in uid order so the output is stable.
// It applies semantic styling:
// - Start: ((Circle))
// - Finish: (((Double circle)))
// - Choice: {Rhombus}
// - Default: [Rectangle]
// Options selected by a ChoicePath are drawn as thick links.
func GenerateMermaid(kb domain.FactReader, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, s := range knowledge.Sorted(knowledge.Of[domain.State](kb, domain.KindState)) {
		opener, closer := "[", "]"
		switch {
		case s.Kind().Is(domain.KindStart):
			opener, closer = "((", "))"
		case s.Kind().Is(domain.KindFinish):
			opener, closer = "(((", ")))"
		case s.Kind().Is(domain.KindChoice):
			opener, closer = "{", "}"
		}

		label := s.UID()
		if tag := s.Details().Tag; tag != "" {
			label += " <br/> " + tag
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(s.UID()), opener, escape(label), closer)
	}

	chosen := make(map[string]bool)
	for p := range knowledge.Of[domain.ChoicePath](kb, domain.KindChoicePath) {
		chosen[p.Option] = true
	}

	for _, e := range knowledge.Sorted(knowledge.Of[domain.Edge](kb, domain.KindJump)) {
		var parts []string
		if o, ok := e.(domain.Option); ok {
			if o.Label != "" {
				parts = append(parts, o.Label)
			} else {
				parts = append(parts, o.UID())
			}
		}
		if reqs := e.Requirements(); len(reqs) > 0 {
			described := make([]string, len(reqs))
			for i, r := range reqs {
				described[i] = requirements.Describe(r)
			}
			parts = append(parts, "["+strings.Join(described, ", ")+"]")
		}

		from, to := sanitizeMermaidID(e.From()), sanitizeMermaidID(e.To())
		text := escape(strings.Join(parts, " "))
		switch {
		case chosen[e.UID()] && text != "":
			fmt.Fprintf(&sb, "    %s == \"%s\" ==> %s\n", from, text, to)
		case chosen[e.UID()]:
			fmt.Fprintf(&sb, "    %s ==> %s\n", from, to)
		case text != "":
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", from, text, to)
		default:
			fmt.Fprintf(&sb, "    %s --> %s\n", from, to)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef next fill:#fff3e0,stroke:#ef6c00,stroke-width:2px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" && id != overlay.CurrentState {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentState != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentState))
		}
		if overlay.Jump != "" {
			if f, ok := kb.Lookup(overlay.Jump); ok {
				if e, ok := f.(domain.Edge); ok {
					fmt.Fprintf(&sb, "    class %s next;\n", sanitizeMermaidID(e.To()))
				}
			}
		}
	}

	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
