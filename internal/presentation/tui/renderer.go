package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders state descriptions as markdown using glamour.
// If the renderer cannot be built, content is returned unchanged.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
