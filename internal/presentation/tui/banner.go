package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the questline ASCII banner with the given version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`   ___                 _   _ _`, "#818cf8"},
		{`  / _ \ _  _ ___ ___| |_| (_)_ _  ___`, "#a78bfa"},
		{` | (_) | || / -_|_-<|  _| | | ' \/ -_)`, "#c084fc"},
		{`  \__\_\\_,_\___/__/ \__|_|_|_||_\___|`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}

// Highlight colours s for prompts and option markers.
func Highlight(s string) string {
	p := termenv.ColorProfile()
	return termenv.String(s).Foreground(p.Color("#a78bfa")).Bold().String()
}
