// Package graph renders a scenario as a Mermaid flowchart.
package graph
