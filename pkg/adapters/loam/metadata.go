package loam

import (
	"github.com/aretw0/questline/pkg/scenario"
)

// TypeFacts marks a document that contributes content facts or restrictions but no state.
const TypeFacts = "facts"

// StateMetadata represents the frontmatter of a scenario document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
// The document body becomes the state description.
type StateMetadata struct {
	UID     string              `json:"uid" mapstructure:"uid"`
	Type    string              `json:"type" mapstructure:"type"`
	Tag     string              `json:"tag" mapstructure:"tag"`
	Require []any               `json:"require" mapstructure:"require"`
	Jumps   []scenario.JumpSpec `json:"jumps" mapstructure:"jumps"`
	Options []scenario.JumpSpec `json:"options" mapstructure:"options"`
	Default string              `json:"default" mapstructure:"default"`

	// Facts and Restrictions may appear in any document and are merged.
	Facts        []scenario.EntitySpec `json:"facts" mapstructure:"facts"`
	Restrictions []string              `json:"restrictions" mapstructure:"restrictions"`
}
