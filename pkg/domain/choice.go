package domain

import "fmt"

// ChoicePath records that Option has been selected for Choice.
// A Choice without any ChoicePath is unresolved.
type ChoicePath struct {
	ID     string `json:"uid"`
	Choice string `json:"choice"`
	Option string `json:"option"`
}

func (c ChoicePath) UID() string { return c.ID }
func (ChoicePath) Kind() Kind    { return KindChoicePath }

// NewChoicePath creates a resolution with a uid derived from the choice and option.
func NewChoicePath(choice, option string) ChoicePath {
	return ChoicePath{
		ID:     fmt.Sprintf("choice_path(%s,%s)", choice, option),
		Choice: choice,
		Option: option,
	}
}

// ChoicePoint is the nearest unresolved-or-resolved branch ahead of the pointer,
// with every option it offers and every resolution currently stored for it.
type ChoicePoint struct {
	Choice  State        `json:"-"`
	Options []Option     `json:"options"`
	Paths   []ChoicePath `json:"paths"`
}

// Resolved reports whether at least one ChoicePath exists for the choice.
func (c *ChoicePoint) Resolved() bool {
	return c != nil && len(c.Paths) > 0
}
