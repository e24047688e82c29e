package domain

import "strings"

// Kind identifies the variant of a Fact.
// Kinds are slash-separated paths: a kind is a subtype of every prefix of its path,
// so "state/choice" is both a Choice and a State. Every kind is a Fact.
type Kind string

// Core kinds understood by the traversal engine.
const (
	KindFact        Kind = "fact"
	KindState       Kind = "state"
	KindStart       Kind = "state/start"
	KindFinish      Kind = "state/finish"
	KindChoice      Kind = "state/choice"
	KindJump        Kind = "jump"
	KindOption      Kind = "jump/option"
	KindChoicePath  Kind = "choice_path"
	KindPointer     Kind = "pointer"
	KindRestriction Kind = "restriction"
)

// Is reports whether k equals target or is one of its subtypes.
func (k Kind) Is(target Kind) bool {
	if target == KindFact || k == target {
		return true
	}
	return strings.HasPrefix(string(k), string(target)+"/")
}

// Parent returns the direct supertype of k. Top-level kinds descend from KindFact.
func (k Kind) Parent() Kind {
	if k == KindFact || k == "" {
		return KindFact
	}
	i := strings.LastIndex(string(k), "/")
	if i < 0 {
		return KindFact
	}
	return k[:i]
}
