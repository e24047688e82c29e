/*
Package questline is a rule-driven traversal engine for branching scenarios.

A scenario is a set of facts held in a knowledge base: states (Start, Node,
Choice, Finish), the jumps between them, the options leaving each Choice and the
restrictions the whole set must satisfy. A machine moves a single pointer through
that graph one controlled step at a time. Requirements attached to states and
jumps gate each step, and a Choice only continues once a ChoicePath records
which option was taken.

# Concept

A step either selects the jump out of the current state or completes the jump
in progress by entering its destination. The pointer is itself a fact, so the
whole traversal is visible to requirements and restrictions. Hooks report every
state entered and every jump started and ended; they fire before the pointer
moves.

Scenarios are loaded from a YAML document, a directory of Markdown documents
(through Loam) or built in Go with the scenario package.

# Usage

	ctx := context.Background()
	eng, err := questline.New(ctx, "./tavern.yaml")
	if err != nil {
		log.Fatal(err)
	}

	// Walk until the first unresolved choice.
	if _, err := eng.StepUntilCan(); err != nil && !errors.Is(err, domain.ErrNoJumpsAvailable) {
		log.Fatal(err)
	}

	point, _ := eng.NearestChoice()
	if err := eng.Choose(point.Choice.UID(), point.Options[0].UID()); err != nil {
		log.Fatal(err)
	}
	eng.StepUntilCan()

Runner wraps the same loop with prompts for interactive use.
*/
package questline
