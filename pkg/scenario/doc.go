/*
Package scenario turns authored scenarios into facts.

Scenarios come from YAML documents (Decode, FileLoader) or from Go code (Builder).
Both produce the same facts: one state per StateSpec, a Jump per entry of its
jumps list, an Option per entry of its options list, and a ChoicePath when a
default option is given.

	name: tavern
	restrictions: [standard]
	states:
	  - uid: door
	    type: start
	    jumps: [{to: hall}]
	  - uid: hall
	    type: choice
	    options:
	      - {uid: stairs, to: attic, label: Climb the stairs}
	      - {uid: cellar, to: cellar, label: Go down, require: [{exists: lamp}]}
	  - uid: attic
	    type: finish
	  - uid: cellar
	    type: finish
	facts:
	  - {uid: lamp, kind: item}

Requirements are single-key maps: exists, missing, not, all, any and count.
*/
package scenario
