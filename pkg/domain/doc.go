/*
Package domain contains the fact model of the questline engine.

It defines the closed set of fact variants the traversal engine understands, the
capabilities it consumes from collaborators (requirements and restrictions), the
error taxonomy, and the lifecycle hooks. This package is kept pure and free of
I/O and storage concerns.

# Key Entities

  - Fact: an identity-bearing, typed record (uid + Kind).
  - Start, Finish, Choice, Node: states the pointer can rest on.
  - Jump, Option: directed edges between states; Options leave a Choice.
  - ChoicePath: a recorded resolution of a Choice.
  - Pointer: the singleton traversal cursor.
  - Requirement, Restriction: predicates consumed by the engine and the knowledge base.
*/
package domain
