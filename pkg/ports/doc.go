/*
Package ports defines the driven ports (interfaces) of the questline engine.

These interfaces decouple the traversal logic from concrete storage, scenario
sources and the adapters that expose a traversal to the outside world.

# Key Interfaces

  - FactStore: the storage the machine drives (knowledge.Base in memory).
  - ScenarioLoader: reconstructs authored facts from YAML, Loam or code.
  - Driver: the traversal surface used by HTTP, MCP and CLI adapters.
*/
package ports
