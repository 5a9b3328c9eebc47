/*
Package domain contains the core models of the blueprint engine.

It defines the records the engine consumes (client contexts, catalog exercises,
templates) and the values it produces (scored exercises, group pools, block
allocations and the assembled Blueprint). The package performs no I/O.
Loosely typed records coming from storage are decoded once at the boundary
(see DecodeClientContext and DecodeExercise) and validated before they reach
the pipeline.

# Key Entities

  - ClientContext: one checked-in client's profile and preferences.
  - Exercise: an immutable catalog record.
  - ScoredExercise / GroupScoredExercise: per-client and group rankings.
  - Block: one round of a template, with its slot allocation.
  - Blueprint: the serializable result of a generation run.
*/
package domain
