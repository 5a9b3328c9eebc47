/*
Package ports defines the driven ports (interfaces) of the blueprint service.

These interfaces decouple generation from storage and transport, so the same
service runs against in-memory fixtures, files or Redis.

# Key Interfaces

  - SessionSource: loads the roster (GroupContext) of a session.
  - CatalogSource: loads a business's exercise catalog.
  - PreferenceStore: persists preference updates between generations.
  - BlueprintCache: short-lived cache of generated blueprints, keyed by session.
  - Diagnostics: optional sink for per-run reports.
  - DistributedLocker: serializes per-session writes across replicas.
*/
package ports
