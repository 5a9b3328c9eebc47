/*
Package blueprint plans group workout sessions.

A Service turns the roster of a session (every checked-in client's profile and
preferences) plus the business's exercise catalog into a Blueprint: ranked
per-client candidates, shared candidate pools, slot allocations and
assignments for every round of a workout template.

# Usage

The Service depends on ports only. The in-memory adapters are enough to get
started:

	roster := memory.NewRoster()
	_ = roster.SaveGroup(ctx, group)
	roster.SetCatalog(group.BusinessID, catalog)

	svc := blueprint.New(roster, roster, blueprint.WithCache(memory.NewCache()))
	res, err := svc.Generate(ctx, group.SessionID, false)

Concurrent requests for one session are coalesced into a single computation.
Results are cached per session and dropped whenever a client's preferences
change or the blueprint is invalidated.
*/
package blueprint
