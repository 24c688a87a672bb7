// Package reconcile cross-references a player's achievement progress across
// several tracking services and the Steam platform itself.
//
// Every service is reached through an Adapter that produces normalized
// Records. The engine never talks to the network directly.
//
// # Pipeline
//
//  1. Collect: every selected adapter runs concurrently. Failures become the
//     status of that service's Result (needs-sign-in, error, no data) and the
//     run continues with the rest.
//  2. FindMismatches: records are grouped by app id. A title is mismatched
//     when a service with data lacks it or the unlocked counts differ.
//  3. Resolver: each mismatched title gets one authoritative Record, taken
//     from the host's own result, a per-title host lookup, or the collected
//     records (preferring one whose total matches the public achievement row
//     count). Lookups run in a bounded pool and are cached per run.
//  4. Summarize: each tracker is classified as up to date, behind (missing or
//     removed achievements against the authoritative records), or by its
//     failure status.
//  5. DiffAll: every unordered pair of services is joined by app id and each
//     title gets its discrepancy reasons.
//
// # Tri-state attributes
//
// Perfect, completed and trusted are Tristate values. Unknown means the
// service does not expose the attribute and never counts as a mismatch.
//
// # Usage
//
//	engine := reconcile.NewEngine(reconcile.WithLogger(logger))
//	report, err := engine.Compare(ctx, reconcile.Request{
//	    Profile:  profile,
//	    Trackers: adapters,
//	    Host:     steamHost,
//	})
package reconcile
