// Package pool provides the bounded worker pool used for pagination walks,
// batched identifier lookups and per-title fallback resolution.
//
// Tasks are isolated: each one gets its own error slot and a failure (or a
// panic) in one task does not stop the others. Result order follows input
// order even though completion order does not.
//
//	p := pool.New(6)
//	pages, errs := pool.Map(ctx, p, []int{2, 3, 4}, fetchPage)
package pool
