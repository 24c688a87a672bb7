// Package compare runs comparisons for the HTTP API and the CLI.
//
// A request names a Steam profile and the services to compare. The service
// builds a fresh fetch client and adapter set per run, hands them to the
// reconcile engine, and can export the pairwise tables as CSV, optionally
// uploading them to the export bucket.
//
// Selecting "steam" compares the Steam host as a service of its own. The host
// is always used to resolve mismatched titles.
package compare
