// Package health exposes the doctor checks at GET /health: the export
// bucket, the preferences schema, and whether each tracker site answers.
// The same service backs the doctor command.
package health
