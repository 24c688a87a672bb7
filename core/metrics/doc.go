// Package metrics exposes Prometheus collectors for adapter fetches,
// fallback resolutions and outbound HTTP attempts.
//
// The Recorder is nil-safe so packages can take an optional *Recorder
// without guarding every call.
package metrics
