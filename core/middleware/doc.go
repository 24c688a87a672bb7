// Package middleware groups the HTTP middleware of the fiber application.
//
//   - auth: API key check guarding every route except the public ones.
//   - rayid: per-request id stored in locals and echoed in X-Ray-ID, picked
//     up by logger.WithRayID.
package middleware
