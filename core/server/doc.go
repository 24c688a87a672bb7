// Package server holds the HTTP server configuration.
//
// The start command owns the fiber application; this package only defines
// the settings it reads: the listen port, the API key guarding every route
// and whether the metrics endpoint is exposed.
package server
