// Package logger builds the zap logger shared by the CLI and the HTTP server.
//
// Level "debug" selects zap's development preset; any other level uses the
// production preset. Format "console" switches to a colored, stack-free
// encoder meant for terminals.
//
// Request handlers derive their logger with WithRayID so every line of one
// request carries the same ray_id. Tracker adapters derive theirs with
// ForService, which adds the service field the reports are keyed by.
//
//	log, err := logger.New(&cfg.Log)
//	l := logger.ForService(log, "Exophase")
//	l.Warn("Service needs sign in")
package logger
