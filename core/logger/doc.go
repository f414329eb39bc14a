// Package logger builds the zap logger shared by the server, the CLI commands
// and the reconcile engine.
//
// Level "debug" selects zap's development config, anything else the production
// config at the parsed level. Format "console" switches to colored console
// output; the default is json with the keys level, time and message.
//
// Request handlers derive a per-request logger with WithRayID so every line
// of one HTTP call, including the board outcome it waits on, carries the same
// ray_id:
//
//	l := logger.WithRayID(h.logger, c)
//	l.Warn("Board update failed", zap.Error(err))
package logger
