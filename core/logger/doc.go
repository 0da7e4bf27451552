// Package logger builds the zap logger used across the service.
//
// Level debug selects zap's development preset, anything else the production one.
// Format console switches to colored human readable output.
//
// WithRayID tags a logger with the request id stored by the rayid middleware so every
// line logged while handling a request can be correlated:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Ingest failed", zap.Error(err))
package logger
