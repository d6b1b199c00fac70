// Package logger builds configured slog.Logger instances for the
// application: text or JSON output, level filtering, and static attributes
// attached to every record.
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithTextFormatter(),
//	    logger.WithAttr(logger.Component("vault")),
//	)
//
// Library packages receive a *slog.Logger through their options and never
// construct one themselves; only the binaries call New.
package logger
