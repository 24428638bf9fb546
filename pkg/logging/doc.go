// Package logging provides structured logging configuration for queuestub.
//
// This package wraps log/slog so that every component logs the same way.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatText,
//	})
//	logger.Info("stub server started", "port", 12399)
//
// Components accept a *slog.Logger through an option. If none is provided
// they use Nop(), so tests stay quiet unless they ask for output.
package logging
