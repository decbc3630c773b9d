package extensions

import (
	"log/slog"
	"time"

	hooked "github.com/hooked-fn/hooked-go"
)

// LoggingExtension logs runtime operations and cleanup failures through slog.
type LoggingExtension struct {
	hooked.BaseExtension
	logger *slog.Logger
}

// NewLoggingExtension creates a new logging extension.
// logHandler: slog.Handler for output (use HumanHandler for formatted
// output, NewSilentHandler for tests, or any other slog.Handler)
func NewLoggingExtension(logHandler slog.Handler) *LoggingExtension {
	return &LoggingExtension{
		BaseExtension: hooked.NewBaseExtension("logging"),
		logger:        slog.New(logHandler),
	}
}

func (e *LoggingExtension) Wrap(next func() (any, error), op *hooked.Operation) (any, error) {
	start := time.Now()
	result, err := next()

	duration := time.Since(start)
	if err != nil {
		e.logger.Error("operation failed",
			"kind", string(op.Kind),
			"identity", string(op.Identity),
			"position", op.Position,
			"duration", duration,
			"error", err,
		)
	} else {
		e.logger.Debug("operation completed",
			"kind", string(op.Kind),
			"identity", string(op.Identity),
			"position", op.Position,
			"duration", duration,
		)
	}

	return result, err
}

// OnCleanupError logs the failure and marks it handled so the runtime's
// default logger stays quiet.
func (e *LoggingExtension) OnCleanupError(err *hooked.CleanupError) bool {
	e.logger.Error("cleanup failed",
		"identity", string(err.Identity),
		"context", err.Context,
		"error", err.Err,
	)
	return true
}
