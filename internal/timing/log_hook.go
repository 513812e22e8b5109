package timing

import "log/slog"

// LogHook logs every dispatched event at debug level and handler errors at
// warn level.
type LogHook struct {
	logger *slog.Logger
}

// NewLogHook creates a LogHook. A nil logger means slog.Default().
func NewLogHook(logger *slog.Logger) *LogHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHook{logger: logger}
}

// Func implements Hook.
func (h *LogHook) Func(ctx HookCtx) {
	evt, ok := ctx.Item.(ScheduledEvent)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosBeforeEvent:
		h.logger.Debug("Dispatching event", "event", evt.String())
	case HookPosAfterEvent:
		if err, ok := ctx.Detail.(error); ok && err != nil {
			h.logger.Warn("Event handler failed", "event", evt.String(), "error", err)
		}
	}
}
