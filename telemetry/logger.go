package telemetry

import (
	"context"
	"log/slog"
)

// EventLogger logs every tick event through slog. Movement is logged at
// debug level since it dominates the volume.
type EventLogger struct {
	logger *slog.Logger
}

// NewEventLogger creates an event logger. A nil logger uses slog.Default.
func NewEventLogger(logger *slog.Logger) *EventLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLogger{logger: logger.With("component", "events")}
}

// Observe logs the events of one tick.
func (l *EventLogger) Observe(tick int32, events []Event) {
	ctx := context.Background()
	for i := range events {
		ev := &events[i]
		level := slog.LevelInfo
		if ev.Type == EventMoved {
			level = slog.LevelDebug
		}
		if !l.logger.Enabled(ctx, level) {
			continue
		}
		l.logger.LogAttrs(ctx, level, ev.Type.String(), ev.attrs(tick)...)
	}
}

func (ev *Event) attrs(tick int32) []slog.Attr {
	attrs := []slog.Attr{slog.Int("tick", int(tick))}
	switch ev.Type {
	case EventSpread:
		return append(attrs,
			slog.Int("source", int(ev.From)),
			slog.Int("target", int(ev.To)),
		)
	case EventMoved:
		attrs = append(attrs, slog.Int("from", int(ev.From)))
	case EventBorn:
		attrs = append(attrs, slog.Uint64("mother", uint64(ev.Other.ID())))
	case EventEaten:
		attrs = append(attrs, slog.Uint64("predator", uint64(ev.Other.ID())))
	}
	return append(attrs,
		slog.Uint64("entity", uint64(ev.Entity.ID())),
		slog.String("species", ev.Species.String()),
		slog.String("age", ev.Age.String()),
		slog.Int("cell", int(ev.To)),
	)
}
