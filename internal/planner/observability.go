package planner

import (
	"io"
	"log/slog"
)

// CallEvent records metadata about a single planning service call.
type CallEvent struct {
	Op        Operation
	RequestID string
	OutingID  string
	Attempts  int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about planning calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events as structured log lines.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"op", event.Op,
		"request_id", event.RequestID,
		"attempts", event.Attempts,
		"latency_ms", event.LatencyMs,
	}
	if event.OutingID != "" {
		attrs = append(attrs, "outing_id", event.OutingID)
	}
	if !event.Success {
		o.logger.Warn("planner_call", append(attrs, "status", "err:"+event.ErrorCode)...)
		return
	}
	o.logger.Info("planner_call", append(attrs, "status", "ok")...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
