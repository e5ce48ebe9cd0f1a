package audit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Event is one operator-visible activity.
type Event struct {
	Action  string         `json:"action"`
	User    string         `json:"user,omitempty"`
	Subject string         `json:"subject,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	At      time.Time      `json:"at"`
}

// Sink receives activity events. Record never fails the caller.
type Sink interface {
	Record(ctx context.Context, event Event)
	Close() error
}

// New builds the sink selected by the configuration.
func New(cfg Config, log *zap.Logger) (Sink, error) {
	switch cfg.Sink {
	case "", "log":
		return NewLogSink(log), nil
	case "kafka":
		if len(cfg.Brokers) == 0 || cfg.Topic == "" {
			return nil, fmt.Errorf("kafka audit sink requires brokers and topic")
		}
		return NewKafkaSink(cfg.Brokers, cfg.Topic, log), nil
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unsupported audit sink %q", cfg.Sink)
	}
}

// LogSink writes events to the structured log.
type LogSink struct {
	log *zap.Logger
}

// NewLogSink creates a sink writing to log.
func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log.Named("audit")}
}

func (s *LogSink) Record(_ context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	s.log.Info(event.Action,
		zap.String("user", event.User),
		zap.String("subject", event.Subject),
		zap.Any("details", event.Details),
		zap.Time("at", event.At),
	)
}

func (s *LogSink) Close() error { return nil }

// Nop discards events.
type Nop struct{}

func (Nop) Record(context.Context, Event) {}
func (Nop) Close() error                  { return nil }
