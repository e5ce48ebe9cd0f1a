package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes events as JSON messages keyed by subject.
type KafkaSink struct {
	writer messageWriter
	log    *zap.Logger
}

// NewKafkaSink creates an asynchronous producer for topic.
func NewKafkaSink(brokers []string, topic string, log *zap.Logger) *KafkaSink {
	log = log.Named("audit")
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		Async:        true,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warn("Failed to publish activity", zap.Int("messages", len(messages)), zap.Error(err))
			}
		},
	}
	return &KafkaSink{writer: w, log: log}
}

func newKafkaSinkWithWriter(w messageWriter, log *zap.Logger) *KafkaSink {
	return &KafkaSink{writer: w, log: log}
}

func (s *KafkaSink) Record(ctx context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Warn("Failed to encode activity", zap.String("action", event.Action), zap.Error(err))
		return
	}

	msg := kafka.Message{Key: []byte(event.Subject), Value: payload, Time: event.At}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.log.Warn("Failed to publish activity", zap.String("action", event.Action), zap.Error(err))
	}
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
