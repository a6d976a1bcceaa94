package kafka

import (
	"encoding/json"
	log "log/slog"

	"github.com/IBM/sarama"

	"github.com/reeltracker/worker/internal/config"
)

// Producer publishes best-effort domain events (video.discovered,
// metric.sampled). A nil Producer is a valid no-op: callers publish
// unconditionally and Publish swallows the disabled case, since Kafka
// is an optional integration (C11) that must never block the core
// discover/dispatch flow.
type Producer struct {
	async sarama.AsyncProducer
	topic string
}

// NewProducer connects the producer when Kafka is enabled, returning
// (nil, nil) otherwise.
func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	async, err := sarama.NewAsyncProducer(cfg.Brokers, newSaramaConfig())
	if err != nil {
		return nil, err
	}

	p := &Producer{async: async, topic: cfg.Topic}
	go p.drainErrors()
	return p, nil
}

func (p *Producer) drainErrors() {
	for err := range p.async.Errors() {
		log.Error("kafka publish failed", "err", err)
	}
}

// Publish emits a JSON-encoded domain event under the given key. A nil
// receiver or marshal/send failure is logged and swallowed: event
// publication never fails the caller's job tick.
func (p *Producer) Publish(eventType, key string, payload any) {
	if p == nil {
		return
	}

	body, err := json.Marshal(map[string]any{
		"event_type": eventType,
		"payload":    payload,
	})
	if err != nil {
		log.Error("failed to marshal kafka event", "event_type", eventType, "err", err)
		return
	}

	p.async.Input() <- &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(body),
	}
}

// Close flushes and closes the underlying producer. Safe on a nil
// receiver.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.async.Close()
}
