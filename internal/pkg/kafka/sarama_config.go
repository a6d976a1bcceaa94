package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

// newSaramaConfig builds the shared sarama.Config for the best-effort
// domain-event producer. Kept in its own helper to avoid repeating
// these settings between the producer and any future consumer.
func newSaramaConfig() *sarama.Config {
	c := sarama.NewConfig()

	c.Producer.Return.Successes = false
	c.Producer.Return.Errors = true
	c.Producer.RequiredAcks = sarama.WaitForLocal
	c.Producer.Retry.Max = 3
	c.Producer.Timeout = 5 * time.Second

	return c
}
