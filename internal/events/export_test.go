package events

import "github.com/segmentio/kafka-go"

// NewKafkaPublisherWithWriter lets tests substitute the broker connection.
func NewKafkaPublisherWithWriter(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

var _ messageWriter = (*kafka.Writer)(nil)
