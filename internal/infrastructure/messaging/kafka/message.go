package kafka

import (
	"context"
	"time"
)

// Message is one consumed record.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// ProducerMessage is one record to publish.
type ProducerMessage struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// MessageHandler processes one message.  A non-nil error triggers retries
// and finally the dead-letter topic.
type MessageHandler func(ctx context.Context, msg *Message) error

// Publisher is the write side used by the consumer for dead letters and by
// the worker for annotations.
type Publisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// BatchItemError reports one failed record of PublishBatch.
type BatchItemError struct {
	Index int
	Topic string
	Error error
}

// BatchPublishResult summarises PublishBatch.
type BatchPublishResult struct {
	Succeeded int
	Failed    int
	Errors    []BatchItemError
}

//Personal.AI order the ending
