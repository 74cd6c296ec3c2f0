// Package kafka publishes memory events to a Kafka topic with segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/memseed/pkg/eventstream"
)

// DefaultTopic is the topic memory events are written to.
const DefaultTopic = "memseed.memories"

// MessageWriter is the subset of *kafkago.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Config holds configuration for the Kafka publisher.
type Config struct {
	Brokers []string
	Topic   string

	// WriteTimeout bounds a single publish. Defaults to 10s.
	WriteTimeout time.Duration
}

// Publisher writes each event as a JSON message keyed by memory id, so all
// events for one memory land on the same partition.
type Publisher struct {
	writer MessageWriter
	topic  string
}

// NewPublisher creates a Kafka publisher backed by a kafkago.Writer.
func NewPublisher(c Config) (*Publisher, error) {
	if len(c.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}

	topic := c.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	timeout := c.WriteTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(c.Brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		WriteTimeout:           timeout,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, topic: topic}, nil
}

// NewPublisherWithWriter creates a publisher over an existing writer.
func NewPublisherWithWriter(w MessageWriter, topic string) *Publisher {
	return &Publisher{writer: w, topic: topic}
}

// Topic returns the destination topic.
func (p *Publisher) Topic() string {
	return p.topic
}

// PublishMemory encodes and writes a single event.
func (p *Publisher) PublishMemory(ctx context.Context, event *eventstream.MemorySeededEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	msg, err := message(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing event %s to %s: %w", event.EventID, p.topic, err)
	}
	return nil
}

// PublishMemories encodes every event and hands them to the writer in a
// single WriteMessages call, so an unreachable cluster costs one write
// timeout per batch instead of one per event.
func (p *Publisher) PublishMemories(ctx context.Context, events []*eventstream.MemorySeededEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, 0, len(events))
	for _, event := range events {
		if event == nil {
			return eventstream.ErrNilEvent
		}
		msg, err := message(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publishing %d events to %s: %w", len(msgs), p.topic, err)
	}
	return nil
}

func message(event *eventstream.MemorySeededEvent) (kafkago.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("marshaling event: %w", err)
	}

	return kafkago.Message{
		Key:   []byte(event.Memory.ID),
		Value: payload,
		Time:  event.EmittedAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}, nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
