// Package stream publishes twin readings to a Kafka topic so live
// dashboards and downstream processors can consume the feed the same way
// they would a physical sensor fleet's.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/luxtwin/luxtwin/twin"
)

// DefaultTopic is the reading feed topic when none is configured.
const DefaultTopic = "lux.readings"

// Publisher writes reading documents to one topic. Messages are keyed by
// device ID so a device's readings stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher connects a publisher to the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

// PublishSeries writes readings in order as one batch. The message payload
// is the reading's JSON document; message time is the reading timestamp,
// not the publish instant.
func (p *Publisher) PublishSeries(ctx context.Context, readings []twin.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, len(readings))
	for i, r := range readings {
		m, err := encodeMessage(r)
		if err != nil {
			return err
		}
		msgs[i] = m
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publishing %d readings: %w", len(msgs), err)
	}
	logrus.Infof("published %d readings to topic %s", len(msgs), p.writer.Topic)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func encodeMessage(r twin.Reading) (kafka.Message, error) {
	value, err := json.Marshal(r)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encoding reading: %w", err)
	}
	return kafka.Message{
		Key:   []byte(r.DeviceID),
		Value: value,
		Time:  r.TS,
	}, nil
}

// BrokersFromEnv reads the comma-separated KAFKA_BROKERS list, defaulting
// to a local broker.
func BrokersFromEnv() []string {
	raw := os.Getenv("KAFKA_BROKERS")
	if raw == "" {
		return []string{"localhost:9092"}
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if b := strings.TrimSpace(p); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
