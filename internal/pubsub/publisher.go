// Package pubsub emits purchase lifecycle events. Every terminal purchase
// transition (completed or failed) is published so downstream consumers such
// as receipt mailers or analytics can react without polling the database.
// Consumers must tolerate duplicates: a replayed payment webhook can re-emit
// the same event.
package pubsub

import (
	"context"
	"fmt"

	"app/internal/config"

	"cloud.google.com/go/pubsub"
)

// Publisher is the event sink the enrollment flow writes to.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
}

// PubSubPublisher publishes to Google Pub/Sub. The purchase-events topic name
// comes from config; the publisher itself is topic-agnostic.
type PubSubPublisher struct {
	client *pubsub.Client
}

// NewPublisher connects to the GCP project named in config.
func NewPublisher(ctx context.Context, cfg *config.Config) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client}, nil
}

// Publish sends the payload to the topic and returns the message ID.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	if topic == "" {
		return "", fmt.Errorf("pubsub: topic name is empty")
	}
	t := p.client.Topic(topic)
	result := t.Publish(ctx, &pubsub.Message{Data: payload})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return id, nil
}
