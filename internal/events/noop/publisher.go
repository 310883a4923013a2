// Package noop is the publisher used when no Kafka brokers are
// configured.
package noop

import (
	"context"

	"github.com/verse-labs/verse-bank/internal/interfaces"
)

type Publisher struct{}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (*Publisher) Publish(ctx context.Context, key string, event any) error {
	return nil
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
