package messaging

import (
	"context"
)

// Broker defines the interface for message brokers. Fanout is publish-only
// from this service; dashboard clients consume the channel on their own
// redis connection.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}
