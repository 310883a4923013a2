package interfaces

import "context"

// EventPublisher delivers account events to an external sink. The key
// groups events of one account so their relative order survives
// partitioned transports.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}
