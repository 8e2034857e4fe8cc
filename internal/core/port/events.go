package port

import "context"

// EventListenerPort is an inbound adapter fed by the message broker.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
