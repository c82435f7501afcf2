// Package broadcast defines the port for pushing labeling lifecycle
// events to connected dashboard clients.
package broadcast

import "context"

// Broadcaster fans a typed event out to every connected client.
// Delivery is best-effort; slow or gone clients never block the caller.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}
