// Package messagequeue defines the port for the labeling event stream.
package messagequeue

import "context"

// Handler processes one delivered message. Returning an error asks the
// adapter to redeliver.
type Handler func(ctx context.Context, subject string, data []byte) error

// Queue publishes and consumes labeling lifecycle events.
type Queue interface {
	Publish(ctx context.Context, subject string, data []byte) error

	// Subscribe registers handler for subject; the returned func
	// cancels the subscription.
	Subscribe(ctx context.Context, subject string, handler Handler) (cancel func(), err error)

	// Drain flushes in-flight messages before shutdown.
	Drain() error

	Close() error

	// IsConnected reports broker liveness for health checks.
	IsConnected() bool
}

// Subjects for labeling lifecycle events, all under the labels.>
// stream pattern.
const (
	SubjectTaskCreated         = "labels.task.created"
	SubjectTaskAssigned        = "labels.task.assigned"
	SubjectTaskReviewReady     = "labels.task.review_ready"
	SubjectConsensusFinalized  = "labels.consensus.finalized"
	SubjectRetrainingTriggered = "labels.retraining.triggered"
)
