// Package labelstore defines the labeling store port (interface).
package labelstore

import (
	"context"

	"github.com/Strob0t/LabelForge/internal/domain/annotation"
	"github.com/Strob0t/LabelForge/internal/domain/annotator"
	"github.com/Strob0t/LabelForge/internal/domain/consensus"
	"github.com/Strob0t/LabelForge/internal/domain/prediction"
	"github.com/Strob0t/LabelForge/internal/domain/task"
)

// Store is the port interface over all labeling workflow state. Every
// method appears atomic to callers; implementations serialize mutations.
type Store interface {
	// Tasks
	CreateTask(ctx context.Context, videoID string, uncertainty float64, priority task.Priority) (*task.Task, error)
	GetTask(ctx context.Context, id string) (*task.Task, error)
	// ListTasks returns tasks ordered by priority descending, then
	// creation time ascending.
	ListTasks(ctx context.Context) ([]task.Task, error)
	// ClaimTask atomically assigns a pending task to an annotator.
	// Returns domain.ErrConflict when the task is no longer pending,
	// so concurrent callers can never claim the same task twice.
	ClaimTask(ctx context.Context, id, annotatorID string) (*task.Task, error)
	// AdvanceTaskStatus moves a task forward along its lifecycle.
	// Transitions that would regress the status are ignored and return
	// the task unchanged.
	AdvanceTaskStatus(ctx context.Context, id string, status task.Status) (*task.Task, error)

	// Predictions
	UpsertPrediction(ctx context.Context, req prediction.IngestRequest) (*prediction.Prediction, error)
	GetPrediction(ctx context.Context, videoID string) (*prediction.Prediction, error)

	// Annotations and votes (append-only per task)
	CreateAnnotation(ctx context.Context, taskID string, req annotation.CreateRequest) (*annotation.Annotation, error)
	ListAnnotations(ctx context.Context, taskID string) ([]annotation.Annotation, error)
	CreateVote(ctx context.Context, taskID string, req annotation.VoteRequest) (*annotation.Vote, error)
	ListVotes(ctx context.Context, taskID string) ([]annotation.Vote, error)

	// Consensus
	SetConsensus(ctx context.Context, res consensus.Result) error
	GetConsensus(ctx context.Context, taskID string) (*consensus.Result, error)

	// Annotator metrics. RecordCompletion materializes the metrics
	// entry on first use, applies the increments and recomputes
	// reliability in one serialized step. GetMetrics returns defaults
	// for unseen annotators without persisting them; ListMetrics covers
	// only annotators with at least one recorded annotation.
	RecordCompletion(ctx context.Context, annotatorID string, seconds float64, disagreements int) (*annotator.Metrics, error)
	GetMetrics(ctx context.Context, annotatorID string) (*annotator.Metrics, error)
	ListMetrics(ctx context.Context) ([]annotator.Metrics, error)
}
