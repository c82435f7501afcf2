package service

import (
	"context"
	"time"

	"github.com/Strob0t/LabelForge/internal/domain/retraining"
	"github.com/Strob0t/LabelForge/internal/domain/task"
	"github.com/Strob0t/LabelForge/internal/port/labelstore"
	"github.com/Strob0t/LabelForge/internal/port/messagequeue"
)

// RetrainingService assembles retraining trigger events from labeled
// tasks and publishes them for downstream training consumers.
type RetrainingService struct {
	store labelstore.Store
	queue messagequeue.Queue
}

// NewRetrainingService creates a new RetrainingService.
func NewRetrainingService(store labelstore.Store, queue messagequeue.Queue) *RetrainingService {
	return &RetrainingService{store: store, queue: queue}
}

// Trigger builds a retraining event carrying the referenced tasks.
// Unknown task IDs are silently dropped so a partially stale batch
// still triggers.
func (s *RetrainingService) Trigger(ctx context.Context, req retraining.TriggerRequest) (*retraining.Event, error) {
	labeled := make([]task.Task, 0, len(req.LabeledTaskIDs))
	for _, id := range req.LabeledTaskIDs {
		t, err := s.store.GetTask(ctx, id)
		if err != nil {
			continue
		}
		labeled = append(labeled, *t)
	}

	event := retraining.Event{
		Event:     retraining.EventName,
		Timestamp: time.Now().UTC(),
		Payload: retraining.Payload{
			ModelVersion: req.ModelVersion,
			MiniBatchID:  req.MiniBatchID,
			LabeledTasks: labeled,
		},
	}
	publishJSON(ctx, s.queue, messagequeue.SubjectRetrainingTriggered, event)
	return &event, nil
}
