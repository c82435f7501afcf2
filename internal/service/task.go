package service

import (
	"context"
	"errors"

	"github.com/Strob0t/LabelForge/internal/adapter/otel"
	"github.com/Strob0t/LabelForge/internal/domain"
	"github.com/Strob0t/LabelForge/internal/domain/task"
	"github.com/Strob0t/LabelForge/internal/port/broadcast"
	"github.com/Strob0t/LabelForge/internal/port/labelstore"
	"github.com/Strob0t/LabelForge/internal/port/messagequeue"
)

// TaskService handles the task lifecycle: creation, listing and
// reliability-gated assignment.
type TaskService struct {
	store   labelstore.Store
	queue   messagequeue.Queue
	hub     broadcast.Broadcaster
	metrics *otel.Metrics

	// reliabilityGate is the minimum reliability an annotator needs
	// before high-priority tasks are offered to them.
	reliabilityGate float64
}

// NewTaskService creates a new TaskService.
func NewTaskService(store labelstore.Store, queue messagequeue.Queue, hub broadcast.Broadcaster, metrics *otel.Metrics, reliabilityGate float64) *TaskService {
	return &TaskService{
		store:           store,
		queue:           queue,
		hub:             hub,
		metrics:         metrics,
		reliabilityGate: reliabilityGate,
	}
}

// Create scores and stores a new labeling task. Priority is derived
// from model uncertainty and the annotator-facing difficulty tier.
func (s *TaskService) Create(ctx context.Context, videoID string, uncertainty float64, difficulty task.Priority) (*task.Task, error) {
	priority := task.CalculatePriority(uncertainty, difficulty)

	t, err := s.store.CreateTask(ctx, videoID, uncertainty, priority)
	if err != nil {
		return nil, err
	}

	publishJSON(ctx, s.queue, messagequeue.SubjectTaskCreated, t)
	broadcastTaskStatus(ctx, s.hub, t)
	if s.metrics != nil {
		s.metrics.TasksCreated.Add(ctx, 1)
	}
	return t, nil
}

// Get returns a single task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*task.Task, error) {
	return s.store.GetTask(ctx, id)
}

// List returns all tasks ordered by priority descending, then creation
// time ascending.
func (s *TaskService) List(ctx context.Context) ([]task.Task, error) {
	return s.store.ListTasks(ctx)
}

// RequestAssignment claims the best available pending task for the
// annotator. High-priority tasks are withheld from annotators whose
// reliability is below the gate. Returns (nil, nil) when no eligible
// task exists.
func (s *TaskService) RequestAssignment(ctx context.Context, annotatorID string) (*task.Task, error) {
	ctx, span := otel.StartAssignmentSpan(ctx, annotatorID)
	defer span.End()

	m, err := s.store.GetMetrics(ctx, annotatorID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	for i := range tasks {
		t := &tasks[i]
		if t.Status != task.StatusPending {
			continue
		}
		if t.Priority == task.PriorityHigh && m.Reliability < s.reliabilityGate {
			continue
		}

		claimed, err := s.store.ClaimTask(ctx, t.ID, annotatorID)
		if errors.Is(err, domain.ErrConflict) {
			// Lost the race to another annotator; keep scanning.
			continue
		}
		if err != nil {
			return nil, err
		}

		publishJSON(ctx, s.queue, messagequeue.SubjectTaskAssigned, claimed)
		broadcastTaskStatus(ctx, s.hub, claimed)
		if s.metrics != nil {
			s.metrics.TasksAssigned.Add(ctx, 1)
		}
		return claimed, nil
	}
	return nil, nil
}
