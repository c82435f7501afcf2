// Package memstore implements the labelstore port in process memory.
// It is the single owner of all mutable workflow state; nothing
// survives a restart.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/LabelForge/internal/domain"
	"github.com/Strob0t/LabelForge/internal/domain/annotation"
	"github.com/Strob0t/LabelForge/internal/domain/annotator"
	"github.com/Strob0t/LabelForge/internal/domain/consensus"
	"github.com/Strob0t/LabelForge/internal/domain/prediction"
	"github.com/Strob0t/LabelForge/internal/domain/task"
)

// Store holds all labeling state behind a single mutex. Every exported
// method takes the lock for its whole duration, so operations appear
// atomic to callers and the scan-then-claim assignment sequence cannot
// double-assign a task.
type Store struct {
	mu sync.RWMutex

	tasks     map[string]*task.Task
	taskOrder []string // creation order, tie-break for equal priorities

	predictions map[string]prediction.Prediction

	annotations map[string][]annotation.Annotation
	votes       map[string][]annotation.Vote

	consensus map[string]consensus.Result

	metrics map[string]*annotator.Metrics

	now func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		tasks:       make(map[string]*task.Task),
		predictions: make(map[string]prediction.Prediction),
		annotations: make(map[string][]annotation.Annotation),
		votes:       make(map[string][]annotation.Vote),
		consensus:   make(map[string]consensus.Result),
		metrics:     make(map[string]*annotator.Metrics),
		now:         time.Now,
	}
}

// CreateTask stores a new pending task with a fresh ID.
func (s *Store) CreateTask(_ context.Context, videoID string, uncertainty float64, priority task.Priority) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	t := &task.Task{
		ID:          uuid.NewString(),
		VideoID:     videoID,
		Priority:    priority,
		Status:      task.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
		Uncertainty: uncertainty,
	}
	s.tasks[t.ID] = t
	s.taskOrder = append(s.taskOrder, t.ID)

	out := *t
	return &out, nil
}

// GetTask returns a copy of the task with the given ID.
func (s *Store) GetTask(_ context.Context, id string) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	out := *t
	return &out, nil
}

// ListTasks returns all tasks ordered by priority descending, then
// creation time ascending.
func (s *Store) ListTasks(_ context.Context) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]task.Task, 0, len(s.taskOrder))
	for _, id := range s.taskOrder {
		out = append(out, *s.tasks[id])
	}
	// Stable sort over creation order: equal priorities keep the
	// earliest-created task first.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Weight() > out[j].Priority.Weight()
	})
	return out, nil
}

// ClaimTask assigns a pending task to an annotator. The check and the
// mutation happen under one lock, so a task can only be claimed once:
// a caller that lost the race gets domain.ErrConflict.
func (s *Store) ClaimTask(_ context.Context, id, annotatorID string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	if t.Status != task.StatusPending {
		return nil, fmt.Errorf("task %s is %s: %w", id, t.Status, domain.ErrConflict)
	}

	t.AssignedTo = annotatorID
	t.Status = task.StatusAssigned
	t.UpdatedAt = s.now().UTC()

	out := *t
	return &out, nil
}

// AdvanceTaskStatus moves a task forward to the given status. A
// transition that would regress the lifecycle is ignored and the task
// is returned unchanged.
func (s *Store) AdvanceTaskStatus(_ context.Context, id string, status task.Status) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	if t.Status.CanAdvanceTo(status) {
		t.Status = status
		t.UpdatedAt = s.now().UTC()
	}

	out := *t
	return &out, nil
}

// UpsertPrediction stores a prediction, overwriting any prior record
// for the same video ID.
func (s *Store) UpsertPrediction(_ context.Context, req prediction.IngestRequest) (*prediction.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := prediction.Prediction{
		VideoID:      req.VideoID,
		Caption:      req.Caption,
		Uncertainty:  req.Uncertainty,
		ModelVersion: req.ModelVersion,
		IngestedAt:   s.now().UTC(),
	}
	s.predictions[p.VideoID] = p

	out := p
	return &out, nil
}

// GetPrediction returns the stored prediction for a video ID.
func (s *Store) GetPrediction(_ context.Context, videoID string) (*prediction.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.predictions[videoID]
	if !ok {
		return nil, fmt.Errorf("prediction %s: %w", videoID, domain.ErrNotFound)
	}
	out := p
	return &out, nil
}

// CreateAnnotation appends an annotation to a task.
func (s *Store) CreateAnnotation(_ context.Context, taskID string, req annotation.CreateRequest) (*annotation.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[taskID]; !ok {
		return nil, fmt.Errorf("task %s: %w", taskID, domain.ErrNotFound)
	}

	a := annotation.Annotation{
		ID:          uuid.NewString(),
		TaskID:      taskID,
		AnnotatorID: req.AnnotatorID,
		Caption:     req.Caption,
		CreatedAt:   s.now().UTC(),
	}
	s.annotations[taskID] = append(s.annotations[taskID], a)

	out := a
	return &out, nil
}

// ListAnnotations returns a task's annotations in submission order.
func (s *Store) ListAnnotations(_ context.Context, taskID string) ([]annotation.Annotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	anns := s.annotations[taskID]
	out := make([]annotation.Annotation, len(anns))
	copy(out, anns)
	return out, nil
}

// CreateVote appends a vote to a task.
func (s *Store) CreateVote(_ context.Context, taskID string, req annotation.VoteRequest) (*annotation.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[taskID]; !ok {
		return nil, fmt.Errorf("task %s: %w", taskID, domain.ErrNotFound)
	}

	v := annotation.Vote{
		ID:          uuid.NewString(),
		TaskID:      taskID,
		AnnotatorID: req.AnnotatorID,
		Score:       req.Score,
		Rationale:   req.Rationale,
		CreatedAt:   s.now().UTC(),
	}
	s.votes[taskID] = append(s.votes[taskID], v)

	out := v
	return &out, nil
}

// ListVotes returns a task's votes in submission order.
func (s *Store) ListVotes(_ context.Context, taskID string) ([]annotation.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	votes := s.votes[taskID]
	out := make([]annotation.Vote, len(votes))
	copy(out, votes)
	return out, nil
}

// SetConsensus stores the consensus result for a task, overwriting any
// prior result.
func (s *Store) SetConsensus(_ context.Context, res consensus.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.consensus[res.TaskID] = res
	return nil
}

// GetConsensus returns the consensus result for a task.
func (s *Store) GetConsensus(_ context.Context, taskID string) (*consensus.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.consensus[taskID]
	if !ok {
		return nil, fmt.Errorf("consensus for task %s: %w", taskID, domain.ErrNotFound)
	}
	out := res
	return &out, nil
}

// RecordCompletion applies one annotation's worth of metric updates for
// an annotator and recomputes the reliability score. The entry is
// materialized on first use; increments are serialized under the store
// lock so concurrent submissions never lose updates.
func (s *Store) RecordCompletion(_ context.Context, annotatorID string, seconds float64, disagreements int) (*annotator.Metrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.metrics[annotatorID]
	if !ok {
		m = &annotator.Metrics{
			AnnotatorID: annotatorID,
			Reliability: annotator.DefaultReliability,
		}
		s.metrics[annotatorID] = m
	}

	m.Completed++
	m.TotalSeconds += seconds
	m.Disagreements += disagreements
	m.Recompute()

	out := *m
	return &out, nil
}

// GetMetrics returns an annotator's metrics. Unseen annotators get a
// default entry (reliability 0.5) that is not persisted.
func (s *Store) GetMetrics(_ context.Context, annotatorID string) (*annotator.Metrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if m, ok := s.metrics[annotatorID]; ok {
		out := *m
		return &out, nil
	}
	return &annotator.Metrics{
		AnnotatorID: annotatorID,
		Reliability: annotator.DefaultReliability,
	}, nil
}

// ListMetrics returns metrics for every annotator observed so far,
// ordered by annotator ID for deterministic output.
func (s *Store) ListMetrics(_ context.Context) ([]annotator.Metrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]annotator.Metrics, 0, len(s.metrics))
	for _, m := range s.metrics {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AnnotatorID < out[j].AnnotatorID })
	return out, nil
}
