package service

import (
	"context"
	"math/rand/v2"

	"github.com/Strob0t/LabelForge/internal/adapter/otel"
	"github.com/Strob0t/LabelForge/internal/adapter/ws"
	"github.com/Strob0t/LabelForge/internal/domain/annotation"
	"github.com/Strob0t/LabelForge/internal/domain/task"
	"github.com/Strob0t/LabelForge/internal/port/broadcast"
	"github.com/Strob0t/LabelForge/internal/port/cache"
	"github.com/Strob0t/LabelForge/internal/port/labelstore"
	"github.com/Strob0t/LabelForge/internal/port/messagequeue"
	"github.com/Strob0t/LabelForge/internal/semantic"
)

// DurationSampler produces the simulated annotation duration in seconds.
// Injected so tests can pin reliability outcomes.
type DurationSampler func() float64

// UniformSampler returns a sampler drawing uniformly from [min, max).
func UniformSampler(min, max float64) DurationSampler {
	return func() float64 {
		return min + rand.Float64()*(max-min)
	}
}

// AnnotationService records annotations and votes, tracks annotator
// reliability and promotes tasks to review once enough annotations
// have accumulated.
type AnnotationService struct {
	store   labelstore.Store
	queue   messagequeue.Queue
	hub     broadcast.Broadcaster
	cache   cache.Cache
	metrics *otel.Metrics
	sample  DurationSampler

	// annotationThreshold is the annotation count at which a task is
	// promoted to awaiting_review.
	annotationThreshold int
	// disagreementCutoff is the similarity below which an annotation
	// counts as disagreeing with an existing consensus.
	disagreementCutoff float64
}

// NewAnnotationService creates a new AnnotationService.
func NewAnnotationService(store labelstore.Store, queue messagequeue.Queue, hub broadcast.Broadcaster, c cache.Cache, metrics *otel.Metrics, sample DurationSampler, annotationThreshold int, disagreementCutoff float64) *AnnotationService {
	return &AnnotationService{
		store:               store,
		queue:               queue,
		hub:                 hub,
		cache:               c,
		metrics:             metrics,
		sample:              sample,
		annotationThreshold: annotationThreshold,
		disagreementCutoff:  disagreementCutoff,
	}
}

// Submit records an annotation against a task, updates the annotator's
// reliability and promotes the task to awaiting_review when the
// annotation threshold is reached.
func (s *AnnotationService) Submit(ctx context.Context, taskID string, req annotation.CreateRequest) (*annotation.Annotation, error) {
	ann, err := s.store.CreateAnnotation(ctx, taskID, req)
	if err != nil {
		return nil, err
	}

	// An annotation disagrees when the task already has a consensus and
	// the new caption diverges from it.
	disagreements := 0
	if cons, err := s.store.GetConsensus(ctx, taskID); err == nil && cons != nil {
		if semantic.Similarity(req.Caption, cons.ConsensusCaption) < s.disagreementCutoff {
			disagreements = 1
		}
	}

	m, err := s.store.RecordCompletion(ctx, req.AnnotatorID, s.sample(), disagreements)
	if err != nil {
		return nil, err
	}

	anns, err := s.store.ListAnnotations(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if len(anns) >= s.annotationThreshold {
		t, err := s.store.GetTask(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if t.Status == task.StatusPending || t.Status == task.StatusAssigned {
			promoted, err := s.store.AdvanceTaskStatus(ctx, taskID, task.StatusAwaitingReview)
			if err != nil {
				return nil, err
			}
			publishJSON(ctx, s.queue, messagequeue.SubjectTaskReviewReady, promoted)
			broadcastTaskStatus(ctx, s.hub, promoted)
		}
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, dashboardCacheKey)
	}
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, ws.EventDashboardUpdate, ws.DashboardEvent{
			AnnotatorID: m.AnnotatorID,
			Reliability: m.Reliability,
			Throughput:  m.Completed,
		})
	}
	if s.metrics != nil {
		s.metrics.Annotations.Add(ctx, 1)
	}
	return ann, nil
}

// SubmitVote records a quality vote against a task.
func (s *AnnotationService) SubmitVote(ctx context.Context, taskID string, req annotation.VoteRequest) (*annotation.Vote, error) {
	v, err := s.store.CreateVote(ctx, taskID, req)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.Votes.Add(ctx, 1)
	}
	return v, nil
}
