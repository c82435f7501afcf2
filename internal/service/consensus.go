package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Strob0t/LabelForge/internal/adapter/otel"
	"github.com/Strob0t/LabelForge/internal/adapter/ws"
	"github.com/Strob0t/LabelForge/internal/domain"
	"github.com/Strob0t/LabelForge/internal/domain/consensus"
	"github.com/Strob0t/LabelForge/internal/domain/task"
	"github.com/Strob0t/LabelForge/internal/port/broadcast"
	"github.com/Strob0t/LabelForge/internal/port/labelstore"
	"github.com/Strob0t/LabelForge/internal/port/messagequeue"
	"github.com/Strob0t/LabelForge/internal/semantic"
)

// ConsensusService aggregates annotations into a consensus caption and
// runs post-retraining evaluation against the original prediction.
type ConsensusService struct {
	store   labelstore.Store
	queue   messagequeue.Queue
	hub     broadcast.Broadcaster
	metrics *otel.Metrics
}

// NewConsensusService creates a new ConsensusService.
func NewConsensusService(store labelstore.Store, queue messagequeue.Queue, hub broadcast.Broadcaster, metrics *otel.Metrics) *ConsensusService {
	return &ConsensusService{store: store, queue: queue, hub: hub, metrics: metrics}
}

// Finalize computes the consensus caption for a task from its
// annotations and moves the task to finalized. Calling it again after
// more annotations arrive recomputes and overwrites the result.
func (s *ConsensusService) Finalize(ctx context.Context, taskID string) (*consensus.Result, error) {
	ctx, span := otel.StartConsensusSpan(ctx, taskID)
	defer span.End()

	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return nil, err
	}

	anns, err := s.store.ListAnnotations(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if len(anns) == 0 {
		return nil, fmt.Errorf("%w: no annotations available for consensus", domain.ErrValidation)
	}

	captions := make([]string, len(anns))
	for i, a := range anns {
		captions[i] = a.Caption
	}
	caption, agreement := consensus.Aggregate(captions)

	res := consensus.Result{
		TaskID:            taskID,
		ConsensusCaption:  caption,
		SemanticAgreement: agreement,
		LLMConfidence:     consensus.Confidence(caption),
		FinalizedAt:       time.Now().UTC(),
	}
	if err := s.store.SetConsensus(ctx, res); err != nil {
		return nil, err
	}

	finalized, err := s.store.AdvanceTaskStatus(ctx, taskID, task.StatusFinalized)
	if err != nil {
		return nil, err
	}

	publishJSON(ctx, s.queue, messagequeue.SubjectConsensusFinalized, res)
	broadcastTaskStatus(ctx, s.hub, finalized)
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, ws.EventConsensusFinalized, ws.ConsensusEvent{
			TaskID:            res.TaskID,
			ConsensusCaption:  res.ConsensusCaption,
			SemanticAgreement: res.SemanticAgreement,
		})
	}
	if s.metrics != nil {
		s.metrics.ConsensusFinalized.Add(ctx, 1)
		s.metrics.AgreementScore.Record(ctx, res.SemanticAgreement)
	}
	return &res, nil
}

// Evaluate simulates a retrained model re-captioning the task's video
// and scores the new caption against the original prediction.
func (s *ConsensusService) Evaluate(ctx context.Context, taskID string) (*consensus.EvaluatorReport, error) {
	t, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	original := ""
	if pred, err := s.store.GetPrediction(ctx, t.VideoID); err == nil && pred != nil {
		original = pred.Caption
	}

	base := ""
	if cons, err := s.store.GetConsensus(ctx, taskID); err == nil && cons != nil {
		base = cons.ConsensusCaption
	}
	retrained := consensus.MutateCaption(base)

	return &consensus.EvaluatorReport{
		TaskID:           taskID,
		OriginalCaption:  original,
		RetrainedCaption: retrained,
		Agreement:        semantic.Similarity(original, retrained),
		ReviewedAt:       time.Now().UTC(),
	}, nil
}
