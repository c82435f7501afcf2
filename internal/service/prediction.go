package service

import (
	"context"

	"github.com/Strob0t/LabelForge/internal/adapter/otel"
	"github.com/Strob0t/LabelForge/internal/domain/prediction"
	"github.com/Strob0t/LabelForge/internal/port/labelstore"
)

// PredictionService handles model prediction ingestion.
type PredictionService struct {
	store   labelstore.Store
	metrics *otel.Metrics
}

// NewPredictionService creates a new PredictionService.
func NewPredictionService(store labelstore.Store, metrics *otel.Metrics) *PredictionService {
	return &PredictionService{store: store, metrics: metrics}
}

// Ingest stores a prediction, overwriting any prior record for the
// same video ID.
func (s *PredictionService) Ingest(ctx context.Context, req prediction.IngestRequest) (*prediction.Prediction, error) {
	p, err := s.store.UpsertPrediction(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.PredictionsIngested.Add(ctx, 1)
	}
	return p, nil
}
