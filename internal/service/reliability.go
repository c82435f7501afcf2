package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Strob0t/LabelForge/internal/domain/annotator"
	"github.com/Strob0t/LabelForge/internal/port/cache"
	"github.com/Strob0t/LabelForge/internal/port/labelstore"
)

// dashboardCacheKey is the cache key for the reliability dashboard
// snapshot. Invalidated whenever an annotation lands.
const dashboardCacheKey = "dashboard:snapshot"

// ReliabilityService exposes annotator reliability reports and the
// cached reliability dashboard.
type ReliabilityService struct {
	store labelstore.Store
	cache cache.Cache
	ttl   time.Duration
}

// NewReliabilityService creates a new ReliabilityService.
func NewReliabilityService(store labelstore.Store, c cache.Cache, ttl time.Duration) *ReliabilityService {
	return &ReliabilityService{store: store, cache: c, ttl: ttl}
}

// Report returns the reliability report for one annotator. Unseen
// annotators get a default report rather than an error.
func (s *ReliabilityService) Report(ctx context.Context, annotatorID string) (*annotator.Report, error) {
	m, err := s.store.GetMetrics(ctx, annotatorID)
	if err != nil {
		return nil, err
	}
	r := m.Report()
	return &r, nil
}

// Dashboard returns reliability reports for every annotator with at
// least one recorded annotation, keyed by annotator ID. The snapshot
// is cached for the configured TTL.
func (s *ReliabilityService) Dashboard(ctx context.Context) (map[string]annotator.Report, error) {
	if s.cache != nil {
		data, ok, err := s.cache.Get(ctx, dashboardCacheKey)
		if err == nil && ok {
			var cached map[string]annotator.Report
			if err := json.Unmarshal(data, &cached); err != nil {
				slog.Warn("discarding malformed dashboard cache entry", "error", err)
			} else {
				return cached, nil
			}
		}
	}

	metrics, err := s.store.ListMetrics(ctx)
	if err != nil {
		return nil, err
	}
	dashboard := make(map[string]annotator.Report, len(metrics))
	for i := range metrics {
		dashboard[metrics[i].AnnotatorID] = metrics[i].Report()
	}

	if s.cache != nil {
		if data, err := json.Marshal(dashboard); err == nil {
			_ = s.cache.Set(ctx, dashboardCacheKey, data, s.ttl)
		}
	}
	return dashboard, nil
}
