// Package annotator defines per-annotator reliability metrics.
package annotator

import "math"

// DefaultReliability is the trust score for an annotator with no
// completed tasks.
const DefaultReliability = 0.5

// Reliability bounds. Derived scores are clamped into this range.
const (
	MinReliability = 0.1
	MaxReliability = 0.99
)

// Metrics holds the raw per-annotator counters accumulated on every
// annotation submission, plus the derived reliability score.
type Metrics struct {
	AnnotatorID   string  `json:"annotator_id"`
	Completed     int     `json:"completed"`
	TotalSeconds  float64 `json:"total_seconds"`
	Disagreements int     `json:"disagreements"`
	Reliability   float64 `json:"reliability"`
}

// Recompute derives the reliability score from the raw counters:
// 40% agreement ratio, 60% speed factor, clamped to [0.1, 0.99].
// With zero completed tasks the score stays at the default.
func (m *Metrics) Recompute() {
	if m.Completed == 0 {
		m.Reliability = DefaultReliability
		return
	}
	agreement := 1 - float64(m.Disagreements)/float64(m.Completed)
	avg := m.TotalSeconds / float64(m.Completed)
	speed := math.Min(1, 90/math.Max(avg, 1))
	score := 0.4*agreement + 0.6*speed
	m.Reliability = round3(math.Max(MinReliability, math.Min(MaxReliability, score)))
}

// Report is the externally reported view of an annotator's metrics.
type Report struct {
	AnnotatorID        string  `json:"annotator_id"`
	Reliability        float64 `json:"reliability"`
	Throughput         int     `json:"throughput"`
	AverageTaskSeconds float64 `json:"average_task_seconds"`
	DisagreementRate   float64 `json:"disagreement_rate"`
}

// Report derives the reported view from the raw counters. Divisions
// are guarded so unseen annotators (zero completed) never divide by zero.
func (m *Metrics) Report() Report {
	completed := math.Max(float64(m.Completed), 1)
	return Report{
		AnnotatorID:        m.AnnotatorID,
		Reliability:        round3(m.Reliability),
		Throughput:         m.Completed,
		AverageTaskSeconds: round2(m.TotalSeconds / completed),
		DisagreementRate:   round3(float64(m.Disagreements) / completed),
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
