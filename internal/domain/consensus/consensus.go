// Package consensus defines the consensus result entity and the
// caption aggregation logic.
package consensus

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Strob0t/LabelForge/internal/semantic"
)

// Result is the finalized consensus for a task. Re-finalizing a task
// overwrites the prior result.
type Result struct {
	TaskID            string    `json:"task_id"`
	ConsensusCaption  string    `json:"consensus_caption"`
	SemanticAgreement float64   `json:"semantic_agreement"`
	LLMConfidence     float64   `json:"llm_confidence"`
	FinalizedAt       time.Time `json:"finalized_at"`
}

// EvaluatorReport compares a simulated retrained caption against the
// original model prediction for a task.
type EvaluatorReport struct {
	TaskID           string    `json:"task_id"`
	OriginalCaption  string    `json:"original_caption"`
	RetrainedCaption string    `json:"retrained_caption"`
	Agreement        float64   `json:"agreement"`
	ReviewedAt       time.Time `json:"reviewed_at"`
}

// Aggregate reduces the submitted captions to a single consensus
// caption and an agreement score. The first caption acts as the
// centroid; every caption is scored against it, the mean similarity
// becomes the agreement, and the caption most similar to the centroid
// wins (first encountered on ties). Returns zero values for empty input.
func Aggregate(captions []string) (caption string, agreement float64) {
	if len(captions) == 0 {
		return "", 0
	}

	centroid := captions[0]
	best := captions[0]
	bestSim := -1.0
	sum := 0.0
	for _, c := range captions {
		sim := semantic.Similarity(centroid, c)
		sum += sim
		if sim > bestSim {
			best = c
			bestSim = sim
		}
	}

	return best, round3(sum / float64(len(captions)))
}

// Confidence is a deterministic stand-in for an LLM caption evaluator:
// longer captions score higher, saturating at 1.0.
func Confidence(caption string) float64 {
	length := float64(utf8.RuneCountInString(caption))
	return round3(0.6 + math.Min(0.4, length/200))
}

// MutateCaption produces a simulated retrained-model caption from a
// consensus caption: "Updated" is prepended when the caption has more
// than five words, otherwise "refined" is appended. Empty captions are
// returned unchanged.
func MutateCaption(caption string) string {
	words := strings.Fields(caption)
	if len(words) == 0 {
		return caption
	}
	if len(words) > 5 {
		words = append([]string{"Updated"}, words...)
	} else {
		words = append(words, "refined")
	}
	return strings.Join(words, " ")
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
