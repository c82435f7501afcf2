// Package annotation defines the Annotation and Vote domain entities.
package annotation

import "time"

// Annotation is a single annotator-submitted caption for a task.
// Annotations are append-only per task.
type Annotation struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	AnnotatorID string    `json:"annotator_id"`
	Caption     string    `json:"caption"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateRequest holds the fields needed to submit an annotation.
type CreateRequest struct {
	AnnotatorID string `json:"annotator_id"`
	Caption     string `json:"caption"`
}

// Vote is an annotator's quality score for a task. Votes are recorded
// but not consumed by consensus or reliability yet.
type Vote struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	AnnotatorID string    `json:"annotator_id"`
	Score       float64   `json:"score"`
	Rationale   string    `json:"rationale,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// VoteRequest holds the fields needed to submit a vote.
type VoteRequest struct {
	AnnotatorID string  `json:"annotator_id"`
	Score       float64 `json:"score"`
	Rationale   string  `json:"rationale,omitempty"`
}
