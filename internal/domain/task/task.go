// Package task defines the review Task domain entity.
package task

import (
	"fmt"
	"time"

	"github.com/Strob0t/LabelForge/internal/domain"
)

// Status represents the current state of a task. Tasks only move
// forward: pending → assigned → awaiting_review → finalized.
type Status string

const (
	StatusPending        Status = "pending"
	StatusAssigned       Status = "assigned"
	StatusAwaitingReview Status = "awaiting_review"
	StatusFinalized      Status = "finalized"
)

// rank orders statuses along the lifecycle. Higher never regresses to lower.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusAssigned:
		return 1
	case StatusAwaitingReview:
		return 2
	case StatusFinalized:
		return 3
	default:
		return -1
	}
}

// CanAdvanceTo reports whether a transition from s to next is allowed.
// Same-status transitions are allowed (idempotent re-application).
func (s Status) CanAdvanceTo(next Status) bool {
	return next.rank() >= s.rank() && next.rank() >= 0
}

// Priority is the review priority tier of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Weight returns the numeric difficulty weight of a priority tier,
// used both for priority calculation and for list ordering.
func (p Priority) Weight() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 5
	case PriorityHigh:
		return 10
	default:
		return 0
	}
}

// ParsePriority converts a request string into a Priority.
// An empty string defaults to medium.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	case "":
		return PriorityMedium, nil
	default:
		return "", fmt.Errorf("%w: difficulty must be low, medium or high", domain.ErrValidation)
	}
}

// Priority score cutoffs for the scaled uncertainty/difficulty score.
const (
	highCutoff   = 12
	mediumCutoff = 7
)

// CalculatePriority maps a model uncertainty score and a declared
// difficulty tier to the task's priority tier. Pure and deterministic;
// monotonic non-decreasing in uncertainty for a fixed difficulty.
func CalculatePriority(uncertainty float64, difficulty Priority) Priority {
	scaled := uncertainty*10 + float64(difficulty.Weight())
	switch {
	case scaled >= highCutoff:
		return PriorityHigh
	case scaled >= mediumCutoff:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Task represents a unit of review work tied to one video prediction.
// Priority is immutable once set at creation.
type Task struct {
	ID          string    `json:"id"`
	VideoID     string    `json:"video_id"`
	Priority    Priority  `json:"priority"`
	AssignedTo  string    `json:"assigned_to,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Uncertainty float64   `json:"uncertainty"`
}

// CreateRequest holds the fields needed to create a new task.
// Difficulty defaults to medium when omitted.
type CreateRequest struct {
	VideoID     string  `json:"video_id"`
	Uncertainty float64 `json:"uncertainty"`
	Difficulty  string  `json:"difficulty,omitempty"`
}

// AssignmentRequest identifies the annotator asking for work.
type AssignmentRequest struct {
	AnnotatorID string `json:"annotator_id"`
}
