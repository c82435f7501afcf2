// Package retraining defines the retraining trigger event payloads.
package retraining

import (
	"time"

	"github.com/Strob0t/LabelForge/internal/domain/task"
)

// EventName is the event identifier echoed in trigger payloads.
const EventName = "retraining.triggered"

// TriggerRequest asks for a retraining round over a batch of labeled tasks.
type TriggerRequest struct {
	ModelVersion   string   `json:"model_version"`
	MiniBatchID    string   `json:"mini_batch_id"`
	LabeledTaskIDs []string `json:"labeled_task_ids"`
}

// Payload carries the batch details; unknown task IDs from the request
// are silently dropped from LabeledTasks.
type Payload struct {
	ModelVersion string      `json:"model_version"`
	MiniBatchID  string      `json:"mini_batch_id"`
	LabeledTasks []task.Task `json:"labeled_tasks"`
}

// Event is the descriptive payload returned to the caller and published
// on the queue. Retraining itself is simulated; nothing consumes this
// beyond logging and display.
type Event struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Payload   Payload   `json:"payload"`
}
