package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event type constants for WebSocket messages.
const (
	EventTaskStatus         = "task.status"
	EventConsensusFinalized = "consensus.finalized"
	EventDashboardUpdate    = "dashboard.update"
)

// TaskStatusEvent is broadcast when a task is created, assigned or
// promoted along its lifecycle.
type TaskStatusEvent struct {
	TaskID     string `json:"task_id"`
	VideoID    string `json:"video_id"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	AssignedTo string `json:"assigned_to,omitempty"`
}

// ConsensusEvent is broadcast when a task's consensus is finalized.
type ConsensusEvent struct {
	TaskID            string  `json:"task_id"`
	ConsensusCaption  string  `json:"consensus_caption"`
	SemanticAgreement float64 `json:"semantic_agreement"`
}

// DashboardEvent is broadcast when an annotator's reliability changes.
type DashboardEvent struct {
	AnnotatorID string  `json:"annotator_id"`
	Reliability float64 `json:"reliability"`
	Throughput  int     `json:"throughput"`
}

// BroadcastEvent marshals a typed event payload into the message
// envelope and fans it out.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}
	h.Broadcast(ctx, Message{Type: eventType, Payload: data})
}
