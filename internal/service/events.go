package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Strob0t/LabelForge/internal/domain/task"
	"github.com/Strob0t/LabelForge/internal/port/broadcast"
	"github.com/Strob0t/LabelForge/internal/port/messagequeue"

	"github.com/Strob0t/LabelForge/internal/adapter/ws"
)

// publishJSON marshals payload and publishes it on the queue. Publish
// failures are logged, never surfaced: the operation that produced the
// event has already succeeded against the store.
func publishJSON(ctx context.Context, queue messagequeue.Queue, subject string, payload any) {
	if queue == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal event for queue", "subject", subject, "error", err)
		return
	}
	if err := queue.Publish(ctx, subject, data); err != nil {
		slog.Error("failed to publish event", "subject", subject, "error", err)
	}
}

// broadcastTaskStatus pushes a task lifecycle event to connected clients.
func broadcastTaskStatus(ctx context.Context, hub broadcast.Broadcaster, t *task.Task) {
	if hub == nil {
		return
	}
	hub.BroadcastEvent(ctx, ws.EventTaskStatus, ws.TaskStatusEvent{
		TaskID:     t.ID,
		VideoID:    t.VideoID,
		Status:     string(t.Status),
		Priority:   string(t.Priority),
		AssignedTo: t.AssignedTo,
	})
}
