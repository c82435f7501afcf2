package service

import (
	"context"
	"sync"
	"time"

	"github.com/Strob0t/LabelForge/internal/domain/prediction"
	"github.com/Strob0t/LabelForge/internal/port/messagequeue"
)

type publishedMsg struct {
	subject string
	data    []byte
}

// mockQueue records published messages for assertions.
type mockQueue struct {
	mu        sync.Mutex
	published []publishedMsg
}

func (q *mockQueue) Publish(_ context.Context, subject string, data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, publishedMsg{subject: subject, data: data})
	return nil
}

func (q *mockQueue) Subscribe(context.Context, string, messagequeue.Handler) (func(), error) {
	return func() {}, nil
}

func (q *mockQueue) Drain() error      { return nil }
func (q *mockQueue) Close() error      { return nil }
func (q *mockQueue) IsConnected() bool { return true }

func (q *mockQueue) subjects() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.published))
	for i, m := range q.published {
		out[i] = m.subject
	}
	return out
}

type broadcastEvent struct {
	eventType string
	payload   any
}

// mockBroadcaster records broadcast events for assertions.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (b *mockBroadcaster) BroadcastEvent(_ context.Context, eventType string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{eventType: eventType, payload: payload})
}

func (b *mockBroadcaster) eventTypes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.eventType
	}
	return out
}

// mockCache is a TTL-less in-memory cache that counts operations.
type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    int
	gets    int
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (c *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	data, ok := c.data[key]
	return data, ok, nil
}

func (c *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = value
	return nil
}

func (c *mockCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	delete(c.data, key)
	return nil
}

// fixedSampler returns the same duration for every annotation.
func fixedSampler(seconds float64) DurationSampler {
	return func() float64 { return seconds }
}

func predictionRequest(videoID, caption string, uncertainty float64) prediction.IngestRequest {
	return prediction.IngestRequest{
		VideoID:      videoID,
		Caption:      caption,
		Uncertainty:  uncertainty,
		ModelVersion: "v1",
	}
}
