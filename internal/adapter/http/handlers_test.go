package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/LabelForge/internal/adapter/memstore"
	"github.com/Strob0t/LabelForge/internal/domain/annotator"
	"github.com/Strob0t/LabelForge/internal/domain/consensus"
	"github.com/Strob0t/LabelForge/internal/domain/retraining"
	"github.com/Strob0t/LabelForge/internal/domain/task"
	"github.com/Strob0t/LabelForge/internal/service"
)

// nopBroadcaster satisfies the broadcast port without a websocket hub.
type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastEvent(context.Context, string, any) {}

func newTestServer(t *testing.T) (*httptest.Server, *memstore.Store) {
	t.Helper()

	store := memstore.New()
	hub := nopBroadcaster{}
	sampler := service.DurationSampler(func() float64 { return 60 })

	handlers := &Handlers{
		Predictions: service.NewPredictionService(store, nil),
		Tasks:       service.NewTaskService(store, nil, hub, nil, 0.6),
		Annotations: service.NewAnnotationService(store, nil, hub, nil, nil, sampler, 3, 0.7),
		Consensus:   service.NewConsensusService(store, nil, hub, nil),
		Reliability: service.NewReliabilityService(store, nil, time.Second),
		Retraining:  service.NewRetrainingService(store, nil),
	}

	r := chi.NewRouter()
	MountRoutes(r, handlers)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestIngestPrediction(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/predictions", map[string]any{
		"video_id":      "vid-1",
		"caption":       "a cat sat",
		"uncertainty":   0.4,
		"model_version": "v1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	p := decode[map[string]any](t, resp)
	if p["video_id"] != "vid-1" || p["caption"] != "a cat sat" {
		t.Fatalf("unexpected prediction: %v", p)
	}
}

func TestIngestPrediction_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/predictions", map[string]any{"caption": "no video"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing video_id, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/v1/predictions", map[string]any{"video_id": "v", "uncertainty": 1.5})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range uncertainty, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCreateTask(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/tasks", map[string]any{
		"video_id":    "vid-1",
		"uncertainty": 0.9,
		"difficulty":  "medium",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decode[task.Task](t, resp)
	if created.Priority != task.PriorityHigh {
		t.Fatalf("expected high priority, got %v", created.Priority)
	}
	if created.Status != task.StatusPending {
		t.Fatalf("expected pending, got %v", created.Status)
	}
}

func TestCreateTask_DifficultyDefaultsToMedium(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/tasks", map[string]any{
		"video_id":    "vid-1",
		"uncertainty": 0.1,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decode[task.Task](t, resp)
	// 0.1*10 + 5 = 6, below the medium cutoff
	if created.Priority != task.PriorityLow {
		t.Fatalf("expected low priority, got %v", created.Priority)
	}
}

func TestCreateTask_InvalidDifficulty(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/tasks", map[string]any{
		"video_id":    "vid-1",
		"uncertainty": 0.5,
		"difficulty":  "urgent",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid difficulty, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestListTasks_Ordering(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, req := range []map[string]any{
		{"video_id": "vid-low", "uncertainty": 0.1, "difficulty": "low"},
		{"video_id": "vid-high", "uncertainty": 0.9, "difficulty": "high"},
		{"video_id": "vid-med", "uncertainty": 0.5, "difficulty": "medium"},
	} {
		resp := postJSON(t, srv.URL+"/api/v1/tasks", req)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create failed with %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/api/v1/tasks")
	if err != nil {
		t.Fatalf("get tasks: %v", err)
	}
	tasks := decode[[]task.Task](t, resp)
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	wantVideos := []string{"vid-high", "vid-med", "vid-low"}
	for i, want := range wantVideos {
		if tasks[i].VideoID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, tasks[i].VideoID)
		}
	}
}

func TestAssignTask(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/tasks", map[string]any{"video_id": "vid-1", "uncertainty": 0.5})
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/v1/tasks/assign", map[string]any{"annotator_id": "ann-1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	assigned := decode[task.Task](t, resp)
	if assigned.AssignedTo != "ann-1" || assigned.Status != task.StatusAssigned {
		t.Fatalf("unexpected assignment: %+v", assigned)
	}
}

func TestAssignTask_NoWork(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/tasks/assign", map[string]any{"annotator_id": "ann-1"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 when no tasks available, got %d", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["error"] != "no tasks available" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestSubmitAnnotation_FullLifecycle(t *testing.T) {
	srv, store := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/tasks", map[string]any{"video_id": "vid-1", "uncertainty": 0.5})
	created := decode[task.Task](t, resp)

	for _, a := range []string{"alice", "bob", "carol"} {
		resp := postJSON(t, srv.URL+"/api/v1/tasks/"+created.ID+"/annotations", map[string]any{
			"annotator_id": a,
			"caption":      "a cat sat",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	got, err := store.GetTask(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != task.StatusAwaitingReview {
		t.Fatalf("expected awaiting_review after 3 annotations, got %v", got.Status)
	}
}

func TestSubmitAnnotation_UnknownTask(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/tasks/missing/annotations", map[string]any{
		"annotator_id": "ann-1",
		"caption":      "x",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSubmitVote(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/tasks", map[string]any{"video_id": "vid-1", "uncertainty": 0.5})
	created := decode[task.Task](t, resp)

	resp = postJSON(t, srv.URL+"/api/v1/tasks/"+created.ID+"/votes", map[string]any{
		"annotator_id": "ann-1",
		"score":        0.8,
		"rationale":    "looks right",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/v1/tasks/"+created.ID+"/votes", map[string]any{
		"annotator_id": "ann-1",
		"score":        1.5,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range score, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestFinalizeConsensus(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/tasks", map[string]any{"video_id": "vid-1", "uncertainty": 0.5})
	created := decode[task.Task](t, resp)

	// no annotations yet
	resp = postJSON(t, srv.URL+"/api/v1/tasks/"+created.ID+"/consensus", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without annotations, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	for _, caption := range []string{"a cat sat", "a cat sat on mat", "a dog ran"} {
		resp := postJSON(t, srv.URL+"/api/v1/tasks/"+created.ID+"/annotations", map[string]any{
			"annotator_id": "ann",
			"caption":      caption,
		})
		resp.Body.Close()
	}

	resp = postJSON(t, srv.URL+"/api/v1/tasks/"+created.ID+"/consensus", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	res := decode[consensus.Result](t, resp)
	if res.ConsensusCaption != "a cat sat" {
		t.Fatalf("unexpected consensus caption %q", res.ConsensusCaption)
	}
	if res.SemanticAgreement != 0.347 {
		t.Fatalf("expected agreement 0.347, got %v", res.SemanticAgreement)
	}
}

func TestEvaluateTask(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/predictions", map[string]any{
		"video_id": "vid-1", "caption": "a cat sat", "uncertainty": 0.4, "model_version": "v1",
	})
	resp.Body.Close()
	resp = postJSON(t, srv.URL+"/api/v1/tasks", map[string]any{"video_id": "vid-1", "uncertainty": 0.5})
	created := decode[task.Task](t, resp)
	resp = postJSON(t, srv.URL+"/api/v1/tasks/"+created.ID+"/annotations", map[string]any{
		"annotator_id": "ann", "caption": "a cat sat",
	})
	resp.Body.Close()
	resp = postJSON(t, srv.URL+"/api/v1/tasks/"+created.ID+"/consensus", nil)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/v1/tasks/" + created.ID + "/evaluation")
	if err != nil {
		t.Fatalf("get evaluation: %v", err)
	}
	report := decode[consensus.EvaluatorReport](t, resp)
	if report.RetrainedCaption != "a cat sat refined" {
		t.Fatalf("unexpected retrained caption %q", report.RetrainedCaption)
	}
	if report.OriginalCaption != "a cat sat" {
		t.Fatalf("unexpected original caption %q", report.OriginalCaption)
	}
}

func TestAnnotatorMetrics(t *testing.T) {
	srv, store := newTestServer(t)

	if _, err := store.RecordCompletion(context.Background(), "ann-1", 90, 0); err != nil {
		t.Fatalf("record: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/v1/annotators/ann-1/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	report := decode[annotator.Report](t, resp)
	if report.Throughput != 1 || report.Reliability != 0.99 {
		t.Fatalf("unexpected report: %+v", report)
	}

	// unseen annotators still get a default report
	resp, err = http.Get(srv.URL + "/api/v1/annotators/ghost/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	report = decode[annotator.Report](t, resp)
	if report.Reliability != 0.5 {
		t.Fatalf("expected default reliability, got %+v", report)
	}
}

func TestDashboard(t *testing.T) {
	srv, store := newTestServer(t)

	if _, err := store.RecordCompletion(context.Background(), "ann-1", 60, 0); err != nil {
		t.Fatalf("record: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/v1/dashboard")
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	dash := decode[map[string]annotator.Report](t, resp)
	if len(dash) != 1 {
		t.Fatalf("expected one entry, got %d", len(dash))
	}
	if _, ok := dash["ann-1"]; !ok {
		t.Fatalf("expected ann-1, got %v", dash)
	}
}

func TestTriggerRetraining(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/tasks", map[string]any{"video_id": "vid-1", "uncertainty": 0.5})
	created := decode[task.Task](t, resp)

	resp = postJSON(t, srv.URL+"/api/v1/retraining/trigger", map[string]any{
		"model_version":    "v2",
		"mini_batch_id":    "batch-1",
		"labeled_task_ids": []string{created.ID, "unknown"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	event := decode[retraining.Event](t, resp)
	if event.Event != retraining.EventName {
		t.Fatalf("unexpected event %q", event.Event)
	}
	if len(event.Payload.LabeledTasks) != 1 {
		t.Fatalf("expected unknown IDs dropped, got %d tasks", len(event.Payload.LabeledTasks))
	}

	// model_version is required
	resp = postJSON(t, srv.URL+"/api/v1/retraining/trigger", map[string]any{"mini_batch_id": "b"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGetTask(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/tasks", map[string]any{"video_id": "vid-1", "uncertainty": 0.5})
	created := decode[task.Task](t, resp)

	resp, err := http.Get(srv.URL + "/api/v1/tasks/" + created.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	got := decode[task.Task](t, resp)
	if got.ID != created.ID {
		t.Fatalf("expected task %s, got %s", created.ID, got.ID)
	}

	resp, err = http.Get(srv.URL + "/api/v1/tasks/missing")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestInvalidJSONBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/tasks", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
