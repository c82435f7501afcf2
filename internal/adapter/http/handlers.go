package http

import (
	"net/http"

	"github.com/Strob0t/LabelForge/internal/domain/annotation"
	"github.com/Strob0t/LabelForge/internal/domain/prediction"
	"github.com/Strob0t/LabelForge/internal/domain/retraining"
	"github.com/Strob0t/LabelForge/internal/domain/task"
	"github.com/Strob0t/LabelForge/internal/service"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Predictions *service.PredictionService
	Tasks       *service.TaskService
	Annotations *service.AnnotationService
	Consensus   *service.ConsensusService
	Reliability *service.ReliabilityService
	Retraining  *service.RetrainingService
}

// IngestPrediction handles POST /api/v1/predictions.
func (h *Handlers) IngestPrediction(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[prediction.IngestRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.VideoID, "video_id") {
		return
	}
	if !requireUnit(w, req.Uncertainty, "uncertainty") {
		return
	}

	p, err := h.Predictions.Ingest(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "prediction not found")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// CreateTask handles POST /api/v1/tasks.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[task.CreateRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.VideoID, "video_id") {
		return
	}
	if !requireUnit(w, req.Uncertainty, "uncertainty") {
		return
	}
	difficulty, err := task.ParsePriority(req.Difficulty)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}

	t, err := h.Tasks.Create(r.Context(), req.VideoID, req.Uncertainty, difficulty)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// ListTasks handles GET /api/v1/tasks.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Tasks.List(r.Context())
	if err != nil {
		writeDomainError(w, err, "tasks not found")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// GetTask handles GET /api/v1/tasks/{id}.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// AssignTask handles POST /api/v1/tasks/assign.
func (h *Handlers) AssignTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[task.AssignmentRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.AnnotatorID, "annotator_id") {
		return
	}

	t, err := h.Tasks.RequestAssignment(r.Context(), req.AnnotatorID)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "no tasks available")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// SubmitAnnotation handles POST /api/v1/tasks/{id}/annotations.
func (h *Handlers) SubmitAnnotation(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[annotation.CreateRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.AnnotatorID, "annotator_id") {
		return
	}
	if !requireField(w, req.Caption, "caption") {
		return
	}

	ann, err := h.Annotations.Submit(r.Context(), urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusCreated, ann)
}

// SubmitVote handles POST /api/v1/tasks/{id}/votes.
func (h *Handlers) SubmitVote(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[annotation.VoteRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.AnnotatorID, "annotator_id") {
		return
	}
	if !requireUnit(w, req.Score, "score") {
		return
	}

	v, err := h.Annotations.SubmitVote(r.Context(), urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// FinalizeConsensus handles POST /api/v1/tasks/{id}/consensus.
func (h *Handlers) FinalizeConsensus(w http.ResponseWriter, r *http.Request) {
	res, err := h.Consensus.Finalize(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// EvaluateTask handles GET /api/v1/tasks/{id}/evaluation.
func (h *Handlers) EvaluateTask(w http.ResponseWriter, r *http.Request) {
	report, err := h.Consensus.Evaluate(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// AnnotatorMetrics handles GET /api/v1/annotators/{id}/metrics.
func (h *Handlers) AnnotatorMetrics(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reliability.Report(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "annotator not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Dashboard handles GET /api/v1/dashboard.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Reliability.Dashboard(r.Context())
	if err != nil {
		writeDomainError(w, err, "dashboard unavailable")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// TriggerRetraining handles POST /api/v1/retraining/trigger.
func (h *Handlers) TriggerRetraining(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[retraining.TriggerRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.ModelVersion, "model_version") {
		return
	}

	event, err := h.Retraining.Trigger(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "retraining unavailable")
		return
	}
	writeJSON(w, http.StatusOK, event)
}
