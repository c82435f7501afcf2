package http

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Route("/api/v1", func(r chi.Router) {
		// Predictions
		r.Post("/predictions", h.IngestPrediction)

		// Tasks
		r.Post("/tasks", h.CreateTask)
		r.Get("/tasks", h.ListTasks)
		r.Post("/tasks/assign", h.AssignTask)
		r.Get("/tasks/{id}", h.GetTask)

		// Annotations and votes
		r.Post("/tasks/{id}/annotations", h.SubmitAnnotation)
		r.Post("/tasks/{id}/votes", h.SubmitVote)

		// Consensus and evaluation
		r.Post("/tasks/{id}/consensus", h.FinalizeConsensus)
		r.Get("/tasks/{id}/evaluation", h.EvaluateTask)

		// Reliability
		r.Get("/annotators/{id}/metrics", h.AnnotatorMetrics)
		r.Get("/dashboard", h.Dashboard)

		// Retraining
		r.Post("/retraining/trigger", h.TriggerRetraining)
	})
}
