// Package prediction defines the model Prediction domain entity.
package prediction

import "time"

// Prediction is a model-produced caption for a video clip, keyed by
// video ID. Re-ingesting the same video overwrites the stored record.
type Prediction struct {
	VideoID      string    `json:"video_id"`
	Caption      string    `json:"caption"`
	Uncertainty  float64   `json:"uncertainty"`
	ModelVersion string    `json:"model_version"`
	IngestedAt   time.Time `json:"ingested_at"`
}

// IngestRequest holds the fields needed to ingest a prediction.
type IngestRequest struct {
	VideoID      string  `json:"video_id"`
	Caption      string  `json:"caption"`
	Uncertainty  float64 `json:"uncertainty"`
	ModelVersion string  `json:"model_version"`
}
