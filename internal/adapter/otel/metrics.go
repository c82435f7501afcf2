package otel

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "labelforge"

// Metrics bundles the labeling pipeline instruments: ingestion and
// lifecycle counters plus the agreement-score distribution.
type Metrics struct {
	PredictionsIngested metric.Int64Counter
	TasksCreated        metric.Int64Counter
	TasksAssigned       metric.Int64Counter
	Annotations         metric.Int64Counter
	Votes               metric.Int64Counter
	ConsensusFinalized  metric.Int64Counter
	AgreementScore      metric.Float64Histogram
}

// NewMetrics registers every instrument on the global meter.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	var errs []error

	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			errs = append(errs, err)
		}
		return c
	}

	m := &Metrics{
		PredictionsIngested: counter("labelforge.predictions.ingested", "Number of model predictions ingested"),
		TasksCreated:        counter("labelforge.tasks.created", "Number of review tasks created"),
		TasksAssigned:       counter("labelforge.tasks.assigned", "Number of tasks claimed by annotators"),
		Annotations:         counter("labelforge.annotations", "Number of annotations submitted"),
		Votes:               counter("labelforge.votes", "Number of votes submitted"),
		ConsensusFinalized:  counter("labelforge.consensus.finalized", "Number of consensus finalizations"),
	}

	hist, err := meter.Float64Histogram("labelforge.consensus.agreement",
		metric.WithDescription("Semantic agreement scores of finalized consensus results"))
	if err != nil {
		errs = append(errs, err)
	}
	m.AgreementScore = hist

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}
