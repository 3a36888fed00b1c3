package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for the last run.
const (
	OutcomeSuccess     = "success"
	OutcomeNothingToDo = "nothing_to_do"
	OutcomeFailure     = "failure"
)

// Recorder receives run measurements from the packager.
type Recorder interface {
	// RecordCandidates records how many firmware images were discovered.
	RecordCandidates(found int)
	// RecordCompression records one compressor invocation.
	RecordCompression(success bool)
	// RecordCollision records an artifact name produced by more than one image.
	RecordCollision()
	// RecordStage records how long a stage took.
	RecordStage(stage string, duration time.Duration)
	// RecordDeliverable records the size of the finished bundle.
	RecordDeliverable(sizeBytes int64)
	// RecordOutcome records how the run ended.
	RecordOutcome(outcome string, finishedAt time.Time)
}

// NopRecorder discards every measurement.
type NopRecorder struct{}

// RecordCandidates implements Recorder.
func (NopRecorder) RecordCandidates(int) {}

// RecordCompression implements Recorder.
func (NopRecorder) RecordCompression(bool) {}

// RecordCollision implements Recorder.
func (NopRecorder) RecordCollision() {}

// RecordStage implements Recorder.
func (NopRecorder) RecordStage(string, time.Duration) {}

// RecordDeliverable implements Recorder.
func (NopRecorder) RecordDeliverable(int64) {}

// RecordOutcome implements Recorder.
func (NopRecorder) RecordOutcome(string, time.Time) {}

// PrometheusRecorder keeps run measurements in a private registry
// so they can be written as a node-exporter textfile.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	candidates       prometheus.Gauge
	compressionTotal *prometheus.CounterVec
	collisionTotal   prometheus.Counter
	stageDuration    *prometheus.GaugeVec
	deliverableBytes prometheus.Gauge
	lastRunOutcome   *prometheus.GaugeVec
	lastRunTimestamp prometheus.Gauge
}

// NewPrometheusRecorder creates a PrometheusRecorder and registers its metrics.
func NewPrometheusRecorder() *PrometheusRecorder {
	recorder := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		candidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "firmware_maker_candidates",
			Help: "Number of firmware images discovered by the last run",
		}),
		compressionTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firmware_maker_compression_total",
				Help: "Compressor invocations by result",
			},
			[]string{"success"},
		),
		collisionTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "firmware_maker_artifact_collision_total",
			Help: "Compressed artifact names produced by more than one image",
		}),
		stageDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "firmware_maker_stage_duration_seconds",
				Help: "Duration of each stage of the last run in seconds",
			},
			[]string{"stage"},
		),
		deliverableBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "firmware_maker_deliverable_bytes",
			Help: "Size of the last produced bundle in bytes",
		}),
		lastRunOutcome: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "firmware_maker_last_run_outcome",
				Help: "Set to 1 for the outcome of the last run",
			},
			[]string{"outcome"},
		),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "firmware_maker_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}

	recorder.registry.MustRegister(
		recorder.candidates,
		recorder.compressionTotal,
		recorder.collisionTotal,
		recorder.stageDuration,
		recorder.deliverableBytes,
		recorder.lastRunOutcome,
		recorder.lastRunTimestamp,
	)

	return recorder
}

// Registry exposes the underlying registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordCandidates implements Recorder.
func (r *PrometheusRecorder) RecordCandidates(found int) {
	r.candidates.Set(float64(found))
}

// RecordCompression implements Recorder.
func (r *PrometheusRecorder) RecordCompression(success bool) {
	label := "false"
	if success {
		label = "true"
	}

	r.compressionTotal.WithLabelValues(label).Inc()
}

// RecordCollision implements Recorder.
func (r *PrometheusRecorder) RecordCollision() {
	r.collisionTotal.Inc()
}

// RecordStage implements Recorder.
func (r *PrometheusRecorder) RecordStage(stage string, duration time.Duration) {
	r.stageDuration.WithLabelValues(stage).Set(duration.Seconds())
}

// RecordDeliverable implements Recorder.
func (r *PrometheusRecorder) RecordDeliverable(sizeBytes int64) {
	r.deliverableBytes.Set(float64(sizeBytes))
}

// RecordOutcome implements Recorder.
func (r *PrometheusRecorder) RecordOutcome(outcome string, finishedAt time.Time) {
	for _, o := range []string{OutcomeSuccess, OutcomeNothingToDo, OutcomeFailure} {
		value := 0.0
		if o == outcome {
			value = 1
		}

		r.lastRunOutcome.WithLabelValues(o).Set(value)
	}

	r.lastRunTimestamp.Set(float64(finishedAt.Unix()))
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
// The file is replaced atomically.
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
