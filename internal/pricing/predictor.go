// Package pricing owns the loaded pipeline+model handle. The handle is
// created once at startup, is immutable for the process lifetime, and
// is passed explicitly into whatever needs predictions.
package pricing

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"getaround-pricing/internal/features"
	"getaround-pricing/internal/pipeline"
)

// ErrModelUnavailable is returned by Predict when the artifact failed
// to load at startup. Callers should fail fast rather than attempt a
// degraded prediction.
var ErrModelUnavailable = errors.New("model artifact not loaded")

// MetricsInterface defines the metrics hooks the predictor needs.
type MetricsInterface interface {
	PredictionsInc()
	PredictionFailuresInc()
	PredictionLatencyObserve(float64)
	BatchSizeObserve(float64)
	ModelLoadedSet(float64)
	ModelAgeSet(float64)
}

// Predictor wraps the fitted pipeline together with its load outcome.
// A failed load does not kill the process; it leaves an unavailable
// predictor whose state is surfaced through Health.
type Predictor struct {
	pipe      *pipeline.Pipeline
	modelPath string
	loadErr   error
	metrics   MetricsInterface
}

// HealthStatus is the liveness view of the loaded artifact.
type HealthStatus struct {
	Status       string `json:"status"` // "ok" or "error"
	ModelPath    string `json:"model_path"`
	ModelVersion string `json:"model_version,omitempty"`
	ModelError   string `json:"model_error,omitempty"`
}

// New loads the artifact at path. Load failure is recorded, not
// returned: the service must still start and report the failure on its
// health endpoint.
func New(path string, metrics MetricsInterface) *Predictor {
	p := &Predictor{
		modelPath: path,
		metrics:   metrics,
	}

	pipe, err := pipeline.Load(path)
	if err != nil {
		p.loadErr = err
		log.Error().Err(err).Str("model_path", path).Msg("model artifact load failed, serving unhealthy")
		if metrics != nil {
			metrics.ModelLoadedSet(0)
		}
		return p
	}

	p.pipe = pipe
	if info, err := os.Stat(path); err == nil && metrics != nil {
		metrics.ModelAgeSet(time.Since(info.ModTime()).Seconds())
	}
	if metrics != nil {
		metrics.ModelLoadedSet(1)
	}
	log.Info().
		Str("model_path", path).
		Str("model_version", pipe.Version()).
		Int("columns", len(pipe.Columns())).
		Msg("model artifact loaded")
	return p
}

// Available reports whether the artifact loaded successfully.
func (p *Predictor) Available() bool {
	return p != nil && p.pipe != nil
}

// Version returns the loaded model version, or "" when unavailable.
func (p *Predictor) Version() string {
	if !p.Available() {
		return ""
	}
	return p.pipe.Version()
}

// Health returns the current artifact state for the health endpoint.
func (p *Predictor) Health() HealthStatus {
	if !p.Available() {
		h := HealthStatus{Status: "error", ModelPath: p.modelPath}
		if p.loadErr != nil {
			h.ModelError = p.loadErr.Error()
		}
		return h
	}
	return HealthStatus{
		Status:       "ok",
		ModelPath:    p.modelPath,
		ModelVersion: p.pipe.Version(),
	}
}

// Predict runs the pipeline over already-validated records and returns
// one daily price per record, in request order.
func (p *Predictor) Predict(ctx context.Context, records []features.VehicleFeatures) ([]float64, error) {
	if !p.Available() {
		if p.metrics != nil {
			p.metrics.PredictionFailuresInc()
		}
		return nil, ErrModelUnavailable
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	preds, err := p.pipe.Predict(records)
	if p.metrics != nil {
		p.metrics.PredictionLatencyObserve(time.Since(start).Seconds())
		if err != nil {
			p.metrics.PredictionFailuresInc()
		} else {
			p.metrics.PredictionsInc()
			p.metrics.BatchSizeObserve(float64(len(records)))
		}
	}
	return preds, err
}
