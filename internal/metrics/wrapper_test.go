package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWrapper_PredictionCounters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	w := NewWrapper(m)

	w.PredictionsInc()
	w.PredictionsInc()
	w.PredictionFailuresInc()
	w.ValidationErrorsInc()

	if got := testutil.ToFloat64(m.PredictionsTotal); got != 2 {
		t.Errorf("expected 2 predictions, got %v", got)
	}
	if got := testutil.ToFloat64(m.PredictionFailures); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.ValidationErrors); got != 1 {
		t.Errorf("expected 1 validation error, got %v", got)
	}
}

func TestWrapper_ModelGauges(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	w := NewWrapper(m)

	w.ModelLoadedSet(1)
	w.ModelAgeSet(3600)

	if got := testutil.ToFloat64(m.ModelLoaded); got != 1 {
		t.Errorf("expected model_loaded 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.ModelAge); got != 3600 {
		t.Errorf("expected model_age 3600, got %v", got)
	}
}

func TestWrapper_RequestObserve(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	w := NewWrapper(m)

	w.RequestObserve("predict", 200)
	w.RequestObserve("predict", 200)
	w.RequestObserve("predict", 400)
	w.RequestObserve("health", 503)

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("predict", "2xx")); got != 2 {
		t.Errorf("expected 2 predict 2xx, got %v", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("predict", "4xx")); got != 1 {
		t.Errorf("expected 1 predict 4xx, got %v", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("health", "5xx")); got != 1 {
		t.Errorf("expected 1 health 5xx, got %v", got)
	}
}

func TestNewWithRegistry_IsolatedRegistration(t *testing.T) {
	// Two instances on separate registries must not collide.
	NewWithRegistry(prometheus.NewRegistry())
	NewWithRegistry(prometheus.NewRegistry())
}
