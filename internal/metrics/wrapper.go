package metrics

import "strconv"

// Wrapper adapts Metrics to the narrow interfaces consumed by other
// packages, avoiding a direct Prometheus dependency there.
type Wrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *Wrapper {
	return &Wrapper{m: m}
}

// pricing.MetricsInterface

func (w *Wrapper) PredictionsInc()                    { w.m.PredictionsTotal.Inc() }
func (w *Wrapper) PredictionFailuresInc()             { w.m.PredictionFailures.Inc() }
func (w *Wrapper) PredictionLatencyObserve(s float64) { w.m.PredictionLatency.Observe(s) }
func (w *Wrapper) BatchSizeObserve(n float64)         { w.m.BatchSize.Observe(n) }
func (w *Wrapper) ModelLoadedSet(v float64)           { w.m.ModelLoaded.Set(v) }
func (w *Wrapper) ModelAgeSet(s float64)              { w.m.ModelAge.Set(s) }

// api.MetricsInterface

func (w *Wrapper) ValidationErrorsInc() { w.m.ValidationErrors.Inc() }

func (w *Wrapper) RequestObserve(handler string, status int) {
	class := strconv.Itoa(status/100) + "xx"
	w.m.RequestsTotal.WithLabelValues(handler, class).Inc()
}
