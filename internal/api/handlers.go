package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"getaround-pricing/internal/features"
	"getaround-pricing/internal/pricing"
	"getaround-pricing/internal/storage"
)

// maxBodyBytes caps the request body; the largest legitimate batch is
// far below this.
const maxBodyBytes = 1 << 20

type rootResponse struct {
	Message     string `json:"message"`
	Usage       string `json:"usage"`
	ModelStatus string `json:"model_status"`
}

type predictRequest struct {
	Input []json.RawMessage `json:"input"`
}

type predictResponse struct {
	Prediction []float64 `json:"prediction"`
}

type errorResponse struct {
	ErrorType string                `json:"error_type"`
	Message   string                `json:"message"`
	Fields    []features.FieldError `json:"fields,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	status := "loaded"
	if !s.predictor.Available() {
		status = "error"
	}
	s.writeJSON(w, "root", http.StatusOK, rootResponse{
		Message:     "Welcome to the GetAround pricing API.",
		Usage:       "POST /predict with {\"input\": [vehicle features, ...]} to get daily price predictions.",
		ModelStatus: status,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.predictor.Health()

	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, "health", status, health)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.validationFailure(w, "predict", errorResponse{
			ErrorType: "validation_error",
			Message:   "request body must be a JSON object with an \"input\" array",
		})
		return
	}

	if len(req.Input) == 0 {
		s.validationFailure(w, "predict", errorResponse{
			ErrorType: "validation_error",
			Message:   "\"input\" must contain at least one record",
		})
		return
	}

	records := make([]features.VehicleFeatures, len(req.Input))
	var fieldErrs []features.FieldError
	for i, raw := range req.Input {
		rec, errs := features.DecodeRecord(i, raw)
		if len(errs) > 0 {
			fieldErrs = append(fieldErrs, errs...)
			continue
		}
		records[i] = rec
	}
	if len(fieldErrs) > 0 {
		s.validationFailure(w, "predict", errorResponse{
			ErrorType: "validation_error",
			Message:   "one or more input records failed validation",
			Fields:    fieldErrs,
		})
		return
	}

	preds, err := s.predictor.Predict(r.Context(), records)
	if err != nil {
		if errors.Is(err, pricing.ErrModelUnavailable) {
			s.writeJSON(w, "predict", http.StatusServiceUnavailable, errorResponse{
				ErrorType: "model_unavailable",
				Message:   "model artifact is not loaded, see /health",
			})
			return
		}
		log.Error().Err(err).Int("records", len(records)).Msg("prediction failed")
		s.writeJSON(w, "predict", http.StatusInternalServerError, errorResponse{
			ErrorType: "internal_error",
			Message:   "prediction failed",
		})
		return
	}

	s.recordHistory(records, preds)
	s.writeJSON(w, "predict", http.StatusOK, predictResponse{Prediction: preds})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeJSON(w, "history", http.StatusNotFound, errorResponse{
			ErrorType: "history_disabled",
			Message:   "prediction history persistence is not configured",
		})
		return
	}

	limit := s.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > s.historyLimit {
			s.validationFailure(w, "history", errorResponse{
				ErrorType: "validation_error",
				Message:   "limit must be an integer between 1 and " + strconv.Itoa(s.historyLimit),
			})
			return
		}
		limit = n
	}

	entries, err := s.store.Recent(limit)
	if err != nil {
		log.Error().Err(err).Msg("history read failed")
		s.writeJSON(w, "history", http.StatusInternalServerError, errorResponse{
			ErrorType: "internal_error",
			Message:   "history read failed",
		})
		return
	}
	if entries == nil {
		entries = []storage.Entry{}
	}
	s.writeJSON(w, "history", http.StatusOK, entries)
}

// recordHistory persists the served batch, best effort. A storage
// failure is logged but never fails the request.
func (s *Server) recordHistory(records []features.VehicleFeatures, preds []float64) {
	if s.store == nil {
		return
	}
	err := s.store.Append(storage.Entry{
		Ts:           time.Now().UTC(),
		ModelVersion: s.predictor.Version(),
		Input:        records,
		Prediction:   preds,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to persist prediction history")
	}
}

func (s *Server) validationFailure(w http.ResponseWriter, handler string, resp errorResponse) {
	if s.metrics != nil {
		s.metrics.ValidationErrorsInc()
	}
	s.writeJSON(w, handler, http.StatusBadRequest, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, handler string, status int, v interface{}) {
	if s.metrics != nil {
		s.metrics.RequestObserve(handler, status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Str("handler", handler).Msg("response encoding failed")
	}
}
