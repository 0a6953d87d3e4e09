package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/ratesource"
	"github.com/XavierBriggs/fortuna/services/match-predictor/pkg/models"
	"github.com/go-chi/chi/v5"
)

// DefaultTopScores is how many correct scores are listed when the caller does not ask.
const DefaultTopScores = 10

// Handler contains dependencies for HTTP handlers
type Handler struct {
	engine  atomic.Pointer[calculator.Engine]
	source  ratesource.Source
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// NewHandler creates a new handler
func NewHandler(engine *calculator.Engine, source ratesource.Source, recorder *metrics.Recorder, logger *slog.Logger) *Handler {
	h := &Handler{
		source:  source,
		metrics: recorder,
		logger:  logger,
	}
	h.engine.Store(engine)
	return h
}

// SetEngine swaps the engine used by subsequent requests.
func (h *Handler) SetEngine(engine *calculator.Engine) {
	h.engine.Store(engine)
}

// Engine returns the engine currently serving requests.
func (h *Handler) Engine() *calculator.Engine {
	return h.engine.Load()
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "match-predictor",
	})
}

// PredictFixture returns market probabilities for a fixture using the rates
// held by the configured rate source
func (h *Handler) PredictFixture(w http.ResponseWriter, r *http.Request) {
	fixtureID := chi.URLParam(r, "fixtureID")
	if fixtureID == "" {
		respondError(w, http.StatusBadRequest, "fixture id is required")
		return
	}

	overrides, top, err := parseQueryOverrides(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	rates, err := h.source.Rates(r.Context(), fixtureID)
	if errors.Is(err, ratesource.ErrNotFound) {
		h.metrics.ObserveError("not_found")
		respondError(w, http.StatusNotFound, fmt.Sprintf("no expected goals for fixture %s", fixtureID))
		return
	}
	if err != nil {
		h.metrics.ObserveError("rate_source")
		h.logger.Error("rate lookup failed", "fixture_id", fixtureID, "source", h.source.Name(), "err", err)
		respondError(w, http.StatusBadGateway, "rate source unavailable")
		return
	}
	if err := rates.Validate(); err != nil {
		h.metrics.ObserveError("rate_source")
		h.logger.Error("rate source returned unusable rates", "fixture_id", fixtureID, "source", h.source.Name(), "err", err)
		respondError(w, http.StatusBadGateway, "rate source returned invalid expected goals")
		return
	}

	prediction, err := h.Engine().Predict(rates, overrides)
	if err != nil {
		h.predictionError(w, err, "fixture_id", fixtureID)
		return
	}

	response := buildResponse(prediction, top, false)
	response.FixtureID = fixtureID
	response.Source = h.source.Name()

	h.logger.Debug("prediction served", "fixture_id", fixtureID, "prediction_id", response.PredictionID,
		"home_xg", rates.Home, "away_xg", rates.Away)
	respondJSON(w, http.StatusOK, response)
}

// Calculate returns market probabilities for explicit rates
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Parse request
	var req models.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	top := DefaultTopScores
	if req.Top != nil {
		if *req.Top < 0 {
			respondError(w, http.StatusBadRequest, "top must not be negative")
			return
		}
		top = *req.Top
	}

	overrides := calculator.Overrides{
		MaxGoals:      req.MaxGoals,
		GoalLines:     req.GoalLines,
		HalfTimeShare: req.HTGoalShare,
	}
	rates := calculator.ExpectedGoals{Home: req.HomeXG, Away: req.AwayXG}

	prediction, err := h.Engine().Predict(rates, overrides)
	if err != nil {
		h.predictionError(w, err, "home_xg", req.HomeXG, "away_xg", req.AwayXG)
		return
	}

	respondJSON(w, http.StatusOK, buildResponse(prediction, top, true))
}

// predictionError maps calculator errors to HTTP statuses
func (h *Handler) predictionError(w http.ResponseWriter, err error, logArgs ...any) {
	var rateErr *calculator.InvalidRateError
	var rangeErr *calculator.InvalidRangeError
	var invErr *calculator.InvariantViolationError

	switch {
	case errors.As(err, &rateErr):
		h.metrics.ObserveError("invalid_rate")
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &rangeErr):
		h.metrics.ObserveError("invalid_range")
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &invErr):
		h.metrics.ObserveError("invariant_violation")
		h.logger.Error("prediction invariant violated", append(logArgs, "err", err)...)
		respondError(w, http.StatusInternalServerError, "prediction failed")
	default:
		h.metrics.ObserveError("internal")
		h.logger.Error("prediction failed", append(logArgs, "err", err)...)
		respondError(w, http.StatusInternalServerError, "prediction failed")
	}
}

// parseQueryOverrides reads max_goals, goal_lines, ht_goal_share and top
func parseQueryOverrides(q url.Values) (calculator.Overrides, int, error) {
	var ov calculator.Overrides
	top := DefaultTopScores

	if v := q.Get("max_goals"); v != "" {
		maxGoals, err := strconv.Atoi(v)
		if err != nil {
			return ov, 0, fmt.Errorf("max_goals %q is not an integer", v)
		}
		ov.MaxGoals = &maxGoals
	}

	if v := q.Get("goal_lines"); v != "" {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			line, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return ov, 0, fmt.Errorf("goal line %q is not a number", part)
			}
			ov.GoalLines = append(ov.GoalLines, line)
		}
	}

	if v := q.Get("ht_goal_share"); v != "" {
		share, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return ov, 0, fmt.Errorf("ht_goal_share %q is not a number", v)
		}
		ov.HalfTimeShare = &share
	}

	if v := q.Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return ov, 0, fmt.Errorf("top %q must be a non-negative integer", v)
		}
		top = n
	}

	return ov, top, nil
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
