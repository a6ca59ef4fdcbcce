// internal/server/handlers/frequency.go

package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"globalfreq/internal/domain/frequency"
	"globalfreq/internal/logging"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

// CombineRequest is the body of a global combination request
type CombineRequest struct {
	Regions map[string]frequency.Document `json:"regions"`
}

// FrequencyHandler handles frequency-related HTTP requests
type FrequencyHandler struct {
	combiner     frequency.Combiner
	runs         frequency.RunStore
	events       frequency.EventPublisher
	maxBodyBytes int64
}

// NewFrequencyHandler creates a new frequency handler. runs and events may be nil.
func NewFrequencyHandler(
	combiner frequency.Combiner,
	runs frequency.RunStore,
	events frequency.EventPublisher,
	maxBodyBytes int64,
) *FrequencyHandler {
	return &FrequencyHandler{
		combiner:     combiner,
		runs:         runs,
		events:       events,
		maxBodyBytes: maxBodyBytes,
	}
}

// GetRegions returns the configured region table
func (h *FrequencyHandler) GetRegions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.combiner.Regions())
}

// CombineGlobal merges the posted regional documents into a global estimate
func (h *FrequencyHandler) CombineGlobal(w http.ResponseWriter, r *http.Request) {
	correlationID := middleware.GetReqID(r.Context())
	if correlationID == "" {
		correlationID = logging.GenerateCorrelationID()
	}
	ctx := logging.ContextWithCorrelationID(r.Context(), correlationID)

	// Parse body
	var req CombineRequest
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Regions) == 0 {
		respondWithError(w, http.StatusBadRequest, "No regions supplied", nil)
		return
	}

	names := make([]string, 0, len(req.Regions))
	for name := range req.Regions {
		names = append(names, name)
	}
	sort.Strings(names)

	inputs := make([]frequency.RegionInput, 0, len(names))
	for _, name := range names {
		inputs = append(inputs, frequency.RegionInput{Region: name, Document: req.Regions[name]})
	}

	// Combine
	result, err := h.combiner.Combine(ctx, inputs)
	if err != nil {
		if frequency.IsInputError(err) {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid regional frequencies", err)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to combine frequencies", err)
		}
		return
	}

	run := frequency.Run{
		ID:        uuid.NewString(),
		Regions:   result.Regions,
		Features:  len(result.Features),
		Pivots:    len(result.Document[frequency.PivotsKey]),
		Document:  result.Document,
		CreatedAt: time.Now().UTC(),
	}

	// Persist and announce
	if h.runs != nil {
		if err := h.runs.SaveRun(ctx, run); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to save run", err)
			return
		}
	}
	if h.events != nil {
		if err := h.events.PublishRun(ctx, run); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("run_id", run.ID).Msg("Failed to publish run event")
		}
	}

	respondWithJSON(w, http.StatusCreated, run)
}

// GetRun returns a stored run by ID
func (h *FrequencyHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing run ID", nil)
		return
	}
	if h.runs == nil {
		respondWithError(w, http.StatusNotFound, "Run storage disabled", nil)
		return
	}

	run, err := h.runs.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, frequency.ErrRunNotFound) || errors.Is(err, ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Run not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get run", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, run)
}

// ListRuns returns the most recent runs
func (h *FrequencyHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondWithJSON(w, http.StatusOK, []frequency.Run{})
		return
	}

	limit := defaultRunLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = min(parsed, maxRunLimit)
	}

	runs, err := h.runs.ListRuns(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	respondWithJSON(w, http.StatusOK, runs)
}
