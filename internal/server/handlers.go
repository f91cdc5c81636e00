package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/atomlab/pulsebridge/internal/modules/program"
	"github.com/atomlab/pulsebridge/internal/modules/tasks"
)

// Handlers serves the translation and task endpoints
type Handlers struct {
	tasks        *tasks.Service
	defaultShots int
	log          zerolog.Logger
}

// NewHandlers creates the task API handlers
func NewHandlers(svc *tasks.Service, defaultShots int, log zerolog.Logger) *Handlers {
	return &Handlers{
		tasks:        svc,
		defaultShots: defaultShots,
		log:          log.With().Str("handler", "tasks").Logger(),
	}
}

// HandleTranslate assembles a hardware program without storing or running it.
// The response carries the structured program and its IR document.
func (h *Handlers) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	var body translateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	req, err := body.toRequest(h.defaultShots)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	prog, err := h.tasks.Translate(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ir, err := program.EncodeIR(prog)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode program IR")
		writeError(w, http.StatusInternalServerError, "failed to encode program")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"program": prog,
			"ir":      json.RawMessage(ir),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleCreateTask stores the request as a task and starts execution in the
// background.
func (h *Handlers) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var body translateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	req, err := body.toRequest(h.defaultShots)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.tasks.Submit(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"data": task,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleListTasks returns recent tasks, newest first
func (h *Handlers) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	list, err := h.tasks.List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": list,
		"metadata": map[string]interface{}{
			"count":     len(list),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetTask returns one task by id
func (h *Handlers) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": task,
	})
}

// HandleGetSamples returns the decoded samples of a completed task.
// Undetermined qubits are encoded as JSON null.
func (h *Handlers) HandleGetSamples(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if task.Status != tasks.StatusCompleted {
		writeError(w, http.StatusConflict, "task has no samples: status is "+string(task.Status))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": nullableSamples(task.Samples),
		"metadata": map[string]interface{}{
			"shots": len(task.Samples),
			"sites": task.Sites,
		},
	})
}

// nullableSamples maps NaN entries to nil so they serialize as JSON null.
func nullableSamples(samples [][]float64) [][]*float64 {
	out := make([][]*float64, len(samples))
	for i, row := range samples {
		out[i] = make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				val := v
				out[i][j] = &val
			}
		}
	}
	return out
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
