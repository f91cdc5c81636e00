package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atomlab/pulsebridge/internal/modules/decode"
	"github.com/atomlab/pulsebridge/internal/modules/observables"
	"github.com/atomlab/pulsebridge/internal/modules/tasks"
)

// observableSpec is the JSON form of an observable tree node.
type observableSpec struct {
	Kind     string           `json:"kind"`
	Wires    []int            `json:"wires,omitempty"`
	State    []float64        `json:"state,omitempty"`
	Basis    []int            `json:"basis,omitempty"`
	Coeffs   []float64        `json:"coeffs,omitempty"`
	Operands []observableSpec `json:"operands,omitempty"`
}

var observableKinds = map[string]observables.Kind{
	"pauli_z":     observables.PauliZ,
	"pauli_x":     observables.PauliX,
	"pauli_y":     observables.PauliY,
	"identity":    observables.Identity,
	"projector":   observables.Projector,
	"sum":         observables.Sum,
	"prod":        observables.Prod,
	"sprod":       observables.SProd,
	"exp":         observables.Exp,
	"hamiltonian": observables.Hamiltonian,
}

func (s observableSpec) toObservable() (observables.Observable, error) {
	kind, ok := observableKinds[s.Kind]
	if !ok {
		return observables.Observable{}, fmt.Errorf("unknown observable kind %q", s.Kind)
	}

	obs := observables.Observable{
		Kind:   kind,
		Wires:  s.Wires,
		State:  s.State,
		Basis:  s.Basis,
		Coeffs: s.Coeffs,
	}
	for _, op := range s.Operands {
		child, err := op.toObservable()
		if err != nil {
			return observables.Observable{}, err
		}
		obs.Operands = append(obs.Operands, child)
	}
	return obs, nil
}

// collectWires gathers the leaf wires of an observable tree in first-seen
// order.
func collectWires(o observables.Observable, seen map[int]bool, out *[]int) {
	for _, w := range o.Wires {
		if !seen[w] {
			seen[w] = true
			*out = append(*out, w)
		}
	}
	for _, op := range o.Operands {
		collectWires(op, seen, out)
	}
}

// HandleExpval computes Z expectation values over a completed task's samples.
// The request names an observable tree; it must be diagonal in the Z basis.
func (h *Handlers) HandleExpval(w http.ResponseWriter, r *http.Request) {
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

	var body struct {
		Observable observableSpec `json:"observable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	obs, err := body.Observable.toObservable()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := observables.ValidateZBasis(obs); err != nil {
		if errors.Is(err, observables.ErrNotZBasis) || errors.Is(err, observables.ErrUnknownBasis) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var wires []int
	collectWires(obs, make(map[int]bool), &wires)
	if len(wires) == 0 {
		// An observable with no named wires (bare identity trees) reads the
		// full register.
		for i := 0; i < task.Sites; i++ {
			wires = append(wires, i)
		}
	}

	expectations := make(map[int]*float64, len(wires))
	for _, site := range wires {
		if site < 0 || site >= task.Sites {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("observable wire %d is outside the %d-site register", site, task.Sites))
			return
		}
		v := decode.ExpvalZ(task.Samples, site)
		if !math.IsNaN(v) {
			val := v
			expectations[site] = &val
		} else {
			expectations[site] = nil
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"expectations": expectations,
		},
		"metadata": map[string]interface{}{
			"shots": len(task.Samples),
		},
	})
}
