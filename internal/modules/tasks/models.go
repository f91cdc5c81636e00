// Package tasks persists translation/execution tasks: the assembled program,
// its lifecycle status and, once a backend has run it, the decoded samples.
package tasks

import (
	"time"

	"github.com/atomlab/pulsebridge/internal/modules/program"
)

// Status is the task lifecycle state.
type Status string

const (
	// StatusCreated - accepted and stored, not yet running.
	StatusCreated Status = "created"
	// StatusRunning - handed to an execution backend.
	StatusRunning Status = "running"
	// StatusCompleted - samples are available.
	StatusCompleted Status = "completed"
	// StatusFailed - the backend or translation reported an error.
	StatusFailed Status = "failed"
	// StatusCancelled - cancelled before completion.
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status can no longer change.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Task is one stored execution request.
type Task struct {
	ID        string          `json:"id"`
	Status    Status          `json:"status"`
	Backend   string          `json:"backend"`
	RemoteARN string          `json:"remote_arn,omitempty"` // quantum task ARN for hardware runs
	Shots     int             `json:"shots"`
	Sites     int             `json:"sites"`
	Program   program.Program `json:"-"`
	Samples   [][]float64     `json:"-"` // decoded samples, NaN = undetermined
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
