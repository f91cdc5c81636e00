package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/atomlab/pulsebridge/internal/modules/decode"
	"github.com/atomlab/pulsebridge/internal/modules/device"
	"github.com/atomlab/pulsebridge/internal/modules/program"
)

// HardwareBackend is implemented by backends that create a remote task and
// can report its ARN before results are available.
type HardwareBackend interface {
	device.Backend
	Submit(ctx context.Context, prog program.Program, shots int) (string, error)
	Await(ctx context.Context, arn string) ([]decode.Shot, error)
}

// Request is one translation/execution request after JSON decoding.
type Request struct {
	Wires     []int
	Shots     int
	Evolution device.Evolution
}

// Service translates requests into programs, stores them as tasks and runs
// them on the configured backend. Execution is asynchronous; watchers receive
// status transitions until the task reaches a terminal state.
type Service struct {
	repo        *Repository
	backend     device.Backend
	backendName string
	hardware    bool
	runTimeout  time.Duration
	log         zerolog.Logger

	mu       sync.Mutex
	watchers map[string][]chan Status
}

// NewService creates a task service. The hardware flag selects the stricter
// pulse layout rule set during translation.
func NewService(repo *Repository, backend device.Backend, backendName string, hardware bool, log zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		backend:     backend,
		backendName: backendName,
		hardware:    hardware,
		runTimeout:  time.Hour,
		log:         log.With().Str("module", "tasks").Logger(),
		watchers:    make(map[string][]chan Status),
	}
}

// Translate validates the request and assembles the hardware program without
// storing or executing anything.
func (s *Service) Translate(req Request) (program.Program, error) {
	dev, err := device.New(device.Config{
		Wires:    req.Wires,
		Shots:    req.Shots,
		Hardware: s.hardware,
		Backend:  s.backend,
		Log:      s.log,
	})
	if err != nil {
		return program.Program{}, err
	}

	if err := dev.ValidateOperations([]device.Evolution{req.Evolution}); err != nil {
		return program.Program{}, err
	}
	if err := dev.ValidatePulses(req.Evolution.Pulses); err != nil {
		return program.Program{}, err
	}

	return dev.CreateProgram(req.Evolution)
}

// Submit translates the request, stores it as a task and starts execution in
// the background. Translation errors surface synchronously; execution errors
// land on the stored task.
func (s *Service) Submit(req Request) (*Task, error) {
	prog, err := s.Translate(req)
	if err != nil {
		return nil, err
	}

	task := &Task{
		ID:      uuid.New().String(),
		Status:  StatusCreated,
		Backend: s.backendName,
		Shots:   req.Shots,
		Sites:   len(prog.Register),
		Program: prog,
	}
	if err := s.repo.Create(task); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("task_id", task.ID).
		Str("backend", s.backendName).
		Int("shots", task.Shots).
		Int("sites", task.Sites).
		Msg("Task submitted")

	go s.run(task.ID, prog, req.Shots)

	return task, nil
}

// run executes one stored task to completion.
func (s *Service) run(id string, prog program.Program, shots int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	s.setStatus(id, StatusRunning)

	raw, err := s.execute(ctx, id, prog, shots)
	if err != nil {
		s.log.Error().Err(err).Str("task_id", id).Msg("Task execution failed")
		if dbErr := s.repo.Fail(id, err.Error()); dbErr != nil {
			s.log.Error().Err(dbErr).Str("task_id", id).Msg("Failed to store task failure")
		}
		s.notify(id, StatusFailed)
		return
	}

	samples := decode.DecodeShots(raw)
	if err := s.repo.Complete(id, samples); err != nil {
		s.log.Error().Err(err).Str("task_id", id).Msg("Failed to store task samples")
		s.notify(id, StatusFailed)
		return
	}

	s.log.Info().Str("task_id", id).Int("shots", len(samples)).Msg("Task completed")
	s.notify(id, StatusCompleted)
}

// execute dispatches to the backend, recording the remote ARN when the
// backend creates one.
func (s *Service) execute(ctx context.Context, id string, prog program.Program, shots int) ([]decode.Shot, error) {
	hw, ok := s.backend.(HardwareBackend)
	if !ok {
		return s.backend.Run(ctx, prog, shots)
	}

	arn, err := hw.Submit(ctx, prog, shots)
	if err != nil {
		return nil, fmt.Errorf("hardware submission: %w", err)
	}
	if err := s.repo.SetRemoteARN(id, arn); err != nil {
		s.log.Warn().Err(err).Str("task_id", id).Msg("Failed to store remote task ARN")
	}
	return hw.Await(ctx, arn)
}

// Get returns a stored task, or nil when unknown.
func (s *Service) Get(id string) (*Task, error) {
	return s.repo.Get(id)
}

// List returns recent tasks, newest first.
func (s *Service) List(limit int) ([]Task, error) {
	return s.repo.List(limit)
}

// Watch subscribes to status transitions for a task. The channel closes when
// the task reaches a terminal state; the returned cancel detaches early.
func (s *Service) Watch(id string) (<-chan Status, func()) {
	ch := make(chan Status, 8)

	s.mu.Lock()
	s.watchers[id] = append(s.watchers[id], ch)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.watchers[id]
		for i, c := range list {
			if c == ch {
				s.watchers[id] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
	return ch, cancel
}

func (s *Service) setStatus(id string, status Status) {
	if err := s.repo.SetStatus(id, status); err != nil {
		s.log.Error().Err(err).Str("task_id", id).Msg("Failed to update task status")
	}
	s.notify(id, status)
}

// notify pushes a status to watchers, dropping it for slow readers. Terminal
// statuses close and detach all watchers for the task.
func (s *Service) notify(id string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.watchers[id] {
		select {
		case ch <- status:
		default:
		}
	}

	if status.Terminal() {
		for _, ch := range s.watchers[id] {
			close(ch)
		}
		delete(s.watchers, id)
	}
}
