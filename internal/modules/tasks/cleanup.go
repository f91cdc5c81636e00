package tasks

import (
	"time"

	"github.com/rs/zerolog"
)

// CleanupJob purges tasks older than the retention window.
// It should be scheduled to run daily.
type CleanupJob struct {
	repo      *Repository
	retention time.Duration
	log       zerolog.Logger
}

// NewCleanupJob creates a task retention cleanup job.
func NewCleanupJob(repo *Repository, retentionDays int, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		repo:      repo,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		log:       log.With().Str("job", "task_cleanup").Logger(),
	}
}

// Run removes all tasks created before the retention cutoff.
func (j *CleanupJob) Run() error {
	cutoff := time.Now().Add(-j.retention)

	deleted, err := j.repo.DeleteOlderThan(cutoff)
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to delete expired tasks")
		return err
	}

	if deleted > 0 {
		j.log.Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("Purged expired tasks")
	}

	return nil
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "task_cleanup"
}
