package tasks

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Repository provides task persistence on SQLite. Program and sample payloads
// are stored as msgpack blobs; the row carries only queryable metadata.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InitSchema creates the tasks table if it does not exist.
func InitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		backend TEXT NOT NULL,
		remote_arn TEXT NOT NULL DEFAULT '',
		shots INTEGER NOT NULL,
		sites INTEGER NOT NULL,
		program BLOB,
		samples BLOB,
		error TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize tasks schema: %w", err)
	}
	return nil
}

// Create inserts a new task.
func (r *Repository) Create(t *Task) error {
	progBlob, err := msgpack.Marshal(t.Program)
	if err != nil {
		return fmt.Errorf("failed to encode program: %w", err)
	}

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err = r.db.Exec(`
		INSERT INTO tasks (id, status, backend, remote_arn, shots, sites, program, samples, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL, '', ?, ?)`,
		t.ID, string(t.Status), t.Backend, t.RemoteARN, t.Shots, t.Sites, progBlob,
		now.Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task %s: %w", t.ID, err)
	}
	return nil
}

// Get returns a task by id, or nil when it does not exist.
func (r *Repository) Get(id string) (*Task, error) {
	row := r.db.QueryRow(`
		SELECT id, status, backend, remote_arn, shots, sites, program, samples, error, created_at, updated_at
		FROM tasks WHERE id = ?`, id)

	var (
		t          Task
		status     string
		progBlob   []byte
		sampleBlob []byte
		createdAt  int64
		updatedAt  int64
	)
	err := row.Scan(&t.ID, &status, &t.Backend, &t.RemoteARN, &t.Shots, &t.Sites,
		&progBlob, &sampleBlob, &t.Error, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", id, err)
	}

	t.Status = Status(status)
	t.CreatedAt = time.Unix(createdAt, 0)
	t.UpdatedAt = time.Unix(updatedAt, 0)

	if len(progBlob) > 0 {
		if err := msgpack.Unmarshal(progBlob, &t.Program); err != nil {
			return nil, fmt.Errorf("failed to decode program for task %s: %w", id, err)
		}
	}
	if len(sampleBlob) > 0 {
		if err := msgpack.Unmarshal(sampleBlob, &t.Samples); err != nil {
			return nil, fmt.Errorf("failed to decode samples for task %s: %w", id, err)
		}
	}

	return &t, nil
}

// List returns the most recent tasks, newest first, without payload blobs.
func (r *Repository) List(limit int) ([]Task, error) {
	rows, err := r.db.Query(`
		SELECT id, status, backend, remote_arn, shots, sites, error, created_at, updated_at
		FROM tasks ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var (
			t         Task
			status    string
			createdAt int64
			updatedAt int64
		)
		if err := rows.Scan(&t.ID, &status, &t.Backend, &t.RemoteARN, &t.Shots, &t.Sites,
			&t.Error, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		t.Status = Status(status)
		t.CreatedAt = time.Unix(createdAt, 0)
		t.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, t)
	}
	return out, rows.Err()
}

// SetStatus updates a task's lifecycle status.
func (r *Repository) SetStatus(id string, status Status) error {
	_, err := r.db.Exec(`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update status for task %s: %w", id, err)
	}
	return nil
}

// SetRemoteARN records the hardware quantum task ARN once submission succeeds.
func (r *Repository) SetRemoteARN(id, arn string) error {
	_, err := r.db.Exec(`UPDATE tasks SET remote_arn = ?, updated_at = ? WHERE id = ?`,
		arn, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update remote ARN for task %s: %w", id, err)
	}
	return nil
}

// Complete stores decoded samples and marks the task completed.
func (r *Repository) Complete(id string, samples [][]float64) error {
	blob, err := msgpack.Marshal(samples)
	if err != nil {
		return fmt.Errorf("failed to encode samples: %w", err)
	}

	_, err = r.db.Exec(`UPDATE tasks SET status = ?, samples = ?, updated_at = ? WHERE id = ?`,
		string(StatusCompleted), blob, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to complete task %s: %w", id, err)
	}
	return nil
}

// Fail marks the task failed with an error message.
func (r *Repository) Fail(id, msg string) error {
	_, err := r.db.Exec(`UPDATE tasks SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(StatusFailed), msg, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to mark task %s failed: %w", id, err)
	}
	return nil
}

// DeleteOlderThan removes tasks created before the cutoff.
// Returns the number of rows deleted.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM tasks WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tasks: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}
