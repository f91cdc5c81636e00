package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/atomlab/pulsebridge/internal/database"
)

// SystemHandlers serves process and storage health
type SystemHandlers struct {
	db        *database.DB
	backend   string
	startedAt time.Time
	log       zerolog.Logger
}

// NewSystemHandlers creates the system health handlers
func NewSystemHandlers(db *database.DB, backend string, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		db:        db,
		backend:   backend,
		startedAt: time.Now(),
		log:       log.With().Str("handler", "system").Logger(),
	}
}

// HandleHealth reports CPU, memory, database and backend health
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":  "ok",
		"backend": h.backend,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	}

	if percents, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(percents) > 0 {
		health["cpu_percent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		health["memory_percent"] = vm.UsedPercent
	}

	if h.db != nil {
		if err := h.db.HealthCheck(r.Context()); err != nil {
			health["status"] = "degraded"
			health["database"] = map[string]interface{}{
				"healthy": false,
				"error":   err.Error(),
			}
		} else {
			dbInfo := map[string]interface{}{"healthy": true}
			if stats, err := h.db.GetStats(); err == nil {
				dbInfo["size_bytes"] = stats.SizeBytes
				dbInfo["wal_size_bytes"] = stats.WALSizeBytes
				dbInfo["page_count"] = stats.PageCount
			}
			health["database"] = dbInfo
		}
	}

	writeJSON(w, http.StatusOK, health)
}
