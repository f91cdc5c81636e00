package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/atomlab/pulsebridge/internal/modules/tasks"
)

// HandleTaskStream streams status transitions for one task over a websocket.
// The current status is sent first; the connection closes normally once the
// task reaches a terminal state.
func (h *Handlers) HandleTaskStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	task, err := h.tasks.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("task_id", id).Msg("Websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream aborted")

	// The peer sends nothing; CloseRead surfaces its close frame as context
	// cancellation.
	ctx := conn.CloseRead(r.Context())

	ch, cancel := h.tasks.Watch(id)
	defer cancel()

	if err := writeStatus(ctx, conn, id, task.Status); err != nil {
		return
	}
	if task.Status.Terminal() {
		conn.Close(websocket.StatusNormalClosure, "")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case status, ok := <-ch:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if err := writeStatus(ctx, conn, id, status); err != nil {
				return
			}
			if status.Terminal() {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
		}
	}
}

func writeStatus(ctx context.Context, conn *websocket.Conn, id string, status tasks.Status) error {
	payload, err := json.Marshal(map[string]interface{}{
		"task_id": id,
		"status":  status,
		"time":    time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, payload)
}
