package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/Tiger884/retro-pc-store/internal/models"
)

// Control message types accepted on the gateway's message endpoint.
const (
	msgSkipWaiting    = "SKIP_WAITING"
	msgGetVersion     = "GET_VERSION"
	msgClearCache     = "CLEAR_CACHE"
	msgBackgroundSync = "BACKGROUND_SYNC"
)

type controlMessage struct {
	Type string `json:"type"`
	Data struct {
		Tag     string          `json:"tag"`
		Payload json.RawMessage `json:"payload"`
	} `json:"data"`
}

func (rt *Router) handleControl(w http.ResponseWriter, r *http.Request) {
	var msg controlMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid message"})
		return
	}

	switch msg.Type {
	case msgSkipWaiting:
		rt.Activate()
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case msgGetVersion:
		writeJSON(w, http.StatusOK, map[string]any{"version": namePrefix + "-" + rt.conf.Version})
	case msgClearCache:
		for _, class := range []string{classImages, classStatic, classDynamic, classAPI} {
			rt.parts.Open(class).Clear()
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case msgBackgroundSync:
		if msg.Data.Tag == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing sync tag"})
			return
		}
		rt.queue.Enqueue(msg.Data.Tag, msg.Data.Payload)
		writeJSON(w, http.StatusAccepted, map[string]any{"success": true})
	default:
		rt.log.Debugw("unknown control message", "type", msg.Type)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unknown message type"})
	}
}

// DrainSync replays queued sync tasks against the upstream.
func (rt *Router) DrainSync(ctx context.Context) {
	rt.queue.Drain(ctx, rt.replayTask)
}

func (rt *Router) replayTask(ctx context.Context, task models.SyncTask) error {
	target := *rt.upstream
	target.Path = "/api/v1/sync/" + task.Tag

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(task.Payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rt.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return &models.NetworkError{StatusCode: resp.StatusCode}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
