package models

import (
	"encoding/json"
	"time"
)

// SyncTask is a deferred action queued while the gateway's upstream is
// unreachable. Each task is consumed once per successful sync attempt and
// requeued on failure until the attempt bound is reached.
type SyncTask struct {
	Tag          string          `json:"tag"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	EnqueuedAt   time.Time       `json:"enqueued_at"`
	AttemptCount int             `json:"attempt_count"`
}
