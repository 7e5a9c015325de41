package model

import "time"

// Status of a task as observed through the chat platform. A task is either
// still open or has been completed; completion is terminal within one report.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusCompleted Status = "COMPLETED"
)

// TaskRecord is the canonical form of one tracked task after normalization.
// The ID is assigned by the source platform and is unique within a ledger.
type TaskRecord struct {
	ID                 string    `json:"id"`
	CreatedTime        time.Time `json:"created_time"`
	Assignee           string    `json:"assignee,omitempty"` // empty means unassigned
	Sender             string    `json:"sender"`
	Status             Status    `json:"status"`
	SpaceID            string    `json:"space_id"`
	SpaceDisplayName   string    `json:"space_display_name,omitempty"`
	ThreadID           string    `json:"thread_id,omitempty"`
	FirstThreadMessage string    `json:"first_thread_message,omitempty"`
}

// Assigned reports whether the task has an assignee.
func (t TaskRecord) Assigned() bool {
	return t.Assignee != ""
}

// Space is a chat space containing tasks. Identity is the ID; the display
// name is descriptive only and may change between fetches.
type Space struct {
	ID          string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Label returns the display name, falling back to the ID when the space has
// no display name (direct messages, for instance, have none).
func (s Space) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.ID
}
