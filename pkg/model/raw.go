package model

// RawRecord is one task signal as produced by the fetch client, before
// normalization. Timestamps are RFC 3339 strings as received from the API;
// fields may be missing or carry the platform's sentinel values.
type RawRecord struct {
	ID                 string `json:"id"`
	CreatedTime        string `json:"created_time"`
	Assignee           string `json:"assignee,omitempty"`
	Sender             string `json:"sender"`
	Status             string `json:"status"`
	SpaceName          string `json:"space_name"`
	SpaceDisplayName   string `json:"space_display_name,omitempty"`
	ThreadName         string `json:"thread_name,omitempty"`
	FirstThreadMessage string `json:"first_thread_message,omitempty"`
}
