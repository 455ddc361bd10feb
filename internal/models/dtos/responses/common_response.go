package responses

import "time"

// APIResponse is the envelope used for error payloads and simple
// acknowledgements; resource endpoints return their representation directly.
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
	Data      *T        `json:"data,omitempty"`
}
