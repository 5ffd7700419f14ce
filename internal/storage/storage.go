package storage

// RoleUser is the only role the assistant records.
const RoleUser = "user"

// ChatTurn is one submitted question together with the model reply.
// Response is nil when no reply was recorded; it serialises as null.
// Timestamp is an ISO-8601 string and is what the history view sorts on.
type ChatTurn struct {
	Role      string  `json:"role"`
	Message   string  `json:"message"`
	Response  *string `json:"response"`
	Timestamp string  `json:"timestamp"`
}

// Store persists the full chat log.
// Load never fails: a missing or broken log reads as empty.
// Save replaces the whole log with the given turns.
type Store interface {
	Load() []ChatTurn
	Save(turns []ChatTurn) error
}
