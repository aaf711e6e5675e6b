package database

// Event lifecycle statuses
const (
	EventStatusUpcoming  = "upcoming"
	EventStatusVoting    = "voting"
	EventStatusFinalized = "finalized"
)

// Async task statuses used by the photo processing pipeline
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusError      = "error"
)

// Social post delivery statuses
const (
	PostStatusPending = "pending"
	PostStatusPosted  = "posted"
	PostStatusFailed  = "failed"
)

// ValidEventStatus reports whether s is a known event lifecycle status
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusUpcoming, EventStatusVoting, EventStatusFinalized:
		return true
	}
	return false
}
