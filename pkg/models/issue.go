package models

// Issue status values.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Issue is the tracked record for one conversation thread. Exactly one
// Issue exists per (channel, thread) pair; the composite key is stable
// for the life of the thread.
type Issue struct {
	PK        string `json:"pk"`
	ChannelID string `json:"channel_id"`
	ThreadID  string `json:"thread_id"`
	// UserID is the actor who started the thread.
	UserID string `json:"user_id"`
	// Text is a display-only snippet of the first message.
	Text      string `json:"text"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
	// ClosedBy/ClosedAt are set only while Status is closed and are
	// cleared again on reopen.
	ClosedBy string `json:"closed_by,omitempty"`
	ClosedAt int64  `json:"closed_at,omitempty"`
	// Last* track the most recent activity in the thread. They start at
	// the thread-creating message and are overwritten by every reply.
	LastMessageID     string `json:"last_message_id"`
	LastMessageAt     int64  `json:"last_message_at"`
	LastMessageUserID string `json:"last_message_user_id"`
}

// IssueKey builds the composite record key for a thread.
func IssueKey(channelID, threadID string) string {
	return channelID + ":" + threadID
}
