package history

import "time"

// Sender identifies who authored a conversation message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message represents a single persisted conversational message.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	ReplyToID string    `json:"reply_to_id,omitempty"`
}
