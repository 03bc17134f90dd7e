package domain

// ChatEventType definition chat event type
type ChatEventType string

const (
	// EventConversationCreated a new conversation document was inserted
	EventConversationCreated ChatEventType = "conversation.created"
	// EventMessageAppended a message was appended to a conversation
	EventMessageAppended ChatEventType = "message.appended"
)

// ChatEvent published to the event stream for downstream consumers
// (admin dashboard, notification service), none of which live in this repo
type ChatEvent struct {
	Type           ChatEventType `json:"type"`
	ConversationID string        `json:"conversation_id"`
	SenderID       string        `json:"sender_id,omitempty"`
	MessageID      string        `json:"message_id,omitempty"`
	ListingID      string        `json:"listing_id,omitempty"`
	OccurredAt     int64         `json:"occurred_at"`
}
