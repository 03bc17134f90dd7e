package domain

// ParticipantInfo display attributes resolved from the member directory,
// used only to enrich responses, never to authorize
type ParticipantInfo struct {
	ID        string `json:"id"`
	UserName  string `json:"user_name"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ListingStatusAvailable listing still open for new enquiries
const ListingStatusAvailable = "available"

// ListingInfo display attributes of the listing a conversation refers to
type ListingInfo struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
	Status   string  `json:"status"`
}

// ConversationView enriched conversation returned to callers:
// raw ids replaced by display attributes, derived fields computed for the viewer
type ConversationView struct {
	ID           string            `json:"id"`
	Participants []ParticipantInfo `json:"participants"`
	Listing      *ListingInfo      `json:"listing,omitempty"`
	LastMessage  *ChatMessage      `json:"last_message,omitempty"`
	UnreadCount  int               `json:"unread_count"`
	LastActivity int64             `json:"last_activity"`
	IsActive     bool              `json:"is_active"`
	CreatedAt    int64             `json:"created_at,omitempty"`
}
