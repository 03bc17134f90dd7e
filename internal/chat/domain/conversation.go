package domain

import (
	"strings"
	"unicode/utf8"

	"marketplace_chat_service/pkg"
	"marketplace_chat_service/pkg/errs"
)

// MaxContentLength message content cap in code points
const MaxContentLength = 1000

// ParticipantPair canonical, order independent identity of two participants.
// first < second under byte-wise comparison of the id string form.
type ParticipantPair struct {
	first  string
	second string
}

// NewParticipantPair normalize two participant ids into canonical order.
// Equal ids are rejected, a member cannot converse with themselves.
func NewParticipantPair(a, b string) (ParticipantPair, error) {
	if a == "" || b == "" {
		return ParticipantPair{}, errs.ErrEmptyParticipant
	}
	if a == b {
		return ParticipantPair{}, errs.ErrSelfConversation
	}
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return ParticipantPair{first: a, second: b}, nil
}

// First smaller id of the pair
func (p ParticipantPair) First() string { return p.first }

// Second bigger id of the pair
func (p ParticipantPair) Second() string { return p.second }

// Members the pair in canonical order
func (p ParticipantPair) Members() []string { return []string{p.first, p.second} }

// Key scalar form used for the store uniqueness constraint
func (p ParticipantPair) Key() string { return p.first + ":" + p.second }

// Matches check a stored participants slice holds exactly this pair, any order
func (p ParticipantPair) Matches(participants []string) bool {
	if len(participants) != 2 {
		return false
	}
	return pkg.Contains(participants, p.first) && pkg.Contains(participants, p.second)
}

// InCanonicalOrder check a stored participants slice already equals Members()
func (p ParticipantPair) InCanonicalOrder(participants []string) bool {
	return len(participants) == 2 && participants[0] == p.first && participants[1] == p.second
}

// ChatMessage 表示一则聊天讯息，append 之后除 is_read 以外不可变
type ChatMessage struct {
	ID        string `bson:"id" json:"id"`
	SenderID  string `bson:"sender_id" json:"sender_id"`
	Content   string `bson:"content" json:"content"`
	CreatedAt int64  `bson:"created_at" json:"created_at"`
	IsRead    bool   `bson:"is_read" json:"is_read"`
}

// Conversation definition the single thread between two participants.
// Messages embed in the document, array order is insertion order.
type Conversation struct {
	ID           string        `bson:"_id,omitempty" json:"id"`
	Participants []string      `bson:"participants" json:"participants"`
	PairKey      string        `bson:"pair_key" json:"-"`
	ListingID    string        `bson:"listing_id,omitempty" json:"listing_id,omitempty"`
	Messages     []ChatMessage `bson:"messages" json:"messages"`
	LastActivity int64         `bson:"last_activity" json:"last_activity"`
	IsActive     bool          `bson:"is_active" json:"is_active"`
	CreatedAt    int64         `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt    int64         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// HasParticipant check memberID belongs to the conversation
func (c *Conversation) HasParticipant(memberID string) bool {
	return pkg.Contains(c.Participants, memberID)
}

// Counterpart the other participant id, empty when memberID is not in the pair
func (c *Conversation) Counterpart(memberID string) string {
	for _, p := range c.Participants {
		if p != memberID {
			return p
		}
	}
	return ""
}

// LastMessage derived, never stored
func (c *Conversation) LastMessage() *ChatMessage {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// UnreadCounts derived per-participant unread counters: for each participant,
// messages sent by the other side still flagged unread
func (c *Conversation) UnreadCounts() map[string]int {
	counts := make(map[string]int, len(c.Participants))
	for _, p := range c.Participants {
		counts[p] = 0
	}
	for _, msg := range c.Messages {
		if msg.IsRead {
			continue
		}
		for _, p := range c.Participants {
			if msg.SenderID != p {
				counts[p]++
			}
		}
	}
	return counts
}

// UnreadFor unread count for one participant
func (c *Conversation) UnreadFor(memberID string) int {
	n := 0
	for _, msg := range c.Messages {
		if !msg.IsRead && msg.SenderID != memberID {
			n++
		}
	}
	return n
}

// PageMessages tail pagination over the embedded array: page 1 is the newest
// limit messages, page 2 the limit before that. Messages inside a page stay in
// chronological ascending order. Out of range pages return an empty slice.
func (c *Conversation) PageMessages(page, limit int) ([]ChatMessage, int) {
	total := len(c.Messages)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return []ChatMessage{}, total
	}

	end := total - (page-1)*limit
	if end <= 0 {
		return []ChatMessage{}, total
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	return c.Messages[start:end], total
}

// ValidateContent trim and bound message content, returns the stored form
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", errs.ErrContentRequired
	}
	if utf8.RuneCountInString(trimmed) > MaxContentLength {
		return "", errs.ErrContentTooLong
	}
	return trimmed, nil
}
