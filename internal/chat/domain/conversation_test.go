package domain

import (
	"strings"
	"testing"

	"marketplace_chat_service/pkg/errs"

	"github.com/stretchr/testify/assert"
)

// 測試 ParticipantPair 正規化
func TestNewParticipantPair_Normalize(t *testing.T) {
	p1, err := NewParticipantPair("bob", "alice")
	assert.NoError(t, err)

	p2, err := NewParticipantPair("alice", "bob")
	assert.NoError(t, err)

	// 不論呼叫顺序，canonical 结果相同
	assert.Equal(t, p1.Key(), p2.Key())
	assert.Equal(t, "alice", p1.First())
	assert.Equal(t, "bob", p1.Second())
	assert.Equal(t, []string{"alice", "bob"}, p1.Members())
	assert.Equal(t, "alice:bob", p1.Key())
}

func TestNewParticipantPair_Rejects(t *testing.T) {
	_, err := NewParticipantPair("alice", "alice")
	assert.True(t, errs.HasCode(err, errs.CodeInvalidArgument))

	_, err = NewParticipantPair("", "bob")
	assert.True(t, errs.HasCode(err, errs.CodeInvalidArgument))

	_, err = NewParticipantPair("alice", "")
	assert.True(t, errs.HasCode(err, errs.CodeInvalidArgument))
}

func TestParticipantPair_Matches(t *testing.T) {
	p, _ := NewParticipantPair("alice", "bob")

	assert.True(t, p.Matches([]string{"alice", "bob"}))
	assert.True(t, p.Matches([]string{"bob", "alice"}))
	assert.False(t, p.Matches([]string{"alice", "carol"}))
	assert.False(t, p.Matches([]string{"alice"}))

	assert.True(t, p.InCanonicalOrder([]string{"alice", "bob"}))
	assert.False(t, p.InCanonicalOrder([]string{"bob", "alice"}))
}

func msgs(n int) []ChatMessage {
	out := make([]ChatMessage, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ChatMessage{
			ID:        string(rune('a' + i)),
			SenderID:  "alice",
			Content:   "m",
			CreatedAt: int64(i + 1),
		})
	}
	return out
}

// 測試尾端分頁：page 1 是最新的訊息
func TestPageMessages_Tail(t *testing.T) {
	c := &Conversation{Messages: msgs(5)}

	page1, total := c.PageMessages(1, 2)
	assert.Equal(t, 5, total)
	assert.Len(t, page1, 2)
	assert.Equal(t, int64(4), page1[0].CreatedAt)
	assert.Equal(t, int64(5), page1[1].CreatedAt)

	page2, _ := c.PageMessages(2, 2)
	assert.Len(t, page2, 2)
	assert.Equal(t, int64(2), page2[0].CreatedAt)
	assert.Equal(t, int64(3), page2[1].CreatedAt)

	// 最後一頁只剩下最舊的一則
	page3, _ := c.PageMessages(3, 2)
	assert.Len(t, page3, 1)
	assert.Equal(t, int64(1), page3[0].CreatedAt)

	// 超出範圍回空 slice，不是 nil
	page4, total := c.PageMessages(4, 2)
	assert.NotNil(t, page4)
	assert.Empty(t, page4)
	assert.Equal(t, 5, total)
}

func TestPageMessages_Bounds(t *testing.T) {
	c := &Conversation{Messages: msgs(3)}

	// limit 大於總數 → 全部
	all, total := c.PageMessages(1, 50)
	assert.Equal(t, 3, total)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].CreatedAt)

	// page < 1 視為 1
	page, _ := c.PageMessages(0, 2)
	assert.Equal(t, int64(2), page[0].CreatedAt)

	empty, total := (&Conversation{}).PageMessages(1, 10)
	assert.Empty(t, empty)
	assert.Equal(t, 0, total)
}

func TestUnreadCounts(t *testing.T) {
	c := &Conversation{
		Participants: []string{"alice", "bob"},
		Messages: []ChatMessage{
			{ID: "1", SenderID: "alice", IsRead: true},
			{ID: "2", SenderID: "alice", IsRead: false},
			{ID: "3", SenderID: "alice", IsRead: false},
			{ID: "4", SenderID: "bob", IsRead: false},
		},
	}

	counts := c.UnreadCounts()
	assert.Equal(t, 3, counts["bob"])
	assert.Equal(t, 1, counts["alice"])

	assert.Equal(t, 3, c.UnreadFor("bob"))
	assert.Equal(t, 1, c.UnreadFor("alice"))
}

func TestLastMessage(t *testing.T) {
	empty := &Conversation{}
	assert.Nil(t, empty.LastMessage())

	c := &Conversation{Messages: msgs(3)}
	last := c.LastMessage()
	assert.NotNil(t, last)
	assert.Equal(t, int64(3), last.CreatedAt)
}

func TestConversation_Participants(t *testing.T) {
	c := &Conversation{Participants: []string{"alice", "bob"}}

	assert.True(t, c.HasParticipant("alice"))
	assert.False(t, c.HasParticipant("carol"))
	assert.Equal(t, "bob", c.Counterpart("alice"))
	assert.Equal(t, "alice", c.Counterpart("bob"))
}

func TestValidateContent(t *testing.T) {
	got, err := ValidateContent("  hello  ")
	assert.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = ValidateContent("   ")
	assert.True(t, errs.HasCode(err, errs.CodeInvalidArgument))

	// 以 code point 計算長度，多位元組字元不會提前超限
	ok := strings.Repeat("あ", MaxContentLength)
	got, err = ValidateContent(ok)
	assert.NoError(t, err)
	assert.Equal(t, ok, got)

	_, err = ValidateContent(strings.Repeat("あ", MaxContentLength+1))
	assert.True(t, errs.HasCode(err, errs.CodeInvalidArgument))
}
