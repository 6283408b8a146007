// ABOUTME: Data types for the conversation store
// ABOUTME: Defines Message and Conversation plus their copy helpers

package chat

import (
	"slices"
	"time"
)

// Message is a single entry in a conversation. Messages are created once and
// never deleted individually; the only mutation after creation is pin state.
type Message struct {
	ID        string
	SenderID  string
	Content   string
	Timestamp time.Time

	// Attachment metadata, set only for file messages
	FileURL  string
	FileName string
	FileType string

	// Pin state. Expiry is evaluated lazily at read time; the raw flags are
	// kept on the message even after PinnedUntil passes.
	IsPinned    bool
	PinnedUntil time.Time
}

// Conversation is a named or unnamed collection of participants and their
// ordered messages. Insertion order of Messages is chronological order.
type Conversation struct {
	ID           string
	Name         string // required conceptually for group chats, empty for 1:1
	Participants []string
	Messages     []Message
	IsGroup      bool

	// Approval state, reachable only through chat requests. A directly
	// created conversation starts active with both flags false.
	PendingApproval bool
	Rejected        bool

	// Favorite elevates the conversation in the list ordering. This flag is
	// the single source of truth; the favorites id set is derived on read.
	Favorite bool

	// LastMessage mirrors the chronologically last entry of Messages,
	// nil while the conversation is empty.
	LastMessage *Message
}

// HasParticipant reports whether the user belongs to the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	return slices.Contains(c.Participants, userID)
}

// clone returns a deep copy so callers cannot mutate store state.
func (c *Conversation) clone() *Conversation {
	result := *c
	result.Participants = append([]string(nil), c.Participants...)
	result.Messages = append([]Message(nil), c.Messages...)
	if c.LastMessage != nil {
		last := *c.LastMessage
		result.LastMessage = &last
	}
	return &result
}
