package core

import (
	"time"
)

// Message roles understood by providers.
const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"
)

// Message is a single immutable conversation entry.
//
// Agent names the originating agent for assistant messages; Tag carries the
// role the agent was playing (architect, reviewer, cto, ...) when relevant.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Agent     string    `json:"agent,omitempty"`
	Tag       string    `json:"tag,omitempty"`
}

// NewUserMessage creates a user-authored message.
func NewUserMessage(content string) Message {
	return Message{ID: NewID(), Role: MessageRoleUser, Content: content, Timestamp: time.Now().UTC()}
}

// NewAssistantMessage creates a message produced by agent while playing tag.
func NewAssistantMessage(agent, tag, content string) Message {
	return Message{ID: NewID(), Role: MessageRoleAssistant, Content: content, Timestamp: time.Now().UTC(), Agent: agent, Tag: tag}
}

// Conversation is an ordered, append-only sequence of messages owned by a
// single run. It is not safe for concurrent mutation.
type Conversation struct {
	Messages []Message `json:"messages"`
}

// NewConversation creates a conversation seeded with the given messages.
func NewConversation(msgs ...Message) *Conversation {
	c := &Conversation{Messages: make([]Message, 0, len(msgs)+4)}
	c.Messages = append(c.Messages, msgs...)
	return c
}

// Append adds a message at the end of the conversation.
func (c *Conversation) Append(m Message) { c.Messages = append(c.Messages, m) }

// Snapshot returns a copy of the messages so callers (and agents running
// concurrently) never observe later appends.
func (c *Conversation) Snapshot() []Message {
	out := make([]Message, len(c.Messages))
	copy(out, c.Messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int { return len(c.Messages) }

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() Conversation {
	return Conversation{Messages: c.Snapshot()}
}
