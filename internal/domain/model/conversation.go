package model

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SystemInstruction seeds every new in-memory conversation.
const SystemInstruction = "You are a helpful AI assistant."

// ChatMessage represents one role-tagged message of a conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// Conversation is the in-memory message history of one active connection.
// It is owned by that connection's turn handler and is never restored from
// the durable log: a reconnect under the same session id starts fresh.
type Conversation struct {
	Messages []ChatMessage
}

// NewConversation returns a conversation seeded with the system instruction.
func NewConversation() *Conversation {
	return &Conversation{
		Messages: []ChatMessage{{Role: RoleSystem, Content: SystemInstruction}},
	}
}

func (c *Conversation) Append(role, content string) {
	c.Messages = append(c.Messages, ChatMessage{Role: role, Content: content})
}
