package models

// ChatSender distinguishes the two sides of a support conversation.
type ChatSender string

const (
	SenderUser      ChatSender = "user"
	SenderAssistant ChatSender = "bot"
)

// ChatMessage is one transcript entry.
type ChatMessage struct {
	Sender ChatSender `json:"role"`
	Text   string     `json:"message"`
}
