package support

import (
	"context"
	"errors"
	"sync"

	"flamesblue/gateway"
	"flamesblue/models"
	"flamesblue/utils"

	"go.uber.org/zap"
)

// Greeting seeds every fresh transcript.
const Greeting = "Hi! I'm here to help with bookings and listings."

// placeholderUserID tags outgoing chat messages until the backend contract
// carries the real authenticated identity.
const placeholderUserID = "me"

var (
	ErrMessageRequired = errors.New("message text is required")
	ErrFlowDiscarded   = errors.New("support chat has been discarded")
)

// Chat is the support screen state: an append-only transcript. The user's
// entry is appended optimistically before the backend call; the assistant's
// reply is appended only if that call succeeds. A failed call leaves no trace
// in the transcript.
type Chat struct {
	mu         sync.Mutex
	gw         gateway.Gateway
	transcript []models.ChatMessage
	discarded  bool
}

// NewChat creates a transcript seeded with the assistant greeting.
func NewChat(gw gateway.Gateway) *Chat {
	return &Chat{
		gw: gw,
		transcript: []models.ChatMessage{
			{Sender: models.SenderAssistant, Text: Greeting},
		},
	}
}

// Send appends the user's message, asks the backend for a reply, and appends
// the reply on success. Failures are swallowed: the transcript keeps the user
// entry and nothing else happens.
func (c *Chat) Send(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.discarded {
		c.mu.Unlock()
		return ErrFlowDiscarded
	}
	if text == "" {
		c.mu.Unlock()
		return ErrMessageRequired
	}
	c.transcript = append(c.transcript, models.ChatMessage{Sender: models.SenderUser, Text: text})
	c.mu.Unlock()

	reply, err := c.gw.SendChatMessage(ctx, placeholderUserID, text)
	if err != nil {
		utils.GetLogger().Warn("support chat request failed", zap.Error(err))
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.discarded {
		return nil
	}
	c.transcript = append(c.transcript, models.ChatMessage{Sender: models.SenderAssistant, Text: reply})
	return nil
}

// Transcript returns a copy of the conversation so far.
func (c *Chat) Transcript() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatMessage, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Discard marks the chat dead; a reply still in flight is dropped.
func (c *Chat) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discarded = true
}
