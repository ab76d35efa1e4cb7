package support_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"flamesblue/gateway"
	"flamesblue/models"
	"flamesblue/services/support"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu        sync.Mutex
	chatCalls [][2]string
	chatFn    func(ctx context.Context, userID, message string) (string, error)
}

func (f *fakeGateway) SendCode(context.Context, string) error           { return nil }
func (f *fakeGateway) VerifyCode(context.Context, string, string) error { return nil }

func (f *fakeGateway) CreateListing(context.Context, gateway.CreateListingInput) (string, error) {
	return "", nil
}

func (f *fakeGateway) ListVehicles(context.Context) ([]models.VehicleListing, error) {
	return nil, nil
}

func (f *fakeGateway) SendChatMessage(ctx context.Context, userID, message string) (string, error) {
	f.mu.Lock()
	f.chatCalls = append(f.chatCalls, [2]string{userID, message})
	f.mu.Unlock()
	if f.chatFn != nil {
		return f.chatFn(ctx, userID, message)
	}
	return "ok", nil
}

func TestTranscriptStartsWithGreeting(t *testing.T) {
	chat := support.NewChat(&fakeGateway{})

	transcript := chat.Transcript()

	require.Len(t, transcript, 1)
	assert.Equal(t, models.SenderAssistant, transcript[0].Sender)
	assert.Equal(t, support.Greeting, transcript[0].Text)
}

func TestSendAppendsUserThenAssistant(t *testing.T) {
	gw := &fakeGateway{
		chatFn: func(context.Context, string, string) (string, error) {
			return "Sure, how can I help?", nil
		},
	}
	chat := support.NewChat(gw)

	require.NoError(t, chat.Send(context.Background(), "help"))

	transcript := chat.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, support.Greeting, transcript[0].Text)
	assert.Equal(t, models.SenderUser, transcript[1].Sender)
	assert.Equal(t, "help", transcript[1].Text)
	assert.Equal(t, models.SenderAssistant, transcript[2].Sender)
	assert.Equal(t, "Sure, how can I help?", transcript[2].Text)
}

func TestUserEntryAppendedBeforeReplyResolves(t *testing.T) {
	gw := &fakeGateway{}
	chat := support.NewChat(gw)
	gw.chatFn = func(context.Context, string, string) (string, error) {
		// Observed mid-call: the user's entry is already in the transcript.
		transcript := chat.Transcript()
		require.Len(t, transcript, 2)
		assert.Equal(t, models.SenderUser, transcript[1].Sender)
		return "reply", nil
	}

	require.NoError(t, chat.Send(context.Background(), "help"))
}

func TestSendFailureLeavesUserEntryOnly(t *testing.T) {
	gw := &fakeGateway{
		chatFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("backend unreachable")
		},
	}
	chat := support.NewChat(gw)

	require.NoError(t, chat.Send(context.Background(), "help"))

	transcript := chat.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, models.SenderUser, transcript[1].Sender)
}

func TestSendEmptyRejected(t *testing.T) {
	gw := &fakeGateway{}
	chat := support.NewChat(gw)

	err := chat.Send(context.Background(), "")

	require.ErrorIs(t, err, support.ErrMessageRequired)
	assert.Empty(t, gw.chatCalls)
}

func TestSendTagsPlaceholderUser(t *testing.T) {
	gw := &fakeGateway{}
	chat := support.NewChat(gw)

	require.NoError(t, chat.Send(context.Background(), "hi"))

	require.Len(t, gw.chatCalls, 1)
	assert.Equal(t, "me", gw.chatCalls[0][0])
}

func TestDiscardDuringFlightDropsReply(t *testing.T) {
	chat := (*support.Chat)(nil)
	gw := &fakeGateway{}
	gw.chatFn = func(context.Context, string, string) (string, error) {
		chat.Discard()
		return "late reply", nil
	}
	chat = support.NewChat(gw)

	require.NoError(t, chat.Send(context.Background(), "help"))

	transcript := chat.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, models.SenderUser, transcript[1].Sender)
}
