package websocket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// captureRelay records the context and arguments of the last HandleMessage
// call so tests can inspect them after the fact.
type captureRelay struct {
	ctx     context.Context
	content string
	frame   *Frame
	err     error
}

func (r *captureRelay) JoinChat(ctx context.Context, activityID, userID uuid.UUID) (*Frame, error) {
	return nil, errors.New("not used")
}

func (r *captureRelay) HandleMessage(ctx context.Context, activityID, userID uuid.UUID, content string) (*Frame, error) {
	r.ctx = ctx
	r.content = content
	return r.frame, r.err
}

func newRelayClient(hub *Hub, activityID uuid.UUID, relay ChatRelay) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:        hub,
		send:       make(chan []byte, 8),
		userID:     uuid.New(),
		activityID: activityID,
		ctx:        ctx,
		cancel:     cancel,
		relay:      relay,
		logger:     zerolog.Nop(),
	}
}

func TestInboundMessageRunsUnderConnectionContext(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	go hub.Run()

	activityID := uuid.New()
	relay := &captureRelay{frame: &Frame{
		Type:       FrameTypeMessage,
		ActivityID: activityID,
		Content:    "hi",
		Timestamp:  time.Now().UTC(),
	}}

	sender := newRelayClient(hub, activityID, relay)
	peer := newTestClient(hub, activityID)
	hub.register <- sender
	hub.register <- peer

	sender.processInbound([]byte(`{"type":"text","content":"hi"}`))

	require.Equal(t, "hi", relay.content)
	require.NotNil(t, relay.ctx)
	require.NoError(t, relay.ctx.Err())

	frame := recvFrame(t, peer)
	require.Equal(t, FrameTypeMessage, frame.Type)
	require.Equal(t, "hi", frame.Content)
	requireNoFrame(t, sender)

	// Closing the connection cancels whatever the relay is still doing
	sender.cancel()
	require.ErrorIs(t, relay.ctx.Err(), context.Canceled)
}

func TestInboundMalformedFrameReportsToSenderOnly(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	go hub.Run()

	activityID := uuid.New()
	relay := &captureRelay{}
	sender := newRelayClient(hub, activityID, relay)
	peer := newTestClient(hub, activityID)
	hub.register <- sender
	hub.register <- peer

	sender.processInbound([]byte(`{"type":"ping"}`))

	frame := recvFrame(t, sender)
	require.Equal(t, FrameTypeError, frame.Type)
	require.Equal(t, "VAL_001", frame.Code)
	requireNoFrame(t, peer)
	require.Nil(t, relay.ctx)
}

func TestInboundRelayErrorReportsToSenderOnly(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	go hub.Run()

	activityID := uuid.New()
	relay := &captureRelay{err: errors.New("activity not found")}
	sender := newRelayClient(hub, activityID, relay)
	peer := newTestClient(hub, activityID)
	hub.register <- sender
	hub.register <- peer

	sender.processInbound([]byte(`{"type":"text","content":"hi"}`))

	frame := recvFrame(t, sender)
	require.Equal(t, FrameTypeError, frame.Type)
	require.Equal(t, "RES_001", frame.Code)
	require.Equal(t, "activity not found", frame.Content)
	requireNoFrame(t, peer)
}
