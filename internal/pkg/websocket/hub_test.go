package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, activityID uuid.UUID) *Client {
	return &Client{
		hub:        hub,
		send:       make(chan []byte, 8),
		userID:     uuid.New(),
		activityID: activityID,
		logger:     zerolog.Nop(),
	}
}

func recvFrame(t *testing.T, c *Client) *Frame {
	t.Helper()
	select {
	case data := <-c.send:
		var frame Frame
		require.NoError(t, json.Unmarshal(data, &frame))
		return &frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func requireNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected frame: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastExceptSkipsSender(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	go hub.Run()

	activityID := uuid.New()
	sender := newTestClient(hub, activityID)
	other := newTestClient(hub, activityID)
	hub.register <- sender
	hub.register <- other

	hub.BroadcastExcept(activityID, sender, &Frame{
		Type:       FrameTypeMessage,
		ActivityID: activityID,
		Content:    "hello",
	})

	frame := recvFrame(t, other)
	require.Equal(t, FrameTypeMessage, frame.Type)
	require.Equal(t, "hello", frame.Content)
	requireNoFrame(t, sender)
}

func TestBroadcastScopedToRoom(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	go hub.Run()

	roomA := uuid.New()
	roomB := uuid.New()
	inA := newTestClient(hub, roomA)
	inB := newTestClient(hub, roomB)
	hub.register <- inA
	hub.register <- inB

	hub.Broadcast(roomA, &Frame{
		Type:       FrameTypeUserJoined,
		ActivityID: roomA,
		SenderName: "ana",
	})

	frame := recvFrame(t, inA)
	require.Equal(t, FrameTypeUserJoined, frame.Type)
	require.Equal(t, "ana", frame.SenderName)
	requireNoFrame(t, inB)
}

func TestUnregisterEmptiesRoom(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	go hub.Run()

	activityID := uuid.New()
	client := newTestClient(hub, activityID)
	hub.register <- client
	hub.unregister <- client

	// Fan-out after the unregister was processed proves the room is gone
	hub.Broadcast(activityID, &Frame{Type: FrameTypeMessage, ActivityID: activityID})

	require.Eventually(t, func() bool {
		return hub.RoomSize(activityID) == 0
	}, time.Second, 10*time.Millisecond)

	// The send channel was closed by the hub
	_, open := <-client.send
	require.False(t, open)
}
