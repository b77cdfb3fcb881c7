package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/meetapp/backend/internal/pkg/apperrors"
	"github.com/meetapp/backend/internal/pkg/websocket"
)

func newChatService(store *memStore) ChatService {
	return NewChatService(memMessageStore{store}, memActivityStore{store}, store, testClock, nil, zerolog.Nop())
}

func TestHandleMessagePersistsAndBuildsFrame(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	activity := store.addActivity(owner.ID, nil)

	svc := newChatService(store)
	ctx := context.Background()

	frame, err := svc.HandleMessage(ctx, activity.ID, owner.ID, "anyone up for doubles?")
	require.NoError(t, err)
	require.Equal(t, websocket.FrameTypeMessage, frame.Type)
	require.Equal(t, activity.ID, frame.ActivityID)
	require.Equal(t, owner.ID, *frame.SenderID)
	require.Equal(t, "owner", frame.SenderName)
	require.Equal(t, "anyone up for doubles?", frame.Content)
	require.NotNil(t, frame.MessageID)
	require.Equal(t, testClock.Now(), frame.Timestamp)

	// The message was persisted
	require.Len(t, store.messages, 1)
	require.Equal(t, "anyone up for doubles?", store.messages[0].Message)
}

func TestHandleMessageUnknownActivity(t *testing.T) {
	store := newMemStore()
	user := store.addUser("u1")

	svc := newChatService(store)

	_, err := svc.HandleMessage(context.Background(), uuid.New(), user.ID, "hello?")
	require.ErrorIs(t, err, apperrors.ErrActivityNotFound)
	require.Empty(t, store.messages)
}

func TestHandleMessageUnknownUser(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	activity := store.addActivity(owner.ID, nil)

	svc := newChatService(store)

	_, err := svc.HandleMessage(context.Background(), activity.ID, uuid.New(), "hello?")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	require.Empty(t, store.messages)
}

func TestHandleMessageRejectsEmptyContent(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	activity := store.addActivity(owner.ID, nil)

	svc := newChatService(store)

	_, err := svc.HandleMessage(context.Background(), activity.ID, owner.ID, "   ")
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
	require.Empty(t, store.messages)
}

func TestJoinChatFrame(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("ana")
	activity := store.addActivity(owner.ID, nil)

	svc := newChatService(store)

	frame, err := svc.JoinChat(context.Background(), activity.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, websocket.FrameTypeUserJoined, frame.Type)
	require.Equal(t, "ana", frame.SenderName)
	require.Equal(t, "ana joined the chat.", frame.Content)
}

func TestJoinChatUnknownActivity(t *testing.T) {
	store := newMemStore()
	user := store.addUser("u1")

	svc := newChatService(store)

	_, err := svc.JoinChat(context.Background(), uuid.New(), user.ID)
	require.ErrorIs(t, err, apperrors.ErrActivityNotFound)
}

func TestHistoryRoundTripInPersistedOrder(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	guest := store.addUser("guest")
	activity := store.addActivity(owner.ID, nil)

	svc := newChatService(store)
	ctx := context.Background()

	sent := []string{"first", "second", "third"}
	for i, content := range sent {
		sender := owner.ID
		if i%2 == 1 {
			sender = guest.ID
		}
		_, err := svc.HandleMessage(ctx, activity.ID, sender, content)
		require.NoError(t, err)
	}

	history, err := svc.GetActivityMessages(ctx, activity.ID)
	require.NoError(t, err)
	require.Len(t, history, len(sent))
	for i, msg := range history {
		require.Equal(t, sent[i], msg.Message)
		require.Equal(t, activity.ID, msg.ActivityID)
	}
}
