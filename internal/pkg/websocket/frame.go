package websocket

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Frame types sent to chat clients.
const (
	FrameTypeMessage    = "message"
	FrameTypeUserJoined = "userJoined"
	FrameTypeError      = "error"
)

// Frame is one outbound chat event. Every event in an activity room uses
// this shape; Type tells the client how to render it.
type Frame struct {
	Type       string     `json:"type"`
	ActivityID uuid.UUID  `json:"activityId"`
	SenderID   *uuid.UUID `json:"senderId,omitempty"`
	SenderName string     `json:"senderName,omitempty"`
	Content    string     `json:"content,omitempty"`
	MessageID  *uuid.UUID `json:"messageId,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
	Code       string     `json:"code,omitempty"`
}

// inboundFrame is what a connected client may send over the socket
type inboundFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ChatRelay validates chat participation and turns inbound text into
// persisted, broadcastable frames. Lookup failures come back as errors so
// they can be reported to the offending client instead of tearing the
// connection down.
type ChatRelay interface {
	// JoinChat announces a user entering an activity room and returns the
	// frame to fan out to the other room members.
	JoinChat(ctx context.Context, activityID, userID uuid.UUID) (*Frame, error)

	// HandleMessage persists an inbound chat message and returns the frame
	// to fan out to the other room members.
	HandleMessage(ctx context.Context, activityID, userID uuid.UUID, content string) (*Frame, error)
}
