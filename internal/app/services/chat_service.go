package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meetapp/backend/internal/app/models"
	"github.com/meetapp/backend/internal/app/models/dto"
	"github.com/meetapp/backend/internal/pkg/apperrors"
	"github.com/meetapp/backend/internal/pkg/clock"
	"github.com/meetapp/backend/internal/pkg/metrics"
	"github.com/meetapp/backend/internal/pkg/websocket"
)

// ChatService defines the interface for activity chat operations. It also
// satisfies websocket.ChatRelay, which the connection handler uses for the
// live message path.
type ChatService interface {
	JoinChat(ctx context.Context, activityID, userID uuid.UUID) (*websocket.Frame, error)
	HandleMessage(ctx context.Context, activityID, userID uuid.UUID, content string) (*websocket.Frame, error)
	GetActivityMessages(ctx context.Context, activityID uuid.UUID) ([]*dto.ActivityMessageResponse, error)
	GetMessage(ctx context.Context, id uuid.UUID) (*dto.ActivityMessageResponse, error)
	GetAllMessages(ctx context.Context) ([]*dto.ActivityMessageResponse, error)
}

// chatServiceImpl implements ChatService
type chatServiceImpl struct {
	messageStore  MessageStore
	activityStore ActivityStore
	userStore     UserStore
	clk           clock.Clock
	metrics       *metrics.Registry
	logger        zerolog.Logger
}

// NewChatService creates a new ChatService. metricsReg may be nil.
func NewChatService(
	messageStore MessageStore,
	activityStore ActivityStore,
	userStore UserStore,
	clk clock.Clock,
	metricsReg *metrics.Registry,
	logger zerolog.Logger,
) ChatService {
	return &chatServiceImpl{
		messageStore:  messageStore,
		activityStore: activityStore,
		userStore:     userStore,
		clk:           clk,
		metrics:       metricsReg,
		logger:        logger,
	}
}

// JoinChat validates the joining user and activity and returns the join
// announcement for the rest of the room
func (s *chatServiceImpl) JoinChat(ctx context.Context, activityID, userID uuid.UUID) (*websocket.Frame, error) {
	exists, err := s.activityStore.ExistsByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrActivityNotFound
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	name := user.DisplayName()
	return &websocket.Frame{
		Type:       websocket.FrameTypeUserJoined,
		ActivityID: activityID,
		SenderID:   &userID,
		SenderName: name,
		Content:    fmt.Sprintf("%s joined the chat.", name),
		Timestamp:  s.clk.Now(),
	}, nil
}

// HandleMessage persists an inbound chat message and returns the frame to
// fan out to the other room members. Lookup failures come back as errors
// for the sender; nothing is persisted or broadcast in that case.
func (s *chatServiceImpl) HandleMessage(ctx context.Context, activityID, userID uuid.UUID, content string) (*websocket.Frame, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		s.countMessage("rejected")
		return nil, apperrors.NewBadRequestError("Message content is required")
	}

	exists, err := s.activityStore.ExistsByID(ctx, activityID)
	if err != nil {
		s.countMessage("error")
		return nil, err
	}
	if !exists {
		s.countMessage("rejected")
		return nil, apperrors.ErrActivityNotFound
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		s.countMessage("rejected")
		return nil, err
	}

	message := &models.ActivityMessage{
		ActivityID: activityID,
		UserID:     &userID,
		Message:    content,
		Timestamp:  s.clk.Now(),
	}

	if err := s.messageStore.Create(ctx, message); err != nil {
		s.countMessage("error")
		s.logger.Error().Err(err).
			Str("activityID", activityID.String()).
			Str("userID", userID.String()).
			Msg("Failed to persist chat message")
		return nil, err
	}

	s.countMessage("delivered")

	return &websocket.Frame{
		Type:       websocket.FrameTypeMessage,
		ActivityID: activityID,
		SenderID:   &userID,
		SenderName: user.DisplayName(),
		Content:    content,
		MessageID:  &message.ID,
		Timestamp:  message.Timestamp,
	}, nil
}

// GetActivityMessages retrieves an activity's chat history in persisted order
func (s *chatServiceImpl) GetActivityMessages(ctx context.Context, activityID uuid.UUID) ([]*dto.ActivityMessageResponse, error) {
	exists, err := s.activityStore.ExistsByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrActivityNotFound
	}

	messages, err := s.messageStore.GetByActivityID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	return dto.ToActivityMessageResponses(messages), nil
}

// GetMessage retrieves a single message by ID
func (s *chatServiceImpl) GetMessage(ctx context.Context, id uuid.UUID) (*dto.ActivityMessageResponse, error) {
	message, err := s.messageStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.ToActivityMessageResponse(message), nil
}

// GetAllMessages retrieves every stored message in persisted order
func (s *chatServiceImpl) GetAllMessages(ctx context.Context) ([]*dto.ActivityMessageResponse, error) {
	messages, err := s.messageStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return dto.ToActivityMessageResponses(messages), nil
}

func (s *chatServiceImpl) countMessage(outcome string) {
	if s.metrics != nil {
		s.metrics.ChatMessagesTotal.WithLabelValues(outcome).Inc()
	}
}
