package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/meetapp/backend/internal/app/models"
)

// ActivityMessageResponse is one persisted chat message.
type ActivityMessageResponse struct {
	ID         uuid.UUID  `json:"id"`
	ActivityID uuid.UUID  `json:"activityId"`
	UserID     *uuid.UUID `json:"userId"`
	UserName   string     `json:"userName,omitempty"`
	Message    string     `json:"message"`
	Timestamp  time.Time  `json:"timestamp"`
}

func ToActivityMessageResponse(m *models.ActivityMessage) *ActivityMessageResponse {
	if m == nil {
		return nil
	}
	resp := &ActivityMessageResponse{
		ID:         m.ID,
		ActivityID: m.ActivityID,
		UserID:     m.UserID,
		Message:    m.Message,
		Timestamp:  m.Timestamp,
	}
	if m.User != nil {
		resp.UserName = m.User.UserName
	}
	return resp
}

func ToActivityMessageResponses(messages []*models.ActivityMessage) []*ActivityMessageResponse {
	out := make([]*ActivityMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, ToActivityMessageResponse(m))
	}
	return out
}
