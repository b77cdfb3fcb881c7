package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityMessage is a chat message scoped to one activity. Messages are
// append-only; the author reference goes null if the author is later deleted.
type ActivityMessage struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	ActivityID uuid.UUID  `json:"activityId" db:"activity_id"`
	UserID     *uuid.UUID `json:"userId,omitempty" db:"user_id"`
	Message    string     `json:"message" db:"message"`
	Timestamp  time.Time  `json:"timestamp" db:"timestamp"`

	// Relations
	User *User `json:"user,omitempty" db:"-"`
}
