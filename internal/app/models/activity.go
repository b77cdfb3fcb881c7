package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity represents a scheduled, capacity-bounded social event
type Activity struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	OfferID     *uuid.UUID `json:"offerId,omitempty" db:"offer_id"`
	OwnerID     uuid.UUID  `json:"ownerId" db:"owner_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	DateTime    time.Time  `json:"dateTime" db:"date_time"`
	PeopleLimit *uint32    `json:"peopleLimit,omitempty" db:"people_limit"`
	Location    *string    `json:"location,omitempty" db:"location"`
	Latitude    *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64   `json:"longitude,omitempty" db:"longitude"`

	// Related entities
	Owner *User  `json:"owner,omitempty"`
	Offer *Offer `json:"offer,omitempty"`
}

// MembershipRole is the role a user holds in an activity
type MembershipRole int16

const (
	RoleCreator MembershipRole = 0
	RoleMember  MembershipRole = 1
)

// String returns the wire form of the role.
func (r MembershipRole) String() string {
	switch r {
	case RoleCreator:
		return "CREATOR"
	case RoleMember:
		return "MEMBER"
	}
	return "UNKNOWN"
}

// UserActivity represents a user's membership in an activity.
// The (activity_id, user_id) pair is the composite primary key, so a user can
// hold at most one membership row per activity.
type UserActivity struct {
	ActivityID uuid.UUID      `json:"activityId" db:"activity_id"`
	UserID     uuid.UUID      `json:"userId" db:"user_id"`
	JoinedAt   time.Time      `json:"joinedAt" db:"joined_at"`
	UserRole   MembershipRole `json:"userRole" db:"user_role"`

	// Related entities
	User     *User     `json:"user,omitempty"`
	Activity *Activity `json:"activity,omitempty"`
}
