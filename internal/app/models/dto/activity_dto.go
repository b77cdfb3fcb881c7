package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/meetapp/backend/internal/app/models"
)

// ActivityCreateRequest is the payload for creating an activity
type ActivityCreateRequest struct {
	OfferID     *uuid.UUID `json:"offerId,omitempty"`
	OwnerID     uuid.UUID  `json:"ownerId" binding:"required"`
	Title       string     `json:"title" binding:"required,max=128"`
	Description string     `json:"description" binding:"required,max=1024"`
	DateTime    time.Time  `json:"dateTime" binding:"required"`
	PeopleLimit *uint32    `json:"peopleLimit,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`

	// Invitee user ids as raw strings; malformed, self-referential and unknown
	// entries are skipped rather than rejected.
	SelectedPeople []string `json:"selectedPeople,omitempty"`
}

// ActivityUpdateRequest is the payload for updating an activity
type ActivityUpdateRequest struct {
	OfferID     *uuid.UUID `json:"offerId,omitempty"`
	Title       string     `json:"title" binding:"required,max=128"`
	Description string     `json:"description" binding:"required,max=1024"`
	DateTime    time.Time  `json:"dateTime" binding:"required"`
	PeopleLimit *uint32    `json:"peopleLimit,omitempty"`
}

// ActivityResponse is the projection returned for a single activity
type ActivityResponse struct {
	ID               uuid.UUID  `json:"id"`
	OfferID          *uuid.UUID `json:"offerId"`
	OwnerID          uuid.UUID  `json:"ownerId"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	DateTime         time.Time  `json:"dateTime"`
	PeopleLimit      *uint32    `json:"peopleLimit"`
	Location         *string    `json:"location"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	ParticipantCount int        `json:"participantCount"`
}

// ActivityByDateResponse is the offer-joined projection for a day window
type ActivityByDateResponse struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	DateTime     string  `json:"dateTime"`
	PeopleLimit  *uint32 `json:"peopleLimit,omitempty"`
	BusinessName string  `json:"businessName"`
}

// ActivityMemberResponse describes one membership row of an activity
type ActivityMemberResponse struct {
	ActivityID uuid.UUID `json:"activityId"`
	UserID     uuid.UUID `json:"userId"`
	JoinedAt   time.Time `json:"joinedAt"`
	UserRole   string    `json:"userRole"`
	User       *UserBasicResponse `json:"user,omitempty"`
}

// JoinActivityResponse reports the outcome of a join call. Joined is false
// when the caller was already a member; that is a no-op, not an error.
type JoinActivityResponse struct {
	Joined        bool `json:"joined"`
	AlreadyMember bool `json:"alreadyMember"`
}

// QrCodeCheckRequest is the payload a business scans off an activity QR code
type QrCodeCheckRequest struct {
	ActivityID uuid.UUID `json:"activityId" binding:"required"`
	BusinessID uuid.UUID `json:"businessId" binding:"required"`
}

// QrCodeCheckResponse reports a successful QR code validation
type QrCodeCheckResponse struct {
	Valid bool `json:"valid"`
}

// ToActivityResponse maps an activity and its membership count to the API projection
func ToActivityResponse(activity *models.Activity, participantCount int) ActivityResponse {
	return ActivityResponse{
		ID:               activity.ID,
		OfferID:          activity.OfferID,
		OwnerID:          activity.OwnerID,
		Title:            activity.Title,
		Description:      activity.Description,
		DateTime:         activity.DateTime,
		PeopleLimit:      activity.PeopleLimit,
		Location:         activity.Location,
		Latitude:         activity.Latitude,
		Longitude:        activity.Longitude,
		ParticipantCount: participantCount,
	}
}

// ToActivityMemberResponse maps a membership row to the API projection
func ToActivityMemberResponse(m *models.UserActivity) ActivityMemberResponse {
	resp := ActivityMemberResponse{
		ActivityID: m.ActivityID,
		UserID:     m.UserID,
		JoinedAt:   m.JoinedAt,
		UserRole:   m.UserRole.String(),
	}
	if m.User != nil {
		basic := ToUserBasicResponse(m.User)
		resp.User = &basic
	}
	return resp
}
