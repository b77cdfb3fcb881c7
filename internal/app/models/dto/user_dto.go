package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/meetapp/backend/internal/app/models"
)

// RegistrationRequest is the payload for creating a new account
type RegistrationRequest struct {
	UserName string  `json:"userName" binding:"required"`
	Name     *string `json:"name,omitempty"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Type     int16   `json:"type"`
	City     *string `json:"city,omitempty"`

	// Business-only fields
	BusinessName     *string  `json:"businessName,omitempty"`
	BusinessAddress  *string  `json:"businessAddress,omitempty"`
	BusinessCategory *int16   `json:"businessCategory,omitempty"`
	CIF              *string  `json:"cif,omitempty"`
	GoogleMapsURL    *string  `json:"googleMapsUrl,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
}

// UserUpdateRequest is the payload for updating a student account
type UserUpdateRequest struct {
	Name           *string `json:"name,omitempty"`
	City           *string `json:"city,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// BusinessUpdateRequest is the payload for updating a business account
type BusinessUpdateRequest struct {
	BusinessName     *string  `json:"businessName,omitempty"`
	BusinessAddress  *string  `json:"businessAddress,omitempty"`
	BusinessCategory *int16   `json:"businessCategory,omitempty"`
	GoogleMapsURL    *string  `json:"googleMapsUrl,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
}

// UserBasicResponse is the minimal user projection embedded in other responses
type UserBasicResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// UserResponse is the full user projection
type UserResponse struct {
	ID               uuid.UUID `json:"id"`
	UserName         string    `json:"userName"`
	Name             *string   `json:"name,omitempty"`
	Email            string    `json:"email"`
	Type             int16     `json:"type"`
	RegisterDateTime time.Time `json:"registerDateTime"`
	City             *string   `json:"city,omitempty"`
	ProfilePicture   *string   `json:"profilePicture,omitempty"`
}

// BusinessInfoResponse is the projection for business listings
type BusinessInfoResponse struct {
	ID              uuid.UUID `json:"id"`
	BusinessName    *string   `json:"businessName"`
	BusinessAddress *string   `json:"businessAddress"`
	GoogleMapsURL   *string   `json:"googleMapsUrl,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	ProfilePicture  *string   `json:"profilePicture,omitempty"`
}

// UserSearchResponse is one membership row of the member search, flattened
// to the user's profile plus the activity they joined
type UserSearchResponse struct {
	Name           string `json:"name"`
	City           string `json:"city"`
	DateOfCreation string `json:"dateOfCreation"`
	ActivityName   string `json:"activityName"`
	DateOfJoin     string `json:"dateOfJoin"`
}

// ToUserBasicResponse maps a user to the minimal projection
func ToUserBasicResponse(user *models.User) UserBasicResponse {
	return UserBasicResponse{
		ID:    user.ID,
		Name:  user.DisplayName(),
		Email: user.Email,
	}
}

// ToUserResponse maps a user to the full projection
func ToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		UserName:         user.UserName,
		Name:             user.Name,
		Email:            user.Email,
		Type:             int16(user.Type),
		RegisterDateTime: user.RegisterDateTime,
		City:             user.City,
		ProfilePicture:   user.ProfilePicture,
	}
}

// ToUserSearchResponse flattens a membership row with its user and activity
// attached into the search projection
func ToUserSearchResponse(m *models.UserActivity) UserSearchResponse {
	resp := UserSearchResponse{
		DateOfJoin: m.JoinedAt.Format(time.RFC3339),
	}
	if m.User != nil {
		resp.Name = m.User.DisplayName()
		resp.DateOfCreation = m.User.RegisterDateTime.Format(time.RFC3339)
		if m.User.City != nil {
			resp.City = *m.User.City
		}
	}
	if m.Activity != nil {
		resp.ActivityName = m.Activity.Title
	}
	return resp
}

// ToBusinessInfoResponse maps a business user to the listing projection
func ToBusinessInfoResponse(user *models.User) BusinessInfoResponse {
	return BusinessInfoResponse{
		ID:              user.ID,
		BusinessName:    user.BusinessName,
		BusinessAddress: user.BusinessAddress,
		GoogleMapsURL:   user.GoogleMapsURL,
		Latitude:        user.Latitude,
		Longitude:       user.Longitude,
		ProfilePicture:  user.ProfilePicture,
	}
}
