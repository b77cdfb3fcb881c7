package models

import (
	"time"

	"github.com/google/uuid"
)

// UserType distinguishes student accounts from business accounts
type UserType int16

const (
	UserTypeUndefined UserType = 0
	UserTypeBusiness  UserType = 1
	UserTypeStudent   UserType = 2
)

// BusinessCategory classifies business accounts
type BusinessCategory int16

const (
	BusinessCategoryUndefined    BusinessCategory = 0
	BusinessCategoryFoodAndDrink BusinessCategory = 1
	BusinessCategoryCinema       BusinessCategory = 2
)

// User defines the user model based on the 'users' table
type User struct {
	ID               uuid.UUID `json:"id" db:"id"`
	UserName         string    `json:"userName" db:"user_name"`
	Name             *string   `json:"name,omitempty" db:"name"`
	Email            string    `json:"email" db:"email"`
	Password         string    `json:"-" db:"password_hash"`
	Type             UserType  `json:"type" db:"type"`
	RegisterDateTime time.Time `json:"registerDateTime" db:"register_date_time"`
	City             *string   `json:"city,omitempty" db:"city"`
	ProfilePicture   *string   `json:"profilePicture,omitempty" db:"profile_picture"`

	// Business-only fields, null for student accounts
	BusinessName     *string           `json:"businessName,omitempty" db:"business_name"`
	BusinessAddress  *string           `json:"businessAddress,omitempty" db:"business_address"`
	BusinessCategory *BusinessCategory `json:"businessCategory,omitempty" db:"business_category"`
	CIF              *string           `json:"cif,omitempty" db:"cif"`
	GoogleMapsURL    *string           `json:"googleMapsUrl,omitempty" db:"google_maps_url"`
	Latitude         *float64          `json:"latitude,omitempty" db:"latitude"`
	Longitude        *float64          `json:"longitude,omitempty" db:"longitude"`
}

// DisplayName returns the best available human-readable name for the user.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	if u.UserName != "" {
		return u.UserName
	}
	return "Unknown"
}
