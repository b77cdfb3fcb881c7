package models

import (
	"time"

	"github.com/google/uuid"
)

// Offer is a business-authored promotion, optionally linked to activities.
// The Paid flag is flipped by the external payment collaborator.
type Offer struct {
	ID             uuid.UUID `json:"id" db:"id"`
	BusinessID     uuid.UUID `json:"businessId" db:"business_id"`
	Title          string    `json:"title" db:"title"`
	Description    string    `json:"description" db:"description"`
	ExpirationDate time.Time `json:"expirationDate" db:"expiration_date"`
	Paid           bool      `json:"paid" db:"paid"`
	Tag            *string   `json:"tag,omitempty" db:"tag"`

	// Related entities
	Business *User `json:"business,omitempty"`
}

// Expired reports whether the offer's expiration date has passed relative to now.
func (o *Offer) Expired(now time.Time) bool {
	endOfDay := time.Date(
		o.ExpirationDate.Year(), o.ExpirationDate.Month(), o.ExpirationDate.Day(),
		23, 59, 59, 0, time.UTC,
	)
	return endOfDay.Before(now)
}
