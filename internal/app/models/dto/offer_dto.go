package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/meetapp/backend/internal/app/models"
)

// OfferCreateRequest is the payload for creating an offer.
type OfferCreateRequest struct {
	Title          string    `json:"title" binding:"required,max=255"`
	Description    string    `json:"description" binding:"required"`
	ExpirationDate time.Time `json:"expirationDate" binding:"required"`
	Tag            *string   `json:"tag,omitempty" binding:"omitempty,max=64"`
}

// OfferUpdateRequest is the payload for updating an existing offer.
type OfferUpdateRequest struct {
	Title          *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Description    *string    `json:"description,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	Tag            *string    `json:"tag,omitempty" binding:"omitempty,max=64"`
}

// OfferResponse is one offer as returned by the API.
type OfferResponse struct {
	ID             uuid.UUID          `json:"id"`
	BusinessID     uuid.UUID          `json:"businessId"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	ExpirationDate time.Time          `json:"expirationDate"`
	Paid           bool               `json:"paid"`
	Expired        bool               `json:"expired"`
	Tag            *string            `json:"tag,omitempty"`
	Business       *UserBasicResponse `json:"business,omitempty"`
}

func ToOfferResponse(o *models.Offer, now time.Time) *OfferResponse {
	if o == nil {
		return nil
	}
	resp := &OfferResponse{
		ID:             o.ID,
		BusinessID:     o.BusinessID,
		Title:          o.Title,
		Description:    o.Description,
		ExpirationDate: o.ExpirationDate,
		Paid:           o.Paid,
		Expired:        o.Expired(now),
		Tag:            o.Tag,
	}
	if o.Business != nil {
		basic := ToUserBasicResponse(o.Business)
		resp.Business = &basic
	}
	return resp
}

func ToOfferResponses(offers []*models.Offer, now time.Time) []*OfferResponse {
	out := make([]*OfferResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, ToOfferResponse(o, now))
	}
	return out
}
