package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meetapp/backend/internal/app/models"
	"github.com/meetapp/backend/internal/app/models/dto"
	"github.com/meetapp/backend/internal/pkg/apperrors"
	"github.com/meetapp/backend/internal/pkg/clock"
)

// OfferService defines the interface for offer operations
type OfferService interface {
	CreateOffer(ctx context.Context, businessID uuid.UUID, req *dto.OfferCreateRequest) (*dto.OfferResponse, error)
	GetOffer(ctx context.Context, id uuid.UUID) (*dto.OfferResponse, error)
	ListOffers(ctx context.Context, businessID *uuid.UUID) ([]*dto.OfferResponse, error)
	UpdateOffer(ctx context.Context, callerID, offerID uuid.UUID, req *dto.OfferUpdateRequest) (*dto.OfferResponse, error)
	SetOfferPaid(ctx context.Context, callerID, offerID uuid.UUID, paid bool) error
	DeleteOffer(ctx context.Context, callerID, offerID uuid.UUID) error
}

// offerServiceImpl implements OfferService
type offerServiceImpl struct {
	offerStore OfferStore
	userStore  UserStore
	clk        clock.Clock
	logger     zerolog.Logger
}

// NewOfferService creates a new OfferService
func NewOfferService(offerStore OfferStore, userStore UserStore, clk clock.Clock, logger zerolog.Logger) OfferService {
	return &offerServiceImpl{
		offerStore: offerStore,
		userStore:  userStore,
		clk:        clk,
		logger:     logger,
	}
}

// CreateOffer creates an offer authored by a business account
func (s *offerServiceImpl) CreateOffer(ctx context.Context, businessID uuid.UUID, req *dto.OfferCreateRequest) (*dto.OfferResponse, error) {
	business, err := s.userStore.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business.Type != models.UserTypeBusiness {
		return nil, apperrors.NewForbiddenError("Only business accounts can create offers")
	}

	offer := &models.Offer{
		BusinessID:     business.ID,
		Title:          req.Title,
		Description:    req.Description,
		ExpirationDate: req.ExpirationDate,
		Tag:            req.Tag,
	}

	if err := s.offerStore.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("offerID", offer.ID.String()).
		Str("businessID", business.ID.String()).
		Msg("Offer created")

	return s.GetOffer(ctx, offer.ID)
}

// GetOffer retrieves one offer
func (s *offerServiceImpl) GetOffer(ctx context.Context, id uuid.UUID) (*dto.OfferResponse, error) {
	offer, err := s.offerStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.ToOfferResponse(offer, s.clk.Now()), nil
}

// ListOffers retrieves offers, optionally restricted to one business
func (s *offerServiceImpl) ListOffers(ctx context.Context, businessID *uuid.UUID) ([]*dto.OfferResponse, error) {
	offers, err := s.offerStore.List(ctx, businessID)
	if err != nil {
		return nil, err
	}

	return dto.ToOfferResponses(offers, s.clk.Now()), nil
}

// UpdateOffer updates an offer. Only the authoring business may update it.
func (s *offerServiceImpl) UpdateOffer(ctx context.Context, callerID, offerID uuid.UUID, req *dto.OfferUpdateRequest) (*dto.OfferResponse, error) {
	offer, err := s.authorizedOffer(ctx, callerID, offerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		offer.Title = *req.Title
	}
	if req.Description != nil {
		offer.Description = *req.Description
	}
	if req.ExpirationDate != nil {
		offer.ExpirationDate = *req.ExpirationDate
	}
	if req.Tag != nil {
		offer.Tag = req.Tag
	}

	if err := s.offerStore.Update(ctx, offer); err != nil {
		return nil, err
	}

	return s.GetOffer(ctx, offerID)
}

// SetOfferPaid flips the paid flag, normally on behalf of the external
// payment collaborator's confirmation
func (s *offerServiceImpl) SetOfferPaid(ctx context.Context, callerID, offerID uuid.UUID, paid bool) error {
	if _, err := s.authorizedOffer(ctx, callerID, offerID); err != nil {
		return err
	}

	return s.offerStore.SetPaid(ctx, offerID, paid)
}

// DeleteOffer removes an offer. Only the authoring business may delete it.
func (s *offerServiceImpl) DeleteOffer(ctx context.Context, callerID, offerID uuid.UUID) error {
	if _, err := s.authorizedOffer(ctx, callerID, offerID); err != nil {
		return err
	}

	if err := s.offerStore.Delete(ctx, offerID); err != nil {
		return err
	}

	s.logger.Info().
		Str("offerID", offerID.String()).
		Str("businessID", callerID.String()).
		Msg("Offer deleted")

	return nil
}

func (s *offerServiceImpl) authorizedOffer(ctx context.Context, callerID, offerID uuid.UUID) (*models.Offer, error) {
	offer, err := s.offerStore.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if offer.BusinessID != callerID {
		return nil, apperrors.NewForbiddenError("Only the offer's business can modify it")
	}

	return offer, nil
}
