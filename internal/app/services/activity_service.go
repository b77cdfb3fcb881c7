package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meetapp/backend/internal/app/models"
	"github.com/meetapp/backend/internal/app/models/dto"
	"github.com/meetapp/backend/internal/app/repositories"
	"github.com/meetapp/backend/internal/pkg/apperrors"
	"github.com/meetapp/backend/internal/pkg/clock"
)

// ActivityService defines the interface for activity operations
type ActivityService interface {
	CreateActivity(ctx context.Context, req *dto.ActivityCreateRequest) (*dto.ActivityResponse, error)
	GetActivity(ctx context.Context, id uuid.UUID) (*dto.ActivityResponse, error)
	ListActivities(ctx context.Context, filter repositories.ActivityFilter) ([]dto.ActivityResponse, error)
	GetActivitiesByDate(ctx context.Context, day time.Time) ([]dto.ActivityByDateResponse, error)
	UpdateActivity(ctx context.Context, callerID, activityID uuid.UUID, req *dto.ActivityUpdateRequest) (*dto.ActivityResponse, error)
	DeleteActivity(ctx context.Context, callerID, activityID uuid.UUID) error
	CheckQrCode(ctx context.Context, activityID, businessID uuid.UUID) error
}

// activityServiceImpl implements ActivityService
type activityServiceImpl struct {
	activityStore ActivityStore
	offerStore    OfferStore
	userStore     UserStore
	clk           clock.Clock
	logger        zerolog.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(
	activityStore ActivityStore,
	offerStore OfferStore,
	userStore UserStore,
	clk clock.Clock,
	logger zerolog.Logger,
) ActivityService {
	return &activityServiceImpl{
		activityStore: activityStore,
		offerStore:    offerStore,
		userStore:     userStore,
		clk:           clk,
		logger:        logger,
	}
}

// CreateActivity creates an activity, enrolls the owner as its creator and
// the invitees as members, all in one transaction. Invitee entries that are
// malformed, self-referential or unknown are skipped without failing the
// request.
func (s *activityServiceImpl) CreateActivity(ctx context.Context, req *dto.ActivityCreateRequest) (*dto.ActivityResponse, error) {
	owner, err := s.userStore.GetByID(ctx, req.OwnerID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrUnauthenticated, "User not found")
		}
		return nil, err
	}

	invitees := parseInvitees(req.SelectedPeople, owner.ID)

	activity := &models.Activity{
		OfferID:     req.OfferID,
		OwnerID:     owner.ID,
		Title:       req.Title,
		Description: req.Description,
		DateTime:    req.DateTime,
		PeopleLimit: req.PeopleLimit,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	if err := s.activityStore.CreateWithMembers(ctx, activity, invitees, s.clk.Now()); err != nil {
		s.logger.Error().Err(err).
			Str("ownerID", owner.ID.String()).
			Msg("Failed to create activity")
		return nil, err
	}

	s.logger.Info().
		Str("activityID", activity.ID.String()).
		Str("ownerID", owner.ID.String()).
		Int("invitees", len(invitees)).
		Msg("Activity created")

	created, count, err := s.activityStore.GetByID(ctx, activity.ID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToActivityResponse(created, count)
	return &resp, nil
}

// GetActivity retrieves one activity with its participant count
func (s *activityServiceImpl) GetActivity(ctx context.Context, id uuid.UUID) (*dto.ActivityResponse, error) {
	activity, count, err := s.activityStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.ToActivityResponse(activity, count)
	return &resp, nil
}

// ListActivities retrieves activities matching the filter, soonest first
func (s *activityServiceImpl) ListActivities(ctx context.Context, filter repositories.ActivityFilter) ([]dto.ActivityResponse, error) {
	activities, counts, err := s.activityStore.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, dto.ToActivityResponse(activity, counts[activity.ID]))
	}

	return responses, nil
}

// GetActivitiesByDate retrieves the activities scheduled on the given day,
// with the linked offer's business name where one exists
func (s *activityServiceImpl) GetActivitiesByDate(ctx context.Context, day time.Time) ([]dto.ActivityByDateResponse, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	activities, err := s.activityStore.ListForDay(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ActivityByDateResponse, 0, len(activities))
	for _, activity := range activities {
		resp := dto.ActivityByDateResponse{
			Title:       activity.Title,
			Description: activity.Description,
			DateTime:    activity.DateTime.Format(time.RFC3339),
			PeopleLimit: activity.PeopleLimit,
		}
		if activity.Offer != nil && activity.Offer.Business != nil {
			if activity.Offer.Business.BusinessName != nil {
				resp.BusinessName = *activity.Offer.Business.BusinessName
			} else {
				resp.BusinessName = activity.Offer.Business.UserName
			}
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

// UpdateActivity updates an activity's editable fields. Only the owner may
// update it.
func (s *activityServiceImpl) UpdateActivity(ctx context.Context, callerID, activityID uuid.UUID, req *dto.ActivityUpdateRequest) (*dto.ActivityResponse, error) {
	activity, _, err := s.activityStore.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if activity.OwnerID != callerID {
		return nil, apperrors.NewForbiddenError("Only the activity owner can update it")
	}

	activity.OfferID = req.OfferID
	activity.Title = req.Title
	activity.Description = req.Description
	activity.DateTime = req.DateTime
	activity.PeopleLimit = req.PeopleLimit

	if err := s.activityStore.Update(ctx, activity); err != nil {
		return nil, err
	}

	updated, count, err := s.activityStore.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToActivityResponse(updated, count)
	return &resp, nil
}

// DeleteActivity removes an activity. Only the owner may delete it;
// memberships and messages go with it.
func (s *activityServiceImpl) DeleteActivity(ctx context.Context, callerID, activityID uuid.UUID) error {
	activity, _, err := s.activityStore.GetByID(ctx, activityID)
	if err != nil {
		return err
	}

	if activity.OwnerID != callerID {
		return apperrors.NewForbiddenError("Only the activity owner can delete it")
	}

	if err := s.activityStore.Delete(ctx, activityID); err != nil {
		return err
	}

	s.logger.Info().
		Str("activityID", activityID.String()).
		Str("ownerID", callerID.String()).
		Msg("Activity deleted")

	return nil
}

// CheckQrCode validates the QR code a business scans at redemption time.
// The code is valid when the activity exists, it carries an offer, the offer
// belongs to the scanning business and the offer has not expired. Every
// failure mode reports as a missing resource.
func (s *activityServiceImpl) CheckQrCode(ctx context.Context, activityID, businessID uuid.UUID) error {
	activity, _, err := s.activityStore.GetByID(ctx, activityID)
	if err != nil {
		return err
	}

	if activity.OfferID == nil {
		return apperrors.NewCustomError(apperrors.ErrOfferNotFound, "Activity has no linked offer")
	}

	offer, err := s.offerStore.GetByID(ctx, *activity.OfferID)
	if err != nil {
		return err
	}

	if offer.BusinessID != businessID {
		return apperrors.NewCustomError(apperrors.ErrOfferNotFound, "Offer does not belong to the business")
	}

	if offer.Expired(s.clk.Now()) {
		return apperrors.NewCustomError(apperrors.ErrOfferNotFound, "Offer is expired")
	}

	s.logger.Info().
		Str("activityID", activityID.String()).
		Str("businessID", businessID.String()).
		Msg("QR code validated")

	return nil
}

// parseInvitees converts the raw invitee entries to user IDs, dropping
// malformed values, the owner itself and duplicates
func parseInvitees(raw []string, ownerID uuid.UUID) []uuid.UUID {
	var invitees []uuid.UUID
	seen := make(map[uuid.UUID]bool)

	for _, entry := range raw {
		id, err := uuid.Parse(entry)
		if err != nil || id == ownerID || seen[id] {
			continue
		}
		seen[id] = true
		invitees = append(invitees, id)
	}

	return invitees
}
