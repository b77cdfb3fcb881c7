package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meetapp/backend/internal/app/models/dto"
	"github.com/meetapp/backend/internal/pkg/apperrors"
	"github.com/meetapp/backend/internal/pkg/clock"
	"github.com/meetapp/backend/internal/pkg/metrics"
)

// MembershipService defines the interface for the activity join workflow
type MembershipService interface {
	JoinActivity(ctx context.Context, activityID, userID uuid.UUID) (*dto.JoinActivityResponse, error)
	LeaveActivity(ctx context.Context, activityID, userID uuid.UUID) error
	CountMembers(ctx context.Context, activityID uuid.UUID) (int, error)
	ListMembers(ctx context.Context, activityID uuid.UUID) ([]dto.ActivityMemberResponse, error)
	IsMember(ctx context.Context, activityID, userID uuid.UUID) (bool, error)
}

// membershipServiceImpl implements MembershipService
type membershipServiceImpl struct {
	activityStore   ActivityStore
	membershipStore MembershipStore
	userStore       UserStore
	clk             clock.Clock
	metrics         *metrics.Registry
	logger          zerolog.Logger
}

// NewMembershipService creates a new MembershipService. metricsReg may be nil.
func NewMembershipService(
	activityStore ActivityStore,
	membershipStore MembershipStore,
	userStore UserStore,
	clk clock.Clock,
	metricsReg *metrics.Registry,
	logger zerolog.Logger,
) MembershipService {
	return &membershipServiceImpl{
		activityStore:   activityStore,
		membershipStore: membershipStore,
		userStore:       userStore,
		clk:             clk,
		metrics:         metricsReg,
		logger:          logger,
	}
}

// JoinActivity adds the caller to an activity. Joining an activity the
// caller is already a member of is a no-op reported as Joined=false, not an
// error. A full activity rejects the join with apperrors.ErrActivityFull.
func (s *membershipServiceImpl) JoinActivity(ctx context.Context, activityID, userID uuid.UUID) (*dto.JoinActivityResponse, error) {
	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			s.countJoin("unknown_user")
			return nil, apperrors.NewCustomError(apperrors.ErrUnauthenticated, "User not found")
		}
		return nil, err
	}

	joined, err := s.membershipStore.Join(ctx, activityID, userID, s.clk.Now())
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrActivityNotFound):
			s.countJoin("not_found")
		case apperrors.Is(err, apperrors.ErrActivityFull):
			s.countJoin("full")
			s.logger.Info().
				Str("activityID", activityID.String()).
				Str("userID", userID.String()).
				Msg("Join rejected, activity is full")
		default:
			s.logger.Error().Err(err).
				Str("activityID", activityID.String()).
				Str("userID", userID.String()).
				Msg("Failed to join activity")
		}
		return nil, err
	}

	if joined {
		s.countJoin("joined")
	} else {
		s.countJoin("already_member")
	}

	return &dto.JoinActivityResponse{
		Joined:        joined,
		AlreadyMember: !joined,
	}, nil
}

// LeaveActivity removes the caller's membership row. Missing user, activity
// or membership all surface as bad requests, matching the join workflow's
// inverse contract.
func (s *membershipServiceImpl) LeaveActivity(ctx context.Context, activityID, userID uuid.UUID) error {
	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewBadRequestError("User or activity not found")
		}
		return err
	}

	exists, err := s.activityStore.ExistsByID(ctx, activityID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewBadRequestError("User or activity not found")
	}

	if err := s.membershipStore.Remove(ctx, activityID, userID); err != nil {
		if apperrors.Is(err, apperrors.ErrMembershipNotFound) {
			return apperrors.NewBadRequestError("User is not a member of this activity")
		}
		return err
	}

	s.logger.Info().
		Str("activityID", activityID.String()).
		Str("userID", userID.String()).
		Msg("User left activity")

	return nil
}

// CountMembers returns the number of members for an activity, creator included
func (s *membershipServiceImpl) CountMembers(ctx context.Context, activityID uuid.UUID) (int, error) {
	exists, err := s.activityStore.ExistsByID(ctx, activityID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, apperrors.ErrActivityNotFound
	}

	return s.membershipStore.Count(ctx, activityID)
}

// ListMembers returns the activity's membership rows, earliest join first
func (s *membershipServiceImpl) ListMembers(ctx context.Context, activityID uuid.UUID) ([]dto.ActivityMemberResponse, error) {
	exists, err := s.activityStore.ExistsByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrActivityNotFound
	}

	memberships, err := s.membershipStore.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ActivityMemberResponse, 0, len(memberships))
	for _, m := range memberships {
		responses = append(responses, dto.ToActivityMemberResponse(m))
	}

	return responses, nil
}

// IsMember reports whether the user holds a membership row on the activity
func (s *membershipServiceImpl) IsMember(ctx context.Context, activityID, userID uuid.UUID) (bool, error) {
	exists, err := s.activityStore.ExistsByID(ctx, activityID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apperrors.ErrActivityNotFound
	}

	return s.membershipStore.IsMember(ctx, activityID, userID)
}

func (s *membershipServiceImpl) countJoin(outcome string) {
	if s.metrics != nil {
		s.metrics.JoinAttemptsTotal.WithLabelValues(outcome).Inc()
	}
}
