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
)

// UserService defines the interface for user profile operations
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	ListBusinesses(ctx context.Context) ([]dto.BusinessInfoResponse, error)
	SearchUsers(ctx context.Context, name *string, registeredBefore *time.Time) ([]dto.UserSearchResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UserUpdateRequest) (*dto.UserResponse, error)
	UpdateBusiness(ctx context.Context, id uuid.UUID, req *dto.BusinessUpdateRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userStore       UserStore
	membershipStore MembershipStore
	logger          zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userStore UserStore, membershipStore MembershipStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userStore:       userStore,
		membershipStore: membershipStore,
		logger:          logger,
	}
}

// GetUser retrieves a user profile
func (s *userServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// ListBusinesses retrieves all business accounts
func (s *userServiceImpl) ListBusinesses(ctx context.Context) ([]dto.BusinessInfoResponse, error) {
	businesses, err := s.userStore.ListBusinesses(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.BusinessInfoResponse, 0, len(businesses))
	for _, business := range businesses {
		responses = append(responses, dto.ToBusinessInfoResponse(business))
	}

	return responses, nil
}

// SearchUsers retrieves activity members matching the filters, one row per
// membership. A nil name matches every member; a nil cutoff matches every
// registration date.
func (s *userServiceImpl) SearchUsers(ctx context.Context, name *string, registeredBefore *time.Time) ([]dto.UserSearchResponse, error) {
	memberships, err := s.membershipStore.Search(ctx, repositories.MembershipSearchFilter{
		Name:             name,
		RegisteredBefore: registeredBefore,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserSearchResponse, 0, len(memberships))
	for _, membership := range memberships {
		responses = append(responses, dto.ToUserSearchResponse(membership))
	}

	return responses, nil
}

// UpdateUser updates a user's profile fields
func (s *userServiceImpl) UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UserUpdateRequest) (*dto.UserResponse, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = req.Name
	}
	if req.City != nil {
		user.City = req.City
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = req.ProfilePicture
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// UpdateBusiness updates the business fields of a business account
func (s *userServiceImpl) UpdateBusiness(ctx context.Context, id uuid.UUID, req *dto.BusinessUpdateRequest) (*dto.UserResponse, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Type != models.UserTypeBusiness {
		return nil, apperrors.NewForbiddenError("Account is not a business")
	}

	if req.BusinessName != nil {
		user.BusinessName = req.BusinessName
	}
	if req.BusinessAddress != nil {
		user.BusinessAddress = req.BusinessAddress
	}
	if req.BusinessCategory != nil {
		category := models.BusinessCategory(*req.BusinessCategory)
		user.BusinessCategory = &category
	}
	if req.GoogleMapsURL != nil {
		user.GoogleMapsURL = req.GoogleMapsURL
	}
	if req.Latitude != nil {
		user.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		user.Longitude = req.Longitude
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// DeleteUser removes an account; memberships and owned activities cascade
func (s *userServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.userStore.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("userID", id.String()).Msg("User deleted")
	return nil
}
