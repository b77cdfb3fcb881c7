package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/meetapp/backend/internal/app/models"
	"github.com/meetapp/backend/internal/app/models/dto"
	"github.com/meetapp/backend/internal/pkg/apperrors"
	"github.com/meetapp/backend/internal/pkg/auth"
	"github.com/meetapp/backend/internal/pkg/clock"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegistrationRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, email, password string) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userStore  UserStore
	tokenStore RefreshTokenStore
	jwtService *auth.JWTService
	clk        clock.Clock
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userStore UserStore,
	tokenStore RefreshTokenStore,
	jwtService *auth.JWTService,
	clk clock.Clock,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userStore:  userStore,
		tokenStore: tokenStore,
		jwtService: jwtService,
		clk:        clk,
		logger:     logger,
	}
}

// Register creates a new account and issues its first token pair
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegistrationRequest) (*dto.TokenResponse, error) {
	exists, err := s.userStore.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Email is already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserName:         req.UserName,
		Name:             req.Name,
		Email:            req.Email,
		Password:         hash,
		Type:             models.UserType(req.Type),
		RegisterDateTime: s.clk.Now(),
		City:             req.City,
		BusinessName:     req.BusinessName,
		BusinessAddress:  req.BusinessAddress,
		CIF:              req.CIF,
		GoogleMapsURL:    req.GoogleMapsURL,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
	}
	if req.BusinessCategory != nil {
		category := models.BusinessCategory(*req.BusinessCategory)
		user.BusinessCategory = &category
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("userID", user.ID.String()).
		Str("email", user.Email).
		Msg("User registered")

	return s.issueTokens(ctx, user)
}

// Login exchanges credentials for a token pair
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token and issues a fresh token pair
func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, err := s.tokenStore.Resolve(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	accessToken, newRefresh, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if _, err := s.tokenStore.Rotate(ctx, refreshToken, newRefresh, s.jwtService.RefreshTokenTTL()); err != nil {
		return nil, err
	}

	userResp := dto.ToUserResponse(user)
	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     newRefresh,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		TokenType:        "Bearer",
		User:             &userResp,
	}, nil
}

// Logout revokes a refresh token. Revoking an unknown token is a no-op.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenStore.Revoke(ctx, refreshToken)
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokenStore.Save(ctx, refreshToken, user.ID, s.jwtService.RefreshTokenTTL()); err != nil {
		return nil, err
	}

	userResp := dto.ToUserResponse(user)
	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		TokenType:        "Bearer",
		User:             &userResp,
	}, nil
}
