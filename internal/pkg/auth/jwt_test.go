package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meetapp/backend/internal/app/models"
)

func newTestService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "meetapp.test",
	})
}

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		UserName: "ana",
		Email:    "ana@example.com",
		Type:     models.UserTypeStudent,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(time.Hour)
	user := testUser()

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.Equal(t, int(time.Hour.Seconds()), expiresIn)
	require.Equal(t, int((720 * time.Hour).Seconds()), refreshExpiresIn)

	// Refresh tokens are opaque handles, not JWTs
	_, err = uuid.Parse(refreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateAndExtractClaims(accessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Email, claims.Email)
	require.Equal(t, int16(models.UserTypeStudent), claims.UserType)
	require.Equal(t, "meetapp.test", claims.Issuer)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestService(-time.Minute)

	accessToken, _, _, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(accessToken)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := newTestService(time.Hour)

	accessToken, _, _, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{
		SecretKey:       "a-different-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: time.Hour,
	})
	_, err = other.ValidateToken(accessToken)
	require.Error(t, err)
}

func TestValidateAndExtractClaimsEmptyToken(t *testing.T) {
	svc := newTestService(time.Hour)

	_, err := svc.ValidateAndExtractClaims("")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc123")
	require.NoError(t, err)
	require.Equal(t, "abc123", token)

	// A raw token without the prefix passes through unchanged
	token, err = ExtractBearerToken("abc123")
	require.NoError(t, err)
	require.Equal(t, "abc123", token)

	_, err = ExtractBearerToken("")
	require.ErrorIs(t, err, ErrInvalidFormat)
}
