package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/meetapp/backend/internal/app/models/dto"
	"github.com/meetapp/backend/internal/pkg/apperrors"
)

// stubMembershipService scripts JoinActivity outcomes per activity id.
type stubMembershipService struct {
	joinResults map[uuid.UUID]*dto.JoinActivityResponse
	joinErrs    map[uuid.UUID]error
}

func (s *stubMembershipService) JoinActivity(_ context.Context, activityID, _ uuid.UUID) (*dto.JoinActivityResponse, error) {
	if err, ok := s.joinErrs[activityID]; ok {
		return nil, err
	}
	if result, ok := s.joinResults[activityID]; ok {
		return result, nil
	}
	return nil, apperrors.ErrActivityNotFound
}

func (s *stubMembershipService) LeaveActivity(_ context.Context, _, _ uuid.UUID) error {
	return nil
}

func (s *stubMembershipService) CountMembers(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

func (s *stubMembershipService) ListMembers(_ context.Context, _ uuid.UUID) ([]dto.ActivityMemberResponse, error) {
	return nil, nil
}

func (s *stubMembershipService) IsMember(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return false, nil
}

func newJoinRouter(svc *stubMembershipService, callerID *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	controller := NewActivityController(nil, svc, zerolog.Nop())
	router.POST("/activities/:id/join", func(c *gin.Context) {
		if callerID != nil {
			c.Set("userID", *callerID)
		}
		controller.Join(c)
	})
	return router
}

func doJoin(t *testing.T, router *gin.Engine, activityID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/activities/"+activityID+"/join", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJoinReturnsJoinedResult(t *testing.T) {
	activityID := uuid.New()
	callerID := uuid.New()
	svc := &stubMembershipService{
		joinResults: map[uuid.UUID]*dto.JoinActivityResponse{
			activityID: {Joined: true},
		},
	}

	rec := doJoin(t, newJoinRouter(svc, &callerID), activityID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool                     `json:"success"`
		Data    *dto.JoinActivityResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.True(t, body.Data.Joined)
	require.False(t, body.Data.AlreadyMember)
}

func TestJoinFullActivityReturns400(t *testing.T) {
	activityID := uuid.New()
	callerID := uuid.New()
	svc := &stubMembershipService{
		joinErrs: map[uuid.UUID]error{
			activityID: apperrors.NewCustomError(apperrors.ErrActivityFull, "Activity is full."),
		},
	}

	rec := doJoin(t, newJoinRouter(svc, &callerID), activityID.String())
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, dto.ErrorCodeActivityFull, body.Error.Code)
	require.Equal(t, "Activity is full.", body.Error.Message)
}

func TestJoinUnknownActivityReturns404(t *testing.T) {
	callerID := uuid.New()
	svc := &stubMembershipService{}

	rec := doJoin(t, newJoinRouter(svc, &callerID), uuid.New().String())
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJoinMalformedActivityIDReturns404(t *testing.T) {
	callerID := uuid.New()
	svc := &stubMembershipService{}

	rec := doJoin(t, newJoinRouter(svc, &callerID), "not-a-uuid")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJoinWithoutCallerReturns401(t *testing.T) {
	svc := &stubMembershipService{}

	rec := doJoin(t, newJoinRouter(svc, nil), uuid.New().String())
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJoinUnknownCallerReturns401(t *testing.T) {
	activityID := uuid.New()
	callerID := uuid.New()
	svc := &stubMembershipService{
		joinErrs: map[uuid.UUID]error{
			activityID: apperrors.NewCustomError(apperrors.ErrUnauthenticated, "User not found"),
		},
	}

	rec := doJoin(t, newJoinRouter(svc, &callerID), activityID.String())
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
