package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/meetapp/backend/internal/app/models"
	"github.com/meetapp/backend/internal/app/models/dto"
	"github.com/meetapp/backend/internal/pkg/apperrors"
	"github.com/meetapp/backend/internal/pkg/clock"
)

var testClock = clock.Fixed{Instant: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

func newMembershipService(store *memStore) MembershipService {
	return NewMembershipService(memActivityStore{store}, store, store, testClock, nil, zerolog.Nop())
}

func limit(n uint32) *uint32 { return &n }

func TestJoinActivityIdempotent(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	joiner := store.addUser("joiner")
	activity := store.addActivity(owner.ID, limit(10))
	store.putMembership(activity.ID, owner.ID, models.RoleCreator, testClock.Now())

	svc := newMembershipService(store)
	ctx := context.Background()

	resp, err := svc.JoinActivity(ctx, activity.ID, joiner.ID)
	require.NoError(t, err)
	require.True(t, resp.Joined)
	require.False(t, resp.AlreadyMember)

	count, err := svc.CountMembers(ctx, activity.ID)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	// Second join is a no-op, not an error
	resp, err = svc.JoinActivity(ctx, activity.ID, joiner.ID)
	require.NoError(t, err)
	require.False(t, resp.Joined)
	require.True(t, resp.AlreadyMember)

	count, err = svc.CountMembers(ctx, activity.ID)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestJoinActivityCapacityBoundary(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	u1 := store.addUser("u1")
	u2 := store.addUser("u2")
	u3 := store.addUser("u3")
	activity := store.addActivity(owner.ID, limit(2))

	svc := newMembershipService(store)
	ctx := context.Background()

	resp, err := svc.JoinActivity(ctx, activity.ID, u1.ID)
	require.NoError(t, err)
	require.True(t, resp.Joined)

	resp, err = svc.JoinActivity(ctx, activity.ID, u2.ID)
	require.NoError(t, err)
	require.True(t, resp.Joined)

	_, err = svc.JoinActivity(ctx, activity.ID, u3.ID)
	require.ErrorIs(t, err, apperrors.ErrActivityFull)

	count, err := svc.CountMembers(ctx, activity.ID)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestJoinActivityUnknownActivity(t *testing.T) {
	store := newMemStore()
	user := store.addUser("u1")

	svc := newMembershipService(store)

	_, err := svc.JoinActivity(context.Background(), uuid.New(), user.ID)
	require.ErrorIs(t, err, apperrors.ErrActivityNotFound)
}

func TestJoinActivityUnknownCaller(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	activity := store.addActivity(owner.ID, limit(5))

	svc := newMembershipService(store)

	_, err := svc.JoinActivity(context.Background(), activity.ID, uuid.New())
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestLeaveThenRejoin(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	joiner := store.addUser("joiner")
	activity := store.addActivity(owner.ID, limit(3))

	svc := newMembershipService(store)
	ctx := context.Background()

	resp, err := svc.JoinActivity(ctx, activity.ID, joiner.ID)
	require.NoError(t, err)
	require.True(t, resp.Joined)

	require.NoError(t, svc.LeaveActivity(ctx, activity.ID, joiner.ID))

	count, err := svc.CountMembers(ctx, activity.ID)
	require.NoError(t, err)
	require.Equal(t, 0, count)

	// Rejoin after leaving produces a fresh membership
	resp, err = svc.JoinActivity(ctx, activity.ID, joiner.ID)
	require.NoError(t, err)
	require.True(t, resp.Joined)
}

func TestLeaveActivityNotAMember(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	outsider := store.addUser("outsider")
	activity := store.addActivity(owner.ID, nil)

	svc := newMembershipService(store)

	err := svc.LeaveActivity(context.Background(), activity.ID, outsider.ID)
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestCreateActivityEnrollsCreatorAndInvitees(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	friend1 := store.addUser("friend1")
	friend2 := store.addUser("friend2")

	activitySvc := NewActivityService(memActivityStore{store}, memOfferStore{store}, store, testClock, zerolog.Nop())
	membershipSvc := newMembershipService(store)
	ctx := context.Background()

	resp, err := activitySvc.CreateActivity(ctx, &dto.ActivityCreateRequest{
		OwnerID:        owner.ID,
		Title:          "board games",
		Description:    "bring snacks",
		DateTime:       time.Date(2026, 4, 2, 19, 0, 0, 0, time.UTC),
		SelectedPeople: []string{friend1.ID.String(), friend2.ID.String()},
	})
	require.NoError(t, err)
	require.Equal(t, 3, resp.ParticipantCount)

	members, err := membershipSvc.ListMembers(ctx, resp.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)

	roles := make(map[uuid.UUID]string)
	for _, member := range members {
		roles[member.UserID] = member.UserRole
	}
	require.Equal(t, "CREATOR", roles[owner.ID])
	require.Equal(t, "MEMBER", roles[friend1.ID])
	require.Equal(t, "MEMBER", roles[friend2.ID])
}

func TestCreateActivitySkipsInvalidInvitees(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	friend := store.addUser("friend")

	activitySvc := NewActivityService(memActivityStore{store}, memOfferStore{store}, store, testClock, zerolog.Nop())
	ctx := context.Background()

	resp, err := activitySvc.CreateActivity(ctx, &dto.ActivityCreateRequest{
		OwnerID:     owner.ID,
		Title:       "hike",
		Description: "early start",
		DateTime:    time.Date(2026, 4, 3, 8, 0, 0, 0, time.UTC),
		SelectedPeople: []string{
			"not-a-uuid",          // malformed
			owner.ID.String(),     // self-invite
			uuid.New().String(),   // nonexistent user
			friend.ID.String(),    // valid
			friend.ID.String(),    // duplicate
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.ParticipantCount)
}
