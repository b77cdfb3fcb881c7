package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/meetapp/backend/internal/app/models"
)

func strptr(s string) *string { return &s }

// searchFixture enrolls two named users into one activity each, with
// registration dates a year apart.
func searchFixture(t *testing.T) UserService {
	t.Helper()
	store := newMemStore()

	alice := store.addUser("alice")
	alice.Name = strptr("Alice Walker")
	alice.City = strptr("Ankara")
	alice.RegisterDateTime = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	bob := store.addUser("bob")
	bob.Name = strptr("Bob Stone")
	bob.RegisterDateTime = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	padel := store.addActivity(alice.ID, nil)
	store.putMembership(padel.ID, alice.ID, models.RoleCreator, testClock.Now())

	second := store.addActivity(bob.ID, nil)
	store.putMembership(second.ID, bob.ID, models.RoleCreator, testClock.Now().Add(time.Hour))

	return NewUserService(store, store, zerolog.Nop())
}

func TestSearchUsersNoFilterReturnsAllMemberships(t *testing.T) {
	svc := searchFixture(t)

	rows, err := svc.SearchUsers(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "Alice Walker", rows[0].Name)
	require.Equal(t, "Ankara", rows[0].City)
	require.Equal(t, "padel night", rows[0].ActivityName)
	require.Equal(t, testClock.Now().Format(time.RFC3339), rows[0].DateOfJoin)
	require.Equal(t, "Bob Stone", rows[1].Name)
}

func TestSearchUsersByNameIsCaseInsensitiveContains(t *testing.T) {
	svc := searchFixture(t)

	rows, err := svc.SearchUsers(context.Background(), strptr("walk"), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Alice Walker", rows[0].Name)

	rows, err = svc.SearchUsers(context.Background(), strptr("nobody"), nil)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestSearchUsersByRegistrationCutoff(t *testing.T) {
	svc := searchFixture(t)

	// Only Alice registered before mid-2025.
	cutoff := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	rows, err := svc.SearchUsers(context.Background(), nil, &cutoff)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Alice Walker", rows[0].Name)
}
