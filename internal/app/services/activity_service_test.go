package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/meetapp/backend/internal/pkg/apperrors"
)

func newActivityService(store *memStore) ActivityService {
	return NewActivityService(memActivityStore{store}, memOfferStore{store}, store, testClock, zerolog.Nop())
}

func TestCheckQrCodeAcceptsLinkedUnexpiredOffer(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	business := store.addUser("cafe")
	offer := store.addOffer(business.ID, testClock.Now().AddDate(0, 1, 0))
	activity := store.addActivity(owner.ID, nil)
	activity.OfferID = &offer.ID

	svc := newActivityService(store)

	require.NoError(t, svc.CheckQrCode(context.Background(), activity.ID, business.ID))
}

func TestCheckQrCodeUnknownActivity(t *testing.T) {
	store := newMemStore()
	business := store.addUser("cafe")

	svc := newActivityService(store)

	err := svc.CheckQrCode(context.Background(), uuid.New(), business.ID)
	require.ErrorIs(t, err, apperrors.ErrActivityNotFound)
}

func TestCheckQrCodeActivityWithoutOffer(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	business := store.addUser("cafe")
	activity := store.addActivity(owner.ID, nil)

	svc := newActivityService(store)

	err := svc.CheckQrCode(context.Background(), activity.ID, business.ID)
	require.ErrorIs(t, err, apperrors.ErrOfferNotFound)
}

func TestCheckQrCodeWrongBusiness(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	business := store.addUser("cafe")
	other := store.addUser("bar")
	offer := store.addOffer(business.ID, testClock.Now().AddDate(0, 1, 0))
	activity := store.addActivity(owner.ID, nil)
	activity.OfferID = &offer.ID

	svc := newActivityService(store)

	err := svc.CheckQrCode(context.Background(), activity.ID, other.ID)
	require.ErrorIs(t, err, apperrors.ErrOfferNotFound)
}

func TestCheckQrCodeExpiredOffer(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	business := store.addUser("cafe")
	offer := store.addOffer(business.ID, testClock.Now().AddDate(0, 0, -2))
	activity := store.addActivity(owner.ID, nil)
	activity.OfferID = &offer.ID

	svc := newActivityService(store)

	err := svc.CheckQrCode(context.Background(), activity.ID, business.ID)
	require.ErrorIs(t, err, apperrors.ErrOfferNotFound)
}

func TestCheckQrCodeOfferValidThroughExpirationDay(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("owner")
	business := store.addUser("cafe")

	// Expiration earlier the same day still passes; the offer lapses at
	// the end of its expiration day.
	expiration := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	offer := store.addOffer(business.ID, expiration)
	activity := store.addActivity(owner.ID, nil)
	activity.OfferID = &offer.ID

	svc := newActivityService(store)

	require.NoError(t, svc.CheckQrCode(context.Background(), activity.ID, business.ID))
}
