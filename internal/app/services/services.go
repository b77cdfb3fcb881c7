package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meetapp/backend/internal/app/models"
	"github.com/meetapp/backend/internal/app/repositories"
)

// The services in this package depend on the narrow store interfaces below
// instead of the concrete repository types, so unit tests can substitute
// in-memory fakes. The repositories package satisfies all of them.

// UserStore is the persistence surface for user accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListBusinesses(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityStore is the persistence surface for activities
type ActivityStore interface {
	CreateWithMembers(ctx context.Context, activity *models.Activity, invitees []uuid.UUID, now time.Time) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, int, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter repositories.ActivityFilter) ([]*models.Activity, map[uuid.UUID]int, error)
	ListForDay(ctx context.Context, dayStart, dayEnd time.Time) ([]*models.Activity, error)
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MembershipStore is the persistence surface for activity memberships
type MembershipStore interface {
	Join(ctx context.Context, activityID, userID uuid.UUID, joinedAt time.Time) (bool, error)
	IsMember(ctx context.Context, activityID, userID uuid.UUID) (bool, error)
	Count(ctx context.Context, activityID uuid.UUID) (int, error)
	Remove(ctx context.Context, activityID, userID uuid.UUID) error
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*models.UserActivity, error)
	Search(ctx context.Context, filter repositories.MembershipSearchFilter) ([]*models.UserActivity, error)
}

// MessageStore is the persistence surface for activity chat messages
type MessageStore interface {
	Create(ctx context.Context, message *models.ActivityMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ActivityMessage, error)
	GetByActivityID(ctx context.Context, activityID uuid.UUID) ([]*models.ActivityMessage, error)
	GetAll(ctx context.Context) ([]*models.ActivityMessage, error)
}

// OfferStore is the persistence surface for offers
type OfferStore interface {
	Create(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	List(ctx context.Context, businessID *uuid.UUID) ([]*models.Offer, error)
	Update(ctx context.Context, offer *models.Offer) error
	SetPaid(ctx context.Context, id uuid.UUID, paid bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RefreshTokenStore keeps issued refresh tokens
type RefreshTokenStore interface {
	Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
	Rotate(ctx context.Context, oldToken, newToken string, ttl time.Duration) (uuid.UUID, error)
	Revoke(ctx context.Context, token string) error
}
