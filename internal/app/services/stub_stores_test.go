package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meetapp/backend/internal/app/models"
	"github.com/meetapp/backend/internal/app/repositories"
	"github.com/meetapp/backend/internal/pkg/apperrors"
)

// memStore is an in-memory stand-in for the Postgres repositories. It
// mirrors their observable behavior, including the join workflow's
// capacity and duplicate handling.
type memStore struct {
	users       map[uuid.UUID]*models.User
	activities  map[uuid.UUID]*models.Activity
	memberships map[uuid.UUID]map[uuid.UUID]*models.UserActivity
	messages    []*models.ActivityMessage
	offers      map[uuid.UUID]*models.Offer
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[uuid.UUID]*models.User),
		activities:  make(map[uuid.UUID]*models.Activity),
		memberships: make(map[uuid.UUID]map[uuid.UUID]*models.UserActivity),
		offers:      make(map[uuid.UUID]*models.Offer),
	}
}

func (m *memStore) addUser(name string) *models.User {
	user := &models.User{
		ID:       uuid.New(),
		UserName: name,
		Email:    name + "@example.com",
		Type:     models.UserTypeStudent,
	}
	m.users[user.ID] = user
	return user
}

func (m *memStore) addActivity(ownerID uuid.UUID, peopleLimit *uint32) *models.Activity {
	activity := &models.Activity{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       "padel night",
		Description: "casual match",
		DateTime:    time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC),
		PeopleLimit: peopleLimit,
	}
	m.activities[activity.ID] = activity
	return activity
}

func (m *memStore) addOffer(businessID uuid.UUID, expiration time.Time) *models.Offer {
	offer := &models.Offer{
		ID:             uuid.New(),
		BusinessID:     businessID,
		Title:          "two for one",
		Description:    "show the code at the till",
		ExpirationDate: expiration,
	}
	m.offers[offer.ID] = offer
	return offer
}

// UserStore

func (m *memStore) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	m.users[user.ID] = user
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memStore) ListBusinesses(ctx context.Context) ([]*models.User, error) {
	var businesses []*models.User
	for _, user := range m.users {
		if user.Type == models.UserTypeBusiness {
			businesses = append(businesses, user)
		}
	}
	return businesses, nil
}

func (m *memStore) Update(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *memStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// ActivityStore

func (m *memStore) CreateWithMembers(ctx context.Context, activity *models.Activity, invitees []uuid.UUID, now time.Time) error {
	activity.ID = uuid.New()
	m.activities[activity.ID] = activity

	m.putMembership(activity.ID, activity.OwnerID, models.RoleCreator, now)
	for _, inviteeID := range invitees {
		if _, ok := m.users[inviteeID]; !ok {
			continue
		}
		if m.hasMembership(activity.ID, inviteeID) {
			continue
		}
		m.putMembership(activity.ID, inviteeID, models.RoleMember, now)
	}

	return nil
}

func (m *memStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.activities[id]
	return ok, nil
}

func (m *memStore) List(ctx context.Context, filter repositories.ActivityFilter) ([]*models.Activity, map[uuid.UUID]int, error) {
	var activities []*models.Activity
	counts := make(map[uuid.UUID]int)
	for _, activity := range m.activities {
		if filter.OwnerID != nil && activity.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.MemberID != nil && !m.hasMembership(activity.ID, *filter.MemberID) {
			continue
		}
		activities = append(activities, activity)
		counts[activity.ID] = len(m.memberships[activity.ID])
	}
	return activities, counts, nil
}

func (m *memStore) ListForDay(ctx context.Context, dayStart, dayEnd time.Time) ([]*models.Activity, error) {
	var activities []*models.Activity
	for _, activity := range m.activities {
		if !activity.DateTime.Before(dayStart) && activity.DateTime.Before(dayEnd) {
			activities = append(activities, activity)
		}
	}
	return activities, nil
}

func (m *memStore) UpdateActivity(ctx context.Context, activity *models.Activity) error {
	if _, ok := m.activities[activity.ID]; !ok {
		return apperrors.ErrActivityNotFound
	}
	m.activities[activity.ID] = activity
	return nil
}

func (m *memStore) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.activities[id]; !ok {
		return apperrors.ErrActivityNotFound
	}
	delete(m.activities, id)
	delete(m.memberships, id)
	return nil
}

// MembershipStore

func (m *memStore) Join(ctx context.Context, activityID, userID uuid.UUID, joinedAt time.Time) (bool, error) {
	activity, ok := m.activities[activityID]
	if !ok {
		return false, apperrors.ErrActivityNotFound
	}

	if m.hasMembership(activityID, userID) {
		return false, nil
	}

	if activity.PeopleLimit != nil {
		count := len(m.memberships[activityID])
		if uint32(count)+1 > *activity.PeopleLimit {
			return false, apperrors.ErrActivityFull
		}
	}

	m.putMembership(activityID, userID, models.RoleMember, joinedAt)
	return true, nil
}

func (m *memStore) IsMember(ctx context.Context, activityID, userID uuid.UUID) (bool, error) {
	return m.hasMembership(activityID, userID), nil
}

func (m *memStore) Count(ctx context.Context, activityID uuid.UUID) (int, error) {
	return len(m.memberships[activityID]), nil
}

func (m *memStore) Remove(ctx context.Context, activityID, userID uuid.UUID) error {
	if !m.hasMembership(activityID, userID) {
		return apperrors.ErrMembershipNotFound
	}
	delete(m.memberships[activityID], userID)
	return nil
}

func (m *memStore) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*models.UserActivity, error) {
	var memberships []*models.UserActivity
	for _, membership := range m.memberships[activityID] {
		withUser := *membership
		withUser.User = m.users[membership.UserID]
		memberships = append(memberships, &withUser)
	}
	sort.Slice(memberships, func(i, j int) bool {
		return memberships[i].JoinedAt.Before(memberships[j].JoinedAt)
	})
	return memberships, nil
}

func (m *memStore) Search(ctx context.Context, filter repositories.MembershipSearchFilter) ([]*models.UserActivity, error) {
	var memberships []*models.UserActivity
	for activityID, rows := range m.memberships {
		for _, membership := range rows {
			user := m.users[membership.UserID]
			if user == nil {
				continue
			}
			if filter.Name != nil {
				if user.Name == nil || !strings.Contains(strings.ToLower(*user.Name), strings.ToLower(*filter.Name)) {
					continue
				}
			}
			if filter.RegisteredBefore != nil && user.RegisterDateTime.After(*filter.RegisteredBefore) {
				continue
			}
			withRelations := *membership
			withRelations.User = user
			withRelations.Activity = m.activities[activityID]
			memberships = append(memberships, &withRelations)
		}
	}
	sort.Slice(memberships, func(i, j int) bool {
		return memberships[i].JoinedAt.Before(memberships[j].JoinedAt)
	})
	return memberships, nil
}

// MessageStore

func (m *memStore) CreateMessage(ctx context.Context, message *models.ActivityMessage) error {
	message.ID = uuid.New()
	m.messages = append(m.messages, message)
	return nil
}

func (m *memStore) GetMessageByID(ctx context.Context, id uuid.UUID) (*models.ActivityMessage, error) {
	for _, message := range m.messages {
		if message.ID == id {
			return message, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (m *memStore) GetByActivityID(ctx context.Context, activityID uuid.UUID) ([]*models.ActivityMessage, error) {
	var messages []*models.ActivityMessage
	for _, message := range m.messages {
		if message.ActivityID == activityID {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

func (m *memStore) GetAll(ctx context.Context) ([]*models.ActivityMessage, error) {
	return m.messages, nil
}

func (m *memStore) hasMembership(activityID, userID uuid.UUID) bool {
	_, ok := m.memberships[activityID][userID]
	return ok
}

func (m *memStore) putMembership(activityID, userID uuid.UUID, role models.MembershipRole, joinedAt time.Time) {
	if m.memberships[activityID] == nil {
		m.memberships[activityID] = make(map[uuid.UUID]*models.UserActivity)
	}
	m.memberships[activityID][userID] = &models.UserActivity{
		ActivityID: activityID,
		UserID:     userID,
		JoinedAt:   joinedAt,
		UserRole:   role,
	}
}

// memActivityStore adapts memStore to the ActivityStore interface; the
// method names collide with the user store's otherwise.
type memActivityStore struct {
	m *memStore
}

func (a memActivityStore) CreateWithMembers(ctx context.Context, activity *models.Activity, invitees []uuid.UUID, now time.Time) error {
	return a.m.CreateWithMembers(ctx, activity, invitees, now)
}

func (a memActivityStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, int, error) {
	activity, ok := a.m.activities[id]
	if !ok {
		return nil, 0, apperrors.ErrActivityNotFound
	}
	return activity, len(a.m.memberships[id]), nil
}

func (a memActivityStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return a.m.ExistsByID(ctx, id)
}

func (a memActivityStore) List(ctx context.Context, filter repositories.ActivityFilter) ([]*models.Activity, map[uuid.UUID]int, error) {
	return a.m.List(ctx, filter)
}

func (a memActivityStore) ListForDay(ctx context.Context, dayStart, dayEnd time.Time) ([]*models.Activity, error) {
	return a.m.ListForDay(ctx, dayStart, dayEnd)
}

func (a memActivityStore) Update(ctx context.Context, activity *models.Activity) error {
	return a.m.UpdateActivity(ctx, activity)
}

func (a memActivityStore) Delete(ctx context.Context, id uuid.UUID) error {
	return a.m.DeleteActivity(ctx, id)
}

// memMessageStore adapts memStore to the MessageStore interface
type memMessageStore struct {
	m *memStore
}

func (s memMessageStore) Create(ctx context.Context, message *models.ActivityMessage) error {
	return s.m.CreateMessage(ctx, message)
}

func (s memMessageStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ActivityMessage, error) {
	return s.m.GetMessageByID(ctx, id)
}

func (s memMessageStore) GetByActivityID(ctx context.Context, activityID uuid.UUID) ([]*models.ActivityMessage, error) {
	return s.m.GetByActivityID(ctx, activityID)
}

func (s memMessageStore) GetAll(ctx context.Context) ([]*models.ActivityMessage, error) {
	return s.m.GetAll(ctx)
}

// memOfferStore adapts memStore to the OfferStore interface
type memOfferStore struct {
	m *memStore
}

func (o memOfferStore) Create(ctx context.Context, offer *models.Offer) error {
	offer.ID = uuid.New()
	o.m.offers[offer.ID] = offer
	return nil
}

func (o memOfferStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	offer, ok := o.m.offers[id]
	if !ok {
		return nil, apperrors.ErrOfferNotFound
	}
	return offer, nil
}

func (o memOfferStore) List(ctx context.Context, businessID *uuid.UUID) ([]*models.Offer, error) {
	var offers []*models.Offer
	for _, offer := range o.m.offers {
		if businessID != nil && offer.BusinessID != *businessID {
			continue
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

func (o memOfferStore) Update(ctx context.Context, offer *models.Offer) error {
	if _, ok := o.m.offers[offer.ID]; !ok {
		return apperrors.ErrOfferNotFound
	}
	o.m.offers[offer.ID] = offer
	return nil
}

func (o memOfferStore) SetPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	offer, ok := o.m.offers[id]
	if !ok {
		return apperrors.ErrOfferNotFound
	}
	offer.Paid = paid
	return nil
}

func (o memOfferStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := o.m.offers[id]; !ok {
		return apperrors.ErrOfferNotFound
	}
	delete(o.m.offers, id)
	return nil
}
