package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	ActivityRepository   *ActivityRepository
	MembershipRepository *MembershipRepository
	MessageRepository    *MessageRepository
	OfferRepository      *OfferRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		ActivityRepository:   NewActivityRepository(db),
		MembershipRepository: NewMembershipRepository(db),
		MessageRepository:    NewMessageRepository(db),
		OfferRepository:      NewOfferRepository(db),
	}
}
