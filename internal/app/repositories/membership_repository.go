package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meetapp/backend/internal/app/models"
	"github.com/meetapp/backend/internal/db"
	"github.com/meetapp/backend/internal/pkg/apperrors"
	"github.com/meetapp/backend/internal/pkg/dberrors"
)

// MembershipSearchFilter narrows the membership search. Nil fields match
// everything.
type MembershipSearchFilter struct {
	// Name is a case-insensitive substring match on the member's name
	Name *string
	// RegisteredBefore keeps members whose account existed at that instant
	RegisteredBefore *time.Time
}

// MembershipRepository handles database operations for activity memberships
type MembershipRepository struct {
	db *pgxpool.Pool
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Join adds userID as a member of the activity. It returns true when a new
// membership row was written and false when the user was already a member.
//
// The capacity check and the insert run in one transaction holding a row
// lock on the activity, so two concurrent joins for the last seat cannot
// both pass the count. Returns apperrors.ErrActivityNotFound when the
// activity does not exist and apperrors.ErrActivityFull when the limit is
// already reached.
func (r *MembershipRepository) Join(ctx context.Context, activityID, userID uuid.UUID, joinedAt time.Time) (bool, error) {
	var joined bool

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var peopleLimit *uint32
		err := tx.QueryRow(ctx,
			`SELECT people_limit FROM activities WHERE id = $1 FOR UPDATE`,
			activityID,
		).Scan(&peopleLimit)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.ErrActivityNotFound
			}
			return fmt.Errorf("error locking activity row: %w", err)
		}

		var exists int
		err = tx.QueryRow(ctx,
			`SELECT 1 FROM user_activities WHERE activity_id = $1 AND user_id = $2`,
			activityID, userID,
		).Scan(&exists)
		if err == nil {
			joined = false
			return nil
		}
		if err != pgx.ErrNoRows {
			return fmt.Errorf("error checking membership: %w", err)
		}

		if peopleLimit != nil {
			var count int
			err = tx.QueryRow(ctx,
				`SELECT COUNT(*) FROM user_activities WHERE activity_id = $1`,
				activityID,
			).Scan(&count)
			if err != nil {
				return fmt.Errorf("error counting members: %w", err)
			}
			if uint32(count)+1 > *peopleLimit {
				return apperrors.ErrActivityFull
			}
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_activities (activity_id, user_id, user_role, joined_at)
			VALUES ($1, $2, $3, $4)
		`, activityID, userID, models.RoleMember, joinedAt)
		if err != nil {
			// Composite primary key backstop; the row lock should already
			// serialize competing joins.
			if dberrors.IsUniqueViolation(err) {
				joined = false
				return nil
			}
			return fmt.Errorf("error inserting membership: %w", err)
		}

		joined = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return joined, nil
}

// IsMember checks if a user holds a membership row for the activity
func (r *MembershipRepository) IsMember(ctx context.Context, activityID, userID uuid.UUID) (bool, error) {
	var exists int
	err := r.db.QueryRow(ctx,
		`SELECT 1 FROM user_activities WHERE activity_id = $1 AND user_id = $2`,
		activityID, userID,
	).Scan(&exists)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return true, nil
}

// Count returns the number of members for an activity, creator included
func (r *MembershipRepository) Count(ctx context.Context, activityID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_activities WHERE activity_id = $1`,
		activityID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return count, nil
}

// Remove deletes a membership row. Returns apperrors.ErrMembershipNotFound
// when the user is not a member of the activity.
func (r *MembershipRepository) Remove(ctx context.Context, activityID, userID uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM user_activities WHERE activity_id = $1 AND user_id = $2`,
		activityID, userID,
	)
	if err != nil {
		return fmt.Errorf("error deleting membership: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrMembershipNotFound
	}

	return nil
}

// Search retrieves membership rows across all activities with the member
// profile and the activity attached, earliest join first
func (r *MembershipRepository) Search(ctx context.Context, filter MembershipSearchFilter) ([]*models.UserActivity, error) {
	query := squirrel.Select(
		"ua.activity_id", "ua.user_id", "ua.joined_at", "ua.user_role",
		"u.user_name", "u.name", "u.city", "u.register_date_time",
		"a.title",
	).
		From("user_activities ua").
		Join("users u ON ua.user_id = u.id").
		Join("activities a ON ua.activity_id = a.id").
		OrderBy("ua.joined_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Name != nil {
		query = query.Where("u.name ILIKE ?", "%"+*filter.Name+"%")
	}
	if filter.RegisteredBefore != nil {
		query = query.Where("u.register_date_time <= ?", *filter.RegisteredBefore)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var memberships []*models.UserActivity
	for rows.Next() {
		var membership models.UserActivity
		var user models.User
		var activity models.Activity

		err := rows.Scan(
			&membership.ActivityID,
			&membership.UserID,
			&membership.JoinedAt,
			&membership.UserRole,
			&user.UserName,
			&user.Name,
			&user.City,
			&user.RegisterDateTime,
			&activity.Title,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning membership row: %w", err)
		}

		user.ID = membership.UserID
		activity.ID = membership.ActivityID
		membership.User = &user
		membership.Activity = &activity
		memberships = append(memberships, &membership)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", err)
	}

	return memberships, nil
}

// ListByActivity retrieves all memberships for an activity with the member
// profile attached, earliest join first
func (r *MembershipRepository) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*models.UserActivity, error) {
	query := squirrel.Select(
		"ua.activity_id", "ua.user_id", "ua.joined_at", "ua.user_role",
		"u.user_name", "u.name", "u.profile_picture",
	).
		From("user_activities ua").
		Join("users u ON ua.user_id = u.id").
		Where("ua.activity_id = ?", activityID).
		OrderBy("ua.joined_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var memberships []*models.UserActivity
	for rows.Next() {
		var membership models.UserActivity
		var user models.User

		err := rows.Scan(
			&membership.ActivityID,
			&membership.UserID,
			&membership.JoinedAt,
			&membership.UserRole,
			&user.UserName,
			&user.Name,
			&user.ProfilePicture,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning membership row: %w", err)
		}

		user.ID = membership.UserID
		membership.User = &user
		memberships = append(memberships, &membership)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", err)
	}

	return memberships, nil
}

