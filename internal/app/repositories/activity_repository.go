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
)

// ActivityFilter narrows activity listings
type ActivityFilter struct {
	OwnerID  *uuid.UUID
	MemberID *uuid.UUID
	OfferID  *uuid.UUID
	From     *time.Time
	To       *time.Time
}

// ActivityRepository handles database operations for activities
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// CreateWithMembers inserts an activity together with its initial membership
// rows in a single transaction. The owner always gets a creator row; invitees
// that do not correspond to existing users are silently skipped.
func (r *ActivityRepository) CreateWithMembers(ctx context.Context, activity *models.Activity, invitees []uuid.UUID, now time.Time) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		insert := squirrel.Insert("activities").
			Columns(
				"offer_id", "owner_id", "title", "description", "date_time",
				"people_limit", "location", "latitude", "longitude",
			).
			Values(
				activity.OfferID, activity.OwnerID, activity.Title, activity.Description, activity.DateTime,
				activity.PeopleLimit, activity.Location, activity.Latitude, activity.Longitude,
			).
			Suffix("RETURNING id").
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&activity.ID); err != nil {
			return fmt.Errorf("error creating activity: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_activities (activity_id, user_id, user_role, joined_at)
			VALUES ($1, $2, $3, $4)
		`, activity.ID, activity.OwnerID, models.RoleCreator, now)
		if err != nil {
			return fmt.Errorf("error creating creator membership: %w", err)
		}

		if len(invitees) > 0 {
			// Nonexistent invitees are dropped by the join against users;
			// duplicates collapse on the composite primary key.
			_, err = tx.Exec(ctx, `
				INSERT INTO user_activities (activity_id, user_id, user_role, joined_at)
				SELECT $1, u.id, $2, $3
				FROM users u
				WHERE u.id = ANY($4)
				ON CONFLICT (activity_id, user_id) DO NOTHING
			`, activity.ID, models.RoleMember, now, invitees)
			if err != nil {
				return fmt.Errorf("error creating invitee memberships: %w", err)
			}
		}

		return nil
	})
}

// activitySelect is the base query joining the owner and the member count
func activitySelect() squirrel.SelectBuilder {
	return squirrel.Select(
		"a.id", "a.offer_id", "a.owner_id", "a.title", "a.description", "a.date_time",
		"a.people_limit", "a.location", "a.latitude", "a.longitude",
		"u.user_name", "u.name", "u.profile_picture",
		"(SELECT COUNT(*) FROM user_activities ua WHERE ua.activity_id = a.id) AS participant_count",
	).
		From("activities a").
		LeftJoin("users u ON a.owner_id = u.id").
		PlaceholderFormat(squirrel.Dollar)
}

// GetByID retrieves an activity with its owner and participant count
func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, int, error) {
	query := activitySelect().Where("a.id = ?", id)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	activity, count, err := scanActivity(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, 0, apperrors.ErrActivityNotFound
		}
		return nil, 0, fmt.Errorf("error retrieving activity: %w", err)
	}

	return activity, count, nil
}

// ExistsByID checks whether an activity exists
func (r *ActivityRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists int
	err := r.db.QueryRow(ctx, `SELECT 1 FROM activities WHERE id = $1`, id).Scan(&exists)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return true, nil
}

// List retrieves activities matching the filter, soonest first
func (r *ActivityRepository) List(ctx context.Context, filter ActivityFilter) ([]*models.Activity, map[uuid.UUID]int, error) {
	query := activitySelect().OrderBy("a.date_time ASC")

	if filter.OwnerID != nil {
		query = query.Where("a.owner_id = ?", *filter.OwnerID)
	}
	if filter.MemberID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM user_activities m WHERE m.activity_id = a.id AND m.user_id = ?)",
			*filter.MemberID,
		)
	}
	if filter.OfferID != nil {
		query = query.Where("a.offer_id = ?", *filter.OfferID)
	}
	if filter.From != nil {
		query = query.Where("a.date_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("a.date_time < ?", *filter.To)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		activity, count, err := scanActivity(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("error scanning activity row: %w", err)
		}
		activities = append(activities, activity)
		counts[activity.ID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return activities, counts, nil
}

// ListForDay retrieves activities scheduled inside [dayStart, dayEnd) with
// the linked offer and its business profile attached where one exists
func (r *ActivityRepository) ListForDay(ctx context.Context, dayStart, dayEnd time.Time) ([]*models.Activity, error) {
	query := squirrel.Select(
		"a.id", "a.offer_id", "a.owner_id", "a.title", "a.description", "a.date_time",
		"a.people_limit", "a.location", "a.latitude", "a.longitude",
		"o.title", "b.id", "b.user_name", "b.business_name",
	).
		From("activities a").
		LeftJoin("offers o ON a.offer_id = o.id").
		LeftJoin("users b ON o.business_id = b.id").
		Where("a.date_time >= ? AND a.date_time < ?", dayStart, dayEnd).
		OrderBy("a.date_time ASC").
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

	var activities []*models.Activity
	for rows.Next() {
		var activity models.Activity
		var offerTitle *string
		var businessID *uuid.UUID
		var businessUserName, businessName *string

		err := rows.Scan(
			&activity.ID,
			&activity.OfferID,
			&activity.OwnerID,
			&activity.Title,
			&activity.Description,
			&activity.DateTime,
			&activity.PeopleLimit,
			&activity.Location,
			&activity.Latitude,
			&activity.Longitude,
			&offerTitle,
			&businessID,
			&businessUserName,
			&businessName,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning activity row: %w", err)
		}

		if activity.OfferID != nil && offerTitle != nil {
			offer := &models.Offer{ID: *activity.OfferID, Title: *offerTitle}
			if businessID != nil {
				offer.BusinessID = *businessID
				business := &models.User{ID: *businessID, BusinessName: businessName}
				if businessUserName != nil {
					business.UserName = *businessUserName
				}
				offer.Business = business
			}
			activity.Offer = offer
		}

		activities = append(activities, &activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return activities, nil
}

// Update updates an activity's editable fields
func (r *ActivityRepository) Update(ctx context.Context, activity *models.Activity) error {
	query := squirrel.Update("activities").
		Set("title", activity.Title).
		Set("description", activity.Description).
		Set("date_time", activity.DateTime).
		Set("people_limit", activity.PeopleLimit).
		Set("location", activity.Location).
		Set("latitude", activity.Latitude).
		Set("longitude", activity.Longitude).
		Set("offer_id", activity.OfferID).
		Where("id = ?", activity.ID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating activity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrActivityNotFound
	}

	return nil
}

// Delete removes an activity; memberships and messages cascade
func (r *ActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting activity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrActivityNotFound
	}

	return nil
}

func scanActivity(row pgx.Row) (*models.Activity, int, error) {
	var activity models.Activity
	var ownerUserName, ownerName, ownerPicture *string
	var count int

	err := row.Scan(
		&activity.ID,
		&activity.OfferID,
		&activity.OwnerID,
		&activity.Title,
		&activity.Description,
		&activity.DateTime,
		&activity.PeopleLimit,
		&activity.Location,
		&activity.Latitude,
		&activity.Longitude,
		&ownerUserName,
		&ownerName,
		&ownerPicture,
		&count,
	)
	if err != nil {
		return nil, 0, err
	}

	if ownerUserName != nil {
		activity.Owner = &models.User{
			ID:             activity.OwnerID,
			UserName:       *ownerUserName,
			Name:           ownerName,
			ProfilePicture: ownerPicture,
		}
	}

	return &activity, count, nil
}
