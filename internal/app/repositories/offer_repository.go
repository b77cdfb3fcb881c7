package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meetapp/backend/internal/app/models"
	"github.com/meetapp/backend/internal/pkg/apperrors"
	"github.com/meetapp/backend/internal/pkg/dberrors"
)

// OfferRepository handles database operations for offers
type OfferRepository struct {
	db *pgxpool.Pool
}

// NewOfferRepository creates a new OfferRepository
func NewOfferRepository(db *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{db: db}
}

// Create inserts a new offer and fills in the generated ID
func (r *OfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	query := squirrel.Insert("offers").
		Columns("business_id", "title", "description", "expiration_date", "paid", "tag").
		Values(offer.BusinessID, offer.Title, offer.Description, offer.ExpirationDate, offer.Paid, offer.Tag).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&offer.ID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error creating offer: %w", err)
	}

	return nil
}

// GetByID retrieves an offer with its business profile
func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	query := offerSelect().Where("o.id = ?", id)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	offer, err := scanOffer(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrOfferNotFound
		}
		return nil, fmt.Errorf("error retrieving offer: %w", err)
	}

	return offer, nil
}

// List retrieves offers, optionally restricted to one business, newest
// expiration last
func (r *OfferRepository) List(ctx context.Context, businessID *uuid.UUID) ([]*models.Offer, error) {
	query := offerSelect().OrderBy("o.expiration_date ASC")
	if businessID != nil {
		query = query.Where("o.business_id = ?", *businessID)
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

	var offers []*models.Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning offer row: %w", err)
		}
		offers = append(offers, offer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offer rows: %w", err)
	}

	return offers, nil
}

// Update updates an offer's editable fields
func (r *OfferRepository) Update(ctx context.Context, offer *models.Offer) error {
	query := squirrel.Update("offers").
		Set("title", offer.Title).
		Set("description", offer.Description).
		Set("expiration_date", offer.ExpirationDate).
		Set("tag", offer.Tag).
		Where("id = ?", offer.ID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating offer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrOfferNotFound
	}

	return nil
}

// SetPaid flips the paid flag for an offer
func (r *OfferRepository) SetPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	result, err := r.db.Exec(ctx, `UPDATE offers SET paid = $1 WHERE id = $2`, paid, id)
	if err != nil {
		return fmt.Errorf("error updating offer paid flag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrOfferNotFound
	}

	return nil
}

// Delete removes an offer; linked activities keep running with a null offer
// reference
func (r *OfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting offer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrOfferNotFound
	}

	return nil
}

func offerSelect() squirrel.SelectBuilder {
	return squirrel.Select(
		"o.id", "o.business_id", "o.title", "o.description", "o.expiration_date", "o.paid", "o.tag",
		"u.user_name", "u.business_name", "u.profile_picture",
	).
		From("offers o").
		LeftJoin("users u ON o.business_id = u.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanOffer(row pgx.Row) (*models.Offer, error) {
	var offer models.Offer
	var userName, businessName, picture *string

	err := row.Scan(
		&offer.ID,
		&offer.BusinessID,
		&offer.Title,
		&offer.Description,
		&offer.ExpirationDate,
		&offer.Paid,
		&offer.Tag,
		&userName,
		&businessName,
		&picture,
	)
	if err != nil {
		return nil, err
	}

	if userName != nil {
		offer.Business = &models.User{
			ID:             offer.BusinessID,
			UserName:       *userName,
			BusinessName:   businessName,
			ProfilePicture: picture,
		}
	}

	return &offer, nil
}
