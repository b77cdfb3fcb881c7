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
)

// MessageRepository handles database operations for activity chat messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new activity message and fills in the generated ID
func (r *MessageRepository) Create(ctx context.Context, message *models.ActivityMessage) error {
	query := `
		INSERT INTO activity_messages (activity_id, user_id, message, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		message.ActivityID,
		message.UserID,
		message.Message,
		message.Timestamp,
	).Scan(&message.ID)
	if err != nil {
		return fmt.Errorf("error creating activity message: %w", err)
	}

	return nil
}

// GetByID retrieves a message by its ID
func (r *MessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ActivityMessage, error) {
	query := messageSelect().Where("am.id = ?", id)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	message, err := scanMessage(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving activity message: %w", err)
	}

	return message, nil
}

// GetByActivityID retrieves all messages for an activity in chronological
// order, with the author profile attached where the author still exists
func (r *MessageRepository) GetByActivityID(ctx context.Context, activityID uuid.UUID) ([]*models.ActivityMessage, error) {
	query := messageSelect().
		Where("am.activity_id = ?", activityID).
		OrderBy("am.timestamp ASC", "am.id ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return r.queryMessages(ctx, sql, args)
}

// GetAll retrieves every stored message in chronological order
func (r *MessageRepository) GetAll(ctx context.Context) ([]*models.ActivityMessage, error) {
	query := messageSelect().OrderBy("am.timestamp ASC", "am.id ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return r.queryMessages(ctx, sql, args)
}

func (r *MessageRepository) queryMessages(ctx context.Context, sql string, args []interface{}) ([]*models.ActivityMessage, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var messages []*models.ActivityMessage
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}

func messageSelect() squirrel.SelectBuilder {
	return squirrel.Select(
		"am.id", "am.activity_id", "am.user_id", "am.message", "am.timestamp",
		"u.user_name", "u.name",
	).
		From("activity_messages am").
		LeftJoin("users u ON am.user_id = u.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanMessage(row pgx.Row) (*models.ActivityMessage, error) {
	var message models.ActivityMessage
	var userName, name *string

	err := row.Scan(
		&message.ID,
		&message.ActivityID,
		&message.UserID,
		&message.Message,
		&message.Timestamp,
		&userName,
		&name,
	)
	if err != nil {
		return nil, err
	}

	if message.UserID != nil && userName != nil {
		message.User = &models.User{
			ID:       *message.UserID,
			UserName: *userName,
			Name:     name,
		}
	}

	return &message, nil
}
