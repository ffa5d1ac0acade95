package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"reelsync/internal/models"
)

const historyLimit = 10

// UserService tracks Telegram users and their sync history in Postgres.
// The watchlist itself lives in the external record store; this is only the
// bot-side audit trail.
type UserService struct {
	db     *pgxpool.Pool
	logger *logrus.Logger
}

func NewUserService(db *pgxpool.Pool, logger *logrus.Logger) *UserService {
	return &UserService{db: db, logger: logger}
}

func (s *UserService) EnsureUserExists(ctx context.Context, userID, username string) error {
	var exists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	now := time.Now()

	if !exists {
		insertQuery := `
		INSERT INTO users (id, username, platform, created_at, updated_at)
		VALUES ($1, $2, 'telegram', $3, $3)
		`
		if _, err := s.db.Exec(ctx, insertQuery, userID, username, now); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		s.logger.WithFields(logrus.Fields{
			"user_id":  userID,
			"username": username,
		}).Info("A user has been created...")
		return nil
	}

	updateQuery := `
	UPDATE users
	SET username = $2, updated_at = $3
	WHERE id = $1 AND (username IS NULL OR username != $2)
	`
	if _, err := s.db.Exec(ctx, updateQuery, userID, username, now); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// RecordSync appends one row to the sync audit trail.
func (s *UserService) RecordSync(ctx context.Context, userID, query, title string, externalID int64, outcome string) error {
	insertQuery := `
	INSERT INTO sync_history (user_id, query, title, external_id, outcome, synced_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := s.db.Exec(ctx, insertQuery, userID, query, title, externalID, outcome, time.Now()); err != nil {
		return fmt.Errorf("failed to record sync: %w", err)
	}
	return nil
}

// RecentHistory returns the user's latest sync events, newest first.
func (s *UserService) RecentHistory(ctx context.Context, userID string) ([]models.SyncEvent, error) {
	query := `
	SELECT id, user_id, query, title, external_id, outcome, synced_at
	FROM sync_history
	WHERE user_id = $1
	ORDER BY synced_at DESC
	LIMIT $2
	`
	rows, err := s.db.Query(ctx, query, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync history: %w", err)
	}
	defer rows.Close()

	var events []models.SyncEvent
	for rows.Next() {
		var event models.SyncEvent
		if err := rows.Scan(&event.ID, &event.UserID, &event.Query, &event.Title,
			&event.ExternalID, &event.Outcome, &event.SyncedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sync event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sync history: %w", err)
	}

	return events, nil
}
