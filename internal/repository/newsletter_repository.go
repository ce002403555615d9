package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogcms/internal/models"
)

// SubscribeResult says what a subscription request changed.
type SubscribeResult int

const (
	SubscribeCreated SubscribeResult = iota
	SubscribeReactivated
	SubscribeAlreadyActive
)

func (s SubscribeResult) String() string {
	switch s {
	case SubscribeCreated:
		return "created"
	case SubscribeReactivated:
		return "reactivated"
	default:
		return "already_active"
	}
}

type newsletterRepository struct {
	db *sqlx.DB
}

func NewNewsletterRepository(db *sqlx.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

// Subscribe inserts the address as active or reactivates an inactive row in
// one statement. An already active row is left untouched, which shows up as
// no returned row.
func (r *newsletterRepository) Subscribe(ctx context.Context, email string) (SubscribeResult, error) {
	query := `
		INSERT INTO newsletters (newsletter_id, email, subscribed_at, is_active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (email) DO UPDATE SET is_active = TRUE
		WHERE NOT newsletters.is_active
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.GetContext(ctx, &inserted, query, uuid.New().String(), email, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SubscribeAlreadyActive, nil
		}
		return 0, fmt.Errorf("subscribe %s: %w", email, err)
	}

	if inserted {
		return SubscribeCreated, nil
	}
	return SubscribeReactivated, nil
}

func (r *newsletterRepository) Unsubscribe(ctx context.Context, email string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE newsletters SET is_active = FALSE WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("unsubscribe %s: %w", email, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("subscription %s: %w", email, ErrNotFound)
	}

	return nil
}

func (r *newsletterRepository) GetByEmail(ctx context.Context, email string) (*models.Newsletter, error) {
	query := `SELECT newsletter_id, email, subscribed_at, is_active FROM newsletters WHERE email = $1`

	var newsletter models.Newsletter
	err := r.db.GetContext(ctx, &newsletter, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subscription %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	return &newsletter, nil
}
