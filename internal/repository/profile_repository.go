package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"blogcms/internal/models"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetOrCreate returns the user's profile, inserting an empty one first if
// none exists. The primary key on user_id keeps concurrent callers to one row.
func (r *profileRepository) GetOrCreate(ctx context.Context, userID string) (*models.UserProfile, error) {
	insert := `
		INSERT INTO user_profiles (user_id, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (user_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, insert, userID, time.Now()); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}

	var profile models.UserProfile
	query := `SELECT user_id, bio, avatar, newsletter, created_at, updated_at FROM user_profiles WHERE user_id = $1`

	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.UserProfile) error {
	profile.UpdatedAt = time.Now()

	query := `
		UPDATE user_profiles SET
			bio = :bio,
			avatar = :avatar,
			newsletter = :newsletter,
			updated_at = :updated_at
		WHERE user_id = :user_id
	`

	result, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("profile %s: %w", profile.UserID, ErrNotFound)
	}

	return nil
}
