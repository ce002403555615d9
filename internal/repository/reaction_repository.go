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

type reactionRepository struct {
	db *sqlx.DB
}

func NewReactionRepository(db *sqlx.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Upsert records the user's reaction to a post, replacing the type of an
// existing one. UNIQUE (post_id, user_id) keeps it to one row per pair.
func (r *reactionRepository) Upsert(ctx context.Context, postID, userID, reactionType string) (*models.Reaction, error) {
	query := `
		INSERT INTO reactions (reaction_id, post_id, user_id, reaction_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (post_id, user_id) DO UPDATE SET reaction_type = EXCLUDED.reaction_type
		RETURNING reaction_id, post_id, user_id, reaction_type, created_at
	`

	var reaction models.Reaction
	err := r.db.GetContext(ctx, &reaction, query, uuid.New().String(), postID, userID, reactionType, time.Now())
	if err != nil {
		return nil, missingReference(err, "upsert reaction")
	}

	return &reaction, nil
}

func (r *reactionRepository) GetByPostAndUser(ctx context.Context, postID, userID string) (*models.Reaction, error) {
	query := `SELECT reaction_id, post_id, user_id, reaction_type, created_at
		FROM reactions WHERE post_id = $1 AND user_id = $2`

	var reaction models.Reaction
	err := r.db.GetContext(ctx, &reaction, query, postID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reaction: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get reaction: %w", err)
	}

	return &reaction, nil
}

func (r *reactionRepository) CountByType(ctx context.Context, postID string) ([]models.ReactionCount, error) {
	query := `
		SELECT reaction_type, COUNT(*) AS count
		FROM reactions
		WHERE post_id = $1
		GROUP BY reaction_type
		ORDER BY reaction_type
	`

	counts := []models.ReactionCount{}
	if err := r.db.SelectContext(ctx, &counts, query, postID); err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}

	return counts, nil
}
