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

const commentViewSelect = `SELECT cm.comment_id, cm.post_id, cm.author_id, cm.parent_id, cm.content,
	cm.is_approved, cm.created_at, cm.updated_at,
	u.username AS author_username, u.first_name AS author_first_name, u.last_name AS author_last_name,
	p.title AS post_title
FROM comments cm
JOIN users u ON u.user_id = cm.author_id
JOIN posts p ON p.post_id = cm.post_id`

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.CommentID == "" {
		comment.CommentID = uuid.New().String()
	}

	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	query := `
		INSERT INTO comments (comment_id, post_id, author_id, parent_id, content, is_approved, created_at, updated_at)
		VALUES (:comment_id, :post_id, :author_id, :parent_id, :content, :is_approved, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return missingReference(err, "create comment")
	}

	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID string) (*models.Comment, error) {
	query := `SELECT comment_id, post_id, author_id, parent_id, content, is_approved, created_at, updated_at
		FROM comments WHERE comment_id = $1`

	var comment models.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &comment, nil
}

func (r *commentRepository) ListApprovedByPost(ctx context.Context, postID string) ([]models.CommentView, error) {
	query := commentViewSelect + ` WHERE cm.post_id = $1 AND cm.is_approved ORDER BY cm.created_at DESC`

	var comments []models.CommentView
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) ListRecent(ctx context.Context, limit int) ([]models.CommentView, error) {
	query := commentViewSelect + ` ORDER BY cm.created_at DESC LIMIT $1`

	var comments []models.CommentView
	if err := r.db.SelectContext(ctx, &comments, query, limit); err != nil {
		return nil, fmt.Errorf("list recent comments: %w", err)
	}

	return comments, nil
}

// SetApproval flips the approval flag on every listed comment and reports how
// many rows changed.
func (r *commentRepository) SetApproval(ctx context.Context, commentIDs []string, approved bool) (int64, error) {
	if len(commentIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(
		`UPDATE comments SET is_approved = ?, updated_at = ? WHERE comment_id IN (?)`,
		approved, time.Now(), commentIDs)
	if err != nil {
		return 0, fmt.Errorf("build approval query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("set comment approval: %w", err)
	}

	return result.RowsAffected()
}
