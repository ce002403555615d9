package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogcms/internal/models"
)

const postColumns = `p.post_id, p.title, p.slug, p.content, p.excerpt, p.featured_image,
	p.category_id, p.author_id, p.status, p.is_visible, p.created_at, p.updated_at,
	p.published_at, p.scheduled_publish_at, p.views_count, p.featured`

const summarySelect = `SELECT ` + postColumns + `,
	u.username AS author_username, u.first_name AS author_first_name, u.last_name AS author_last_name,
	c.name AS category_name, c.slug AS category_slug, c.color AS category_color,
	(SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.post_id AND cm.is_approved) AS comment_count,
	(SELECT COUNT(*) FROM reactions r WHERE r.post_id = p.post_id) AS reaction_count
FROM posts p
JOIN users u ON u.user_id = p.author_id
LEFT JOIN categories c ON c.category_id = p.category_id`

const publicCondition = `p.status = 'published' AND p.is_visible`

const feedOrder = ` ORDER BY p.published_at DESC NULLS LAST, p.created_at DESC`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostFilter narrows the public feed. Zero values mean "no filter".
type PostFilter struct {
	CategoryID string
	Search     string
	Limit      int
	Offset     int
}

// where renders the filter as a WHERE clause over published, visible posts.
func (f PostFilter) where() (string, []interface{}) {
	conditions := []string{publicCondition}
	var args []interface{}

	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf("(p.title ILIKE $%d OR p.excerpt ILIKE $%d OR p.content ILIKE $%d)", n, n, n))
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts
		(post_id, title, slug, content, excerpt, featured_image, category_id, author_id, status,
		 is_visible, created_at, updated_at, published_at, scheduled_publish_at, views_count, featured)
		VALUES
		(:post_id, :title, :slug, :content, :excerpt, :featured_image, :category_id, :author_id, :status,
		 :is_visible, :created_at, :updated_at, :published_at, :scheduled_publish_at, :views_count, :featured)
	`

	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := r.DB.NamedExecContext(ctx, query, post)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok {
			return fmt.Errorf("post %s (%s): %w", post.Slug, constraint, ErrDuplicate)
		}
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET
			title = :title,
			slug = :slug,
			content = :content,
			excerpt = :excerpt,
			featured_image = :featured_image,
			category_id = :category_id,
			status = :status,
			is_visible = :is_visible,
			published_at = :published_at,
			scheduled_publish_at = :scheduled_publish_at,
			featured = :featured,
			updated_at = :updated_at
		WHERE post_id = :post_id
	`

	post.UpdatedAt = time.Now()

	result, err := r.DB.NamedExecContext(ctx, query, post)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok {
			return fmt.Errorf("post %s (%s): %w", post.Slug, constraint, ErrDuplicate)
		}
		return fmt.Errorf("update post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post %s: %w", post.PostID, ErrNotFound)
	}

	return nil
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, postID string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE post_id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts p WHERE p.post_id = $1`

	var post models.Post
	err := r.DB.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) GetPublishedBySlug(ctx context.Context, slug string) (*models.PostSummary, error) {
	query := summarySelect + ` WHERE ` + publicCondition + ` AND p.slug = $1`

	var post models.PostSummary
	err := r.DB.GetContext(ctx, &post, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("get post by slug: %w", err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) ListPublished(ctx context.Context, filter PostFilter) ([]models.PostSummary, error) {
	where, args := filter.where()
	args = append(args, filter.Limit, filter.Offset)
	query := summarySelect + where + feedOrder +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	var posts []models.PostSummary
	if err := r.DB.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) CountPublished(ctx context.Context, filter PostFilter) (int, error) {
	where, args := filter.where()

	var count int
	if err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts p`+where, args...); err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}

	return count, nil
}

func (r *PostRepositoryImpl) ListFeatured(ctx context.Context, limit int) ([]models.PostSummary, error) {
	query := summarySelect + ` WHERE ` + publicCondition + ` AND p.featured` + feedOrder + ` LIMIT $1`

	var posts []models.PostSummary
	if err := r.DB.SelectContext(ctx, &posts, query, limit); err != nil {
		return nil, fmt.Errorf("list featured posts: %w", err)
	}

	return posts, nil
}

// ListRelated returns other public posts in the same category. A nil
// categoryID matches the other uncategorised posts.
func (r *PostRepositoryImpl) ListRelated(ctx context.Context, categoryID *string, excludePostID string, limit int) ([]models.PostSummary, error) {
	query := summarySelect + ` WHERE ` + publicCondition +
		` AND p.category_id = $1 AND p.post_id <> $2` + feedOrder + ` LIMIT $3`
	args := []interface{}{categoryID, excludePostID, limit}
	if categoryID == nil {
		query = summarySelect + ` WHERE ` + publicCondition +
			` AND p.category_id IS NULL AND p.post_id <> $1` + feedOrder + ` LIMIT $2`
		args = args[1:]
	}

	var posts []models.PostSummary
	if err := r.DB.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("list related posts: %w", err)
	}

	return posts, nil
}

// ListAll returns posts in every state, newest first, for the admin screens.
func (r *PostRepositoryImpl) ListAll(ctx context.Context, limit, offset int) ([]models.PostSummary, error) {
	query := summarySelect + ` ORDER BY p.created_at DESC LIMIT $1 OFFSET $2`

	var posts []models.PostSummary
	if err := r.DB.SelectContext(ctx, &posts, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts`); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// IncrementViews bumps the counter in a single statement so concurrent views
// are never lost.
func (r *PostRepositoryImpl) IncrementViews(ctx context.Context, postID string) (int, error) {
	query := `UPDATE posts SET views_count = views_count + 1 WHERE post_id = $1 RETURNING views_count`

	var views int
	err := r.DB.GetContext(ctx, &views, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("post %s: %w", postID, ErrNotFound)
		}
		return 0, fmt.Errorf("increment views: %w", err)
	}

	return views, nil
}

func (r *PostRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug)
	if err != nil {
		return false, fmt.Errorf("check post slug: %w", err)
	}
	return exists, nil
}
