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

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.CategoryID == "" {
		category.CategoryID = uuid.New().String()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO categories (category_id, name, slug, description, color, created_at)
		VALUES (:category_id, :name, :slug, :description, :color, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, category)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok {
			return fmt.Errorf("category %s (%s): %w", category.Name, constraint, ErrDuplicate)
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, categoryID string) (*models.Category, error) {
	return r.getOne(ctx, `category_id = $1`, categoryID)
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.getOne(ctx, `slug = $1`, slug)
}

func (r *categoryRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.Category, error) {
	query := `SELECT category_id, name, slug, description, color, created_at FROM categories WHERE ` + where

	var category models.Category
	err := r.db.GetContext(ctx, &category, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %v: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

// ListAll returns every category with the number of posts filed under it.
func (r *categoryRepository) ListAll(ctx context.Context) ([]models.Category, error) {
	query := `
		SELECT c.category_id, c.name, c.slug, c.description, c.color, c.created_at,
			COUNT(p.post_id) AS post_count
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.category_id
		GROUP BY c.category_id
		ORDER BY c.name
	`

	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

// ListWithPublishedPosts returns only categories holding at least one
// published, visible post, counting those posts.
func (r *categoryRepository) ListWithPublishedPosts(ctx context.Context) ([]models.Category, error) {
	query := `
		SELECT c.category_id, c.name, c.slug, c.description, c.color, c.created_at,
			COUNT(p.post_id) AS post_count
		FROM categories c
		JOIN posts p ON p.category_id = c.category_id
		WHERE p.status = 'published' AND p.is_visible
		GROUP BY c.category_id
		HAVING COUNT(p.post_id) > 0
		ORDER BY c.name
	`

	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories with posts: %w", err)
	}

	return categories, nil
}

// Delete removes the category. Posts keep existing with category_id set to
// NULL by the foreign key.
func (r *categoryRepository) Delete(ctx context.Context, categoryID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("category %s: %w", categoryID, ErrNotFound)
	}

	return nil
}

func (r *categoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, slug)
	if err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return exists, nil
}
