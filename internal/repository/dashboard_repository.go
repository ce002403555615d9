package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"blogcms/internal/models"
)

type dashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats

	err := r.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COUNT(*) FROM posts) AS total_posts,
			(SELECT COUNT(*) FROM posts WHERE status = 'published') AS published_posts,
			(SELECT COUNT(*) FROM posts WHERE status = 'draft') AS draft_posts,
			(SELECT COUNT(*) FROM comments WHERE is_approved) AS total_comments,
			(SELECT COUNT(*) FROM reactions) AS total_reactions
	`)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	return &stats, nil
}
