package service

import (
	"context"

	"blogcms/internal/models"
	"blogcms/internal/repository"
)

type Dashboard struct {
	Stats          *models.DashboardStats
	RecentPosts    []models.PostSummary
	RecentComments []models.CommentView
}

type DashboardService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
}

func NewDashboardService(rep *repository.Repository) DashboardService {
	return &dashboardService{
		dashboardRepo: rep.Dashboard,
		postRepo:      rep.Post,
		commentRepo:   rep.Comment,
	}
}

func (s *dashboardService) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := s.dashboardRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListAll(ctx, dashboardRecents, 0)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListRecent(ctx, dashboardRecents)
	if err != nil {
		return nil, err
	}

	return &Dashboard{Stats: stats, RecentPosts: posts, RecentComments: comments}, nil
}
