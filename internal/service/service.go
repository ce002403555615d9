package service

import (
	"github.com/sirupsen/logrus"

	"blogcms/internal/config"
	"blogcms/internal/mailer"
	"blogcms/internal/repository"
	"blogcms/internal/storage"
)

type Service struct {
	User       UserService
	Post       PostService
	Auth       AuthService
	Category   CategoryService
	Comment    CommentService
	Reaction   ReactionService
	Newsletter NewsletterService
	Dashboard  DashboardService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, mailer mailer.Mailer, log *logrus.Logger) *Service {
	return &Service{
		User:       NewUserService(rep.User, rep.Profile, storage, log),
		Post:       NewPostService(rep, storage, log),
		Auth:       NewAuthService(rep.User, rep.Profile, cfg),
		Category:   NewCategoryService(rep.Category),
		Comment:    NewCommentService(rep.Post, rep.Comment, rep.User),
		Reaction:   NewReactionService(rep.Post, rep.Reaction),
		Newsletter: NewNewsletterService(rep.Newsletter, mailer, log),
		Dashboard:  NewDashboardService(rep),
	}
}
