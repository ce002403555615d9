package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"blogcms/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint failure and,
// when it is, the name of the violated constraint.
func isUniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// foreignKeyViolation is the SQLSTATE raised when a referenced row is gone.
const foreignKeyViolation = "23503"

// missingReference turns a foreign key failure on insert into ErrNotFound:
// the post or user it points at was deleted underneath the request.
func missingReference(err error, what string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return fmt.Errorf("%s (%s): %w", what, pqErr.Constraint, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	VerifyPassword(ctx context.Context, username, password string) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
	UpdateRefreshToken(ctx context.Context, userID string, refreshToken *string, expiryTime *time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
}

type ProfileRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*models.UserProfile, error)
	Update(ctx context.Context, profile *models.UserProfile) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, categoryID string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListAll(ctx context.Context) ([]models.Category, error)
	ListWithPublishedPosts(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, categoryID string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, postID string) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.PostSummary, error)
	ListPublished(ctx context.Context, filter PostFilter) ([]models.PostSummary, error)
	CountPublished(ctx context.Context, filter PostFilter) (int, error)
	ListFeatured(ctx context.Context, limit int) ([]models.PostSummary, error)
	ListRelated(ctx context.Context, categoryID *string, excludePostID string, limit int) ([]models.PostSummary, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.PostSummary, error)
	CountAll(ctx context.Context) (int, error)
	IncrementViews(ctx context.Context, postID string) (int, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, commentID string) (*models.Comment, error)
	ListApprovedByPost(ctx context.Context, postID string) ([]models.CommentView, error)
	ListRecent(ctx context.Context, limit int) ([]models.CommentView, error)
	SetApproval(ctx context.Context, commentIDs []string, approved bool) (int64, error)
}

type ReactionRepository interface {
	Upsert(ctx context.Context, postID, userID, reactionType string) (*models.Reaction, error)
	GetByPostAndUser(ctx context.Context, postID, userID string) (*models.Reaction, error)
	CountByType(ctx context.Context, postID string) ([]models.ReactionCount, error)
}

type NewsletterRepository interface {
	Subscribe(ctx context.Context, email string) (SubscribeResult, error)
	Unsubscribe(ctx context.Context, email string) error
	GetByEmail(ctx context.Context, email string) (*models.Newsletter, error)
}

type DashboardRepository interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type Repository struct {
	User       UserRepository
	Profile    ProfileRepository
	Category   CategoryRepository
	Post       PostRepository
	Comment    CommentRepository
	Reaction   ReactionRepository
	Newsletter NewsletterRepository
	Dashboard  DashboardRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:       NewUserRepository(db),
		Profile:    NewProfileRepository(db),
		Category:   NewCategoryRepository(db),
		Post:       NewPostRepository(db),
		Comment:    NewCommentRepository(db),
		Reaction:   NewReactionRepository(db),
		Newsletter: NewNewsletterRepository(db),
		Dashboard:  NewDashboardRepository(db),
	}
}
