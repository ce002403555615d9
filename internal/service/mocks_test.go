package service

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"blogcms/internal/logger"
	"blogcms/internal/models"
	"blogcms/internal/repository"
)

func quietLogger() *logrus.Logger {
	return logger.Discard()
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) VerifyPassword(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshToken *string, expiryTime *time.Time) error {
	args := m.Called(ctx, userID, refreshToken, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetOrCreate(ctx context.Context, userID string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *models.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, categoryID string) (*models.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListAll(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListWithPublishedPosts(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, categoryID string) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

func (m *MockCategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.PostSummary, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostSummary), args.Error(1)
}

func (m *MockPostRepository) ListPublished(ctx context.Context, filter repository.PostFilter) ([]models.PostSummary, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.PostSummary), args.Error(1)
}

func (m *MockPostRepository) CountPublished(ctx context.Context, filter repository.PostFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) ListFeatured(ctx context.Context, limit int) ([]models.PostSummary, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.PostSummary), args.Error(1)
}

func (m *MockPostRepository) ListRelated(ctx context.Context, categoryID *string, excludePostID string, limit int) ([]models.PostSummary, error) {
	args := m.Called(ctx, categoryID, excludePostID, limit)
	return args.Get(0).([]models.PostSummary), args.Error(1)
}

func (m *MockPostRepository) ListAll(ctx context.Context, limit, offset int) ([]models.PostSummary, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.PostSummary), args.Error(1)
}

func (m *MockPostRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) IncrementViews(ctx context.Context, postID string) (int, error) {
	args := m.Called(ctx, postID)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, commentID string) (*models.Comment, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListApprovedByPost(ctx context.Context, postID string) ([]models.CommentView, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]models.CommentView), args.Error(1)
}

func (m *MockCommentRepository) ListRecent(ctx context.Context, limit int) ([]models.CommentView, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.CommentView), args.Error(1)
}

func (m *MockCommentRepository) SetApproval(ctx context.Context, commentIDs []string, approved bool) (int64, error) {
	args := m.Called(ctx, commentIDs, approved)
	return args.Get(0).(int64), args.Error(1)
}

type MockReactionRepository struct {
	mock.Mock
}

func (m *MockReactionRepository) Upsert(ctx context.Context, postID, userID, reactionType string) (*models.Reaction, error) {
	args := m.Called(ctx, postID, userID, reactionType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reaction), args.Error(1)
}

func (m *MockReactionRepository) GetByPostAndUser(ctx context.Context, postID, userID string) (*models.Reaction, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reaction), args.Error(1)
}

func (m *MockReactionRepository) CountByType(ctx context.Context, postID string) ([]models.ReactionCount, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]models.ReactionCount), args.Error(1)
}

type MockNewsletterRepository struct {
	mock.Mock
}

func (m *MockNewsletterRepository) Subscribe(ctx context.Context, email string) (repository.SubscribeResult, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(repository.SubscribeResult), args.Error(1)
}

func (m *MockNewsletterRepository) Unsubscribe(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockNewsletterRepository) GetByEmail(ctx context.Context, email string) (*models.Newsletter, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Newsletter), args.Error(1)
}

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, prefix, fileName string, file io.Reader, size int64) (string, error) {
	args := m.Called(ctx, prefix, fileName, file, size)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteImage(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockStorage) ImageURL(objectName string) string {
	args := m.Called(objectName)
	return args.String(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWelcome(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

type mockRepos struct {
	user       *MockUserRepository
	profile    *MockProfileRepository
	category   *MockCategoryRepository
	post       *MockPostRepository
	comment    *MockCommentRepository
	reaction   *MockReactionRepository
	newsletter *MockNewsletterRepository
	dashboard  *MockDashboardRepository
}

func newMockRepos() (*mockRepos, *repository.Repository) {
	m := &mockRepos{
		user:       new(MockUserRepository),
		profile:    new(MockProfileRepository),
		category:   new(MockCategoryRepository),
		post:       new(MockPostRepository),
		comment:    new(MockCommentRepository),
		reaction:   new(MockReactionRepository),
		newsletter: new(MockNewsletterRepository),
		dashboard:  new(MockDashboardRepository),
	}
	return m, &repository.Repository{
		User:       m.user,
		Profile:    m.profile,
		Category:   m.category,
		Post:       m.post,
		Comment:    m.comment,
		Reaction:   m.reaction,
		Newsletter: m.newsletter,
		Dashboard:  m.dashboard,
	}
}
