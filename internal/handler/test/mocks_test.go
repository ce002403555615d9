package test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogcms/internal/config"
	handlers "blogcms/internal/handler"
	"blogcms/internal/identity"
	"blogcms/internal/logger"
	"blogcms/internal/metrics"
	"blogcms/internal/models"
	"blogcms/internal/repository"
	"blogcms/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, values map[string]string) (*models.User, error) {
	args := m.Called(ctx, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*models.User, string, string, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) RevokeRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*jwt.Token, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.Token), args.Error(1)
}

func (m *MockAuthService) IdentityFromToken(tokenString string) (*identity.Identity, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockAuthService) IdentityForUser(ctx context.Context, userID string) (*identity.Identity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Profile(ctx context.Context, actor *identity.Identity) (*service.Profile, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Profile), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, actor *identity.Identity, values map[string]string, avatar *service.Upload) (*service.Profile, error) {
	args := m.Called(ctx, actor, values, avatar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Profile), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, actor *identity.Identity, userID string) error {
	args := m.Called(ctx, actor, userID)
	return args.Error(0)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) Home(ctx context.Context, query service.FeedQuery) (*service.HomePage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HomePage), args.Error(1)
}

func (m *MockPostService) CategoryFeed(ctx context.Context, slug string, page int) (*service.CategoryPage, error) {
	args := m.Called(ctx, slug, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CategoryPage), args.Error(1)
}

func (m *MockPostService) Search(ctx context.Context, query string, page int) (*service.FeedPage, error) {
	args := m.Called(ctx, query, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FeedPage), args.Error(1)
}

func (m *MockPostService) Detail(ctx context.Context, slug, viewerID string) (*service.PostDetail, error) {
	args := m.Called(ctx, slug, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PostDetail), args.Error(1)
}

func (m *MockPostService) List(ctx context.Context, page int) (*service.FeedPage, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FeedPage), args.Error(1)
}

func (m *MockPostService) Get(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Create(ctx context.Context, actor *identity.Identity, input service.PostInput) (*models.Post, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, actor *identity.Identity, postID string, input service.PostInput) (*models.Post, error) {
	args := m.Called(ctx, actor, postID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, actor *identity.Identity, postID string) error {
	args := m.Called(ctx, actor, postID)
	return args.Error(0)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, actor *identity.Identity, values map[string]string) (*models.Category, error) {
	args := m.Called(ctx, actor, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, actor *identity.Identity, categoryID string) error {
	args := m.Called(ctx, actor, categoryID)
	return args.Error(0)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) Submit(ctx context.Context, actor *identity.Identity, postID string, values map[string]string) (*service.CommentResult, error) {
	args := m.Called(ctx, actor, postID, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CommentResult), args.Error(1)
}

func (m *MockCommentService) Recent(ctx context.Context, limit int) ([]models.CommentView, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.CommentView), args.Error(1)
}

func (m *MockCommentService) SetApproval(ctx context.Context, actor *identity.Identity, commentIDs []string, approved bool) (int64, error) {
	args := m.Called(ctx, actor, commentIDs, approved)
	return args.Get(0).(int64), args.Error(1)
}

type MockReactionService struct {
	mock.Mock
}

func (m *MockReactionService) React(ctx context.Context, actor *identity.Identity, postID, reactionType string) (*service.ReactionResult, error) {
	args := m.Called(ctx, actor, postID, reactionType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReactionResult), args.Error(1)
}

type MockNewsletterService struct {
	mock.Mock
}

func (m *MockNewsletterService) Subscribe(ctx context.Context, email string) (repository.SubscribeResult, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(repository.SubscribeResult), args.Error(1)
}

func (m *MockNewsletterService) Unsubscribe(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Dashboard(ctx context.Context) (*service.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
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

// ImageURL is deterministic so templates can be asserted on.
func (m *MockStorage) ImageURL(objectName string) string {
	return "http://images.test/" + objectName
}

type stubHealth struct {
	err error
}

func (s stubHealth) HealthCheck() error {
	return s.err
}

type mockServices struct {
	auth       *MockAuthService
	user       *MockUserService
	post       *MockPostService
	category   *MockCategoryService
	comment    *MockCommentService
	reaction   *MockReactionService
	newsletter *MockNewsletterService
	dashboard  *MockDashboardService
	storage    *MockStorage
}

func testConfig() *config.Config {
	return &config.Config{
		SiteURL:       "http://localhost:8080",
		JWTSecretKey:  "test-secret-key",
		SessionKey:    "test-session-key",
		ServerPort:    8080,
		MaxUploadSize: 1 << 20,
	}
}

// createTestHandler builds real handlers around mocked services.
func createTestHandler(t *testing.T, health error) (*handlers.Handlers, *mockServices) {
	m := &mockServices{
		auth:       new(MockAuthService),
		user:       new(MockUserService),
		post:       new(MockPostService),
		category:   new(MockCategoryService),
		comment:    new(MockCommentService),
		reaction:   new(MockReactionService),
		newsletter: new(MockNewsletterService),
		dashboard:  new(MockDashboardService),
		storage:    new(MockStorage),
	}

	services := &service.Service{
		User:       m.user,
		Post:       m.post,
		Auth:       m.auth,
		Category:   m.category,
		Comment:    m.comment,
		Reaction:   m.reaction,
		Newsletter: m.newsletter,
		Dashboard:  m.dashboard,
	}

	cfg := testConfig()
	h, err := handlers.NewHandlers(services, cfg, m.storage, sessions.NewCookieStore([]byte(cfg.SessionKey)),
		metrics.New(), stubHealth{err: health}, logger.Discard())
	require.NoError(t, err)
	return h, m
}

// as attaches the requester to r the way the identity middleware does.
func as(r *http.Request, id *identity.Identity) *http.Request {
	return r.WithContext(identity.With(r.Context(), id))
}

var (
	reader = &identity.Identity{UserID: "8c3f1d2e-5b6a-4c7d-9e8f-0a1b2c3d4e5f", Username: "reader"}
	staff  = &identity.Identity{UserID: "1a2b3c4d-5e6f-4a8b-9c0d-1e2f3a4b5c6d", Username: "editor", IsStaff: true}
	admin  = &identity.Identity{UserID: "9f8e7d6c-5b4a-4392-8170-6f5e4d3c2b1a", Username: "root", IsStaff: true, IsSuperuser: true}
)
