package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"blogcms/internal/config"
	"blogcms/internal/forms"
	"blogcms/internal/identity"
	"blogcms/internal/models"
	"blogcms/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, values map[string]string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error)
	RevokeRefreshToken(ctx context.Context, userID string) error
	ValidateToken(tokenString string) (*jwt.Token, error)
	IdentityFromToken(tokenString string) (*identity.Identity, error)
	IdentityForUser(ctx context.Context, userID string) (*identity.Identity, error)
}

type authService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	cfg         *config.Config
}

func NewAuthService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		cfg:         cfg,
	}
}

func (s *authService) Register(ctx context.Context, values map[string]string) (*models.User, error) {
	errs := forms.Registration.Validate(values)
	if values["password"] != values["password_confirm"] {
		errs.Add(forms.NonFieldErrors, "Passwords do not match.")
	}

	username := strings.TrimSpace(values["username"])
	if !errs.Has("username") {
		_, err := s.userRepo.GetUserByUsername(ctx, username)
		switch {
		case err == nil:
			errs.Add("username", "A user with that username already exists.")
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	if err := invalid(errs); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  username,
		Email:     strings.TrimSpace(values["email"]),
		FirstName: strings.TrimSpace(values["first_name"]),
		LastName:  strings.TrimSpace(values["last_name"]),
	}

	err := s.userRepo.CreateUser(ctx, user, values["password"])
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, fieldError("username", "A user with that username already exists.")
	}
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", username, err)
	}

	if _, err := s.profileRepo.GetOrCreate(ctx, user.UserID); err != nil {
		return nil, fmt.Errorf("create profile for %s: %w", username, err)
	}

	return user, nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords both yield ErrInvalidCredentials.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.VerifyPassword(ctx, strings.TrimSpace(username), password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, string, string, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", "", fmt.Errorf("refresh token: %w", ErrUnauthenticated)
		}
		return nil, "", "", err
	}

	accessToken, newRefreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, newRefreshToken, nil
}

func (s *authService) RevokeRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, nil, nil)
}

func (s *authService) issueTokens(ctx context.Context, user *models.User) (string, string, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}

	refreshToken := uuid.New().String()
	expiry := time.Now().Add(s.cfg.RefreshTokenDuration)

	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, &refreshToken, &expiry); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId":      user.UserID,
		"username":    user.Username,
		"isStaff":     user.IsStaff,
		"isSuperuser": user.IsSuperuser,
		"exp":         now.Add(s.cfg.AccessTokenDuration).Unix(),
		"iat":         now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return token, nil
}

func (s *authService) IdentityFromToken(tokenString string) (*identity.Identity, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims format")
	}

	userID, _ := claims["userId"].(string)
	if userID == "" {
		return nil, errors.New("token has no user")
	}
	username, _ := claims["username"].(string)
	isStaff, _ := claims["isStaff"].(bool)
	isSuperuser, _ := claims["isSuperuser"].(bool)

	return &identity.Identity{
		UserID:      userID,
		Username:    username,
		IsStaff:     isStaff,
		IsSuperuser: isSuperuser,
	}, nil
}

// IdentityForUser reloads the user so that flag changes apply to live sessions.
func (s *authService) IdentityForUser(ctx context.Context, userID string) (*identity.Identity, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return identityOf(user), nil
}

func identityOf(user *models.User) *identity.Identity {
	return &identity.Identity{
		UserID:      user.UserID,
		Username:    user.Username,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
}
