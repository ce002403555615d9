package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blogcms/internal/forms"
	"blogcms/internal/identity"
	"blogcms/internal/models"
	"blogcms/internal/repository"
	"blogcms/internal/storage"
)

type Profile struct {
	User    *models.User
	Profile *models.UserProfile
}

type UserService interface {
	Profile(ctx context.Context, actor *identity.Identity) (*Profile, error)
	UpdateProfile(ctx context.Context, actor *identity.Identity, values map[string]string, avatar *Upload) (*Profile, error)
	DeleteUser(ctx context.Context, actor *identity.Identity, userID string) error
}

type userService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	storage     storage.Storage
	log         *logrus.Logger
}

func NewUserService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, storage storage.Storage, log *logrus.Logger) UserService {
	return &userService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		storage:     storage,
		log:         log,
	}
}

// Profile creates the profile on first access.
func (s *userService) Profile(ctx context.Context, actor *identity.Identity) (*Profile, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	return &Profile{User: user, Profile: profile}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *identity.Identity, values map[string]string, avatar *Upload) (*Profile, error) {
	current, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}

	if err := invalid(forms.Profile.Validate(values)); err != nil {
		return nil, err
	}

	profile := current.Profile
	profile.Bio = strings.TrimSpace(values["bio"])
	profile.Newsletter = checked(values["newsletter"])

	var replaced string
	if avatar != nil && avatar.Size > 0 {
		objectName, err := s.storage.UploadImage(ctx, storage.PrefixAvatars, avatar.FileName, avatar.Reader, avatar.Size)
		if err != nil {
			return nil, fmt.Errorf("upload avatar: %w", err)
		}
		if profile.Avatar != nil {
			replaced = *profile.Avatar
		}
		profile.Avatar = &objectName
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	if replaced != "" {
		if err := s.storage.DeleteImage(ctx, replaced); err != nil {
			s.log.WithError(err).WithField("object", replaced).Warn("failed to delete old avatar")
		}
	}

	return current, nil
}

// DeleteUser is reserved to superusers. Everything the user owns goes with
// the row.
func (s *userService) DeleteUser(ctx context.Context, actor *identity.Identity, userID string) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.IsSuperuser {
		return fmt.Errorf("delete user %s: %w", userID, ErrPermissionDenied)
	}

	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("user %q: %w", userID, ErrNotFound)
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "by": actor.Username}).Info("user deleted")

	return nil
}
