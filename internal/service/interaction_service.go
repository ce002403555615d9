package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blogcms/internal/forms"
	"blogcms/internal/identity"
	"blogcms/internal/mailer"
	"blogcms/internal/models"
	"blogcms/internal/repository"
)

// CommentTimeLayout renders comment timestamps, e.g. "March 07, 2025 at 02:15 PM".
const CommentTimeLayout = "January 02, 2006 at 03:04 PM"

const SubscribedMessage = "Successfully subscribed to our newsletter!"

type ReactionResult struct {
	Reactions    []models.ReactionCount
	UserReaction string
}

type ReactionService interface {
	React(ctx context.Context, actor *identity.Identity, postID, reactionType string) (*ReactionResult, error)
}

type CommentResult struct {
	Comment   *models.Comment
	Author    string
	Content   string
	CreatedAt string
}

type CommentService interface {
	Submit(ctx context.Context, actor *identity.Identity, postID string, values map[string]string) (*CommentResult, error)
	Recent(ctx context.Context, limit int) ([]models.CommentView, error)
	SetApproval(ctx context.Context, actor *identity.Identity, commentIDs []string, approved bool) (int64, error)
}

type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (repository.SubscribeResult, error)
	Unsubscribe(ctx context.Context, email string) error
}

type reactionService struct {
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
}

func NewReactionService(postRepo repository.PostRepository, reactionRepo repository.ReactionRepository) ReactionService {
	return &reactionService{postRepo: postRepo, reactionRepo: reactionRepo}
}

func (s *reactionService) React(ctx context.Context, actor *identity.Identity, postID, reactionType string) (*ReactionResult, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	if err := invalid(forms.Reaction.Validate(map[string]string{"reaction_type": reactionType})); err != nil {
		return nil, err
	}

	if _, err := publicPost(ctx, s.postRepo, postID); err != nil {
		return nil, err
	}

	reaction, err := s.reactionRepo.Upsert(ctx, postID, actor.UserID, reactionType)
	if err != nil {
		return nil, err
	}

	counts, err := s.reactionRepo.CountByType(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &ReactionResult{Reactions: counts, UserReaction: reaction.ReactionType}, nil
}

type commentService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
}

func NewCommentService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, userRepo repository.UserRepository) CommentService {
	return &commentService{postRepo: postRepo, commentRepo: commentRepo, userRepo: userRepo}
}

func (s *commentService) Submit(ctx context.Context, actor *identity.Identity, postID string, values map[string]string) (*CommentResult, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	if err := invalid(forms.Comment.Validate(values)); err != nil {
		return nil, err
	}

	if _, err := publicPost(ctx, s.postRepo, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:     postID,
		AuthorID:   actor.UserID,
		Content:    strings.TrimSpace(values["content"]),
		IsApproved: true,
	}

	if parentID := strings.TrimSpace(values["parent_id"]); parentID != "" {
		parent, err := s.commentRepo.GetByID(ctx, parentID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if parent == nil || parent.PostID != postID {
			return nil, fieldError("parent_id", "Select a valid choice.")
		}
		comment.ParentID = &parentID
	}

	author, err := s.userRepo.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return &CommentResult{
		Comment:   comment,
		Author:    author.DisplayName(),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.Format(CommentTimeLayout),
	}, nil
}

func (s *commentService) Recent(ctx context.Context, limit int) ([]models.CommentView, error) {
	return s.commentRepo.ListRecent(ctx, limit)
}

// SetApproval flips the approval flag on every listed comment. Malformed ids
// are skipped.
func (s *commentService) SetApproval(ctx context.Context, actor *identity.Identity, commentIDs []string, approved bool) (int64, error) {
	if err := requireStaff(actor); err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(commentIDs))
	for _, id := range commentIDs {
		if _, err := uuid.Parse(id); err == nil {
			ids = append(ids, id)
		}
	}

	return s.commentRepo.SetApproval(ctx, ids, approved)
}

type newsletterService struct {
	newsletterRepo repository.NewsletterRepository
	mailer         mailer.Mailer
	log            *logrus.Logger
}

func NewNewsletterService(newsletterRepo repository.NewsletterRepository, mailer mailer.Mailer, log *logrus.Logger) NewsletterService {
	return &newsletterService{newsletterRepo: newsletterRepo, mailer: mailer, log: log}
}

// Subscribe creates or reactivates the address. Subscribing an active
// address is a no-op that still succeeds.
func (s *newsletterService) Subscribe(ctx context.Context, email string) (repository.SubscribeResult, error) {
	email = normalizeEmail(email)

	if err := invalid(forms.Newsletter.Validate(map[string]string{"email": email})); err != nil {
		return 0, err
	}

	result, err := s.newsletterRepo.Subscribe(ctx, email)
	if err != nil {
		return 0, err
	}

	if result != repository.SubscribeAlreadyActive {
		if err := s.mailer.SendWelcome(email); err != nil {
			s.log.WithError(err).WithField("email", email).Warn("welcome mail not sent")
		}
	}

	s.log.WithFields(logrus.Fields{"email": email, "result": result.String()}).Info("newsletter subscribe")

	return result, nil
}

func (s *newsletterService) Unsubscribe(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	if err := invalid(forms.Newsletter.Validate(map[string]string{"email": email})); err != nil {
		return err
	}

	return s.newsletterRepo.Unsubscribe(ctx, email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// publicPost loads a published, visible post. Malformed ids and hidden posts
// are both NotFound.
func publicPost(ctx context.Context, repo repository.PostRepository, postID string) (*models.Post, error) {
	if _, err := uuid.Parse(postID); err != nil {
		return nil, fmt.Errorf("post %q: %w", postID, ErrNotFound)
	}

	post, err := repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !post.IsPublic() {
		return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}

	return post, nil
}
