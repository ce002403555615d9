package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blogcms/internal/forms"
	"blogcms/internal/identity"
	"blogcms/internal/models"
	"blogcms/internal/repository"
	"blogcms/internal/storage"
)

const (
	FeedPageSize     = 9
	ListingPageSize  = 12
	AdminPageSize    = 20
	featuredLimit    = 3
	relatedLimit     = 3
	dashboardRecents = 5
)

type Page struct {
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// paginate clamps number into [1, TotalPages]. An empty result still has one page.
func paginate(number, size, total int) Page {
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	return Page{Number: number, Size: size, TotalItems: total, TotalPages: pages}
}

func (p Page) Offset() int      { return (p.Number - 1) * p.Size }
func (p Page) HasPrevious() bool { return p.Number > 1 }
func (p Page) HasNext() bool     { return p.Number < p.TotalPages }
func (p Page) Previous() int     { return p.Number - 1 }
func (p Page) Next() int         { return p.Number + 1 }

type FeedPage struct {
	Posts []models.PostSummary
	Page  Page
}

type FeedQuery struct {
	CategoryID string
	Search     string
	Page       int
}

type HomePage struct {
	Feed       FeedPage
	Featured   []models.PostSummary
	Categories []models.Category
	TotalPosts int
}

type CategoryPage struct {
	Category   *models.Category
	Categories []models.Category
	Feed       FeedPage
}

type PostDetail struct {
	Post         *models.PostSummary
	Comments     []models.CommentView
	UserReaction string
	Related      []models.PostSummary
	Reactions    []models.ReactionCount
	ReadingTime  int
}

// Upload is a file received from a multipart form.
type Upload struct {
	FileName string
	Reader   io.Reader
	Size     int64
}

// PostInput is the raw post form.
type PostInput struct {
	Values map[string]string
	Image  *Upload
}

type PostService interface {
	Home(ctx context.Context, query FeedQuery) (*HomePage, error)
	CategoryFeed(ctx context.Context, slug string, page int) (*CategoryPage, error)
	Search(ctx context.Context, query string, page int) (*FeedPage, error)
	Detail(ctx context.Context, slug, viewerID string) (*PostDetail, error)

	List(ctx context.Context, page int) (*FeedPage, error)
	Get(ctx context.Context, postID string) (*models.Post, error)
	Create(ctx context.Context, actor *identity.Identity, input PostInput) (*models.Post, error)
	Update(ctx context.Context, actor *identity.Identity, postID string, input PostInput) (*models.Post, error)
	Delete(ctx context.Context, actor *identity.Identity, postID string) error
}

type postService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
	storage      storage.Storage
	log          *logrus.Logger
}

func NewPostService(rep *repository.Repository, storage storage.Storage, log *logrus.Logger) PostService {
	return &postService{
		postRepo:     rep.Post,
		categoryRepo: rep.Category,
		commentRepo:  rep.Comment,
		reactionRepo: rep.Reaction,
		storage:      storage,
		log:          log,
	}
}

func (p *postService) Home(ctx context.Context, query FeedQuery) (*HomePage, error) {
	filter := repository.PostFilter{Search: strings.TrimSpace(query.Search)}
	if _, err := uuid.Parse(query.CategoryID); err == nil {
		filter.CategoryID = query.CategoryID
	}

	feed, err := p.feed(ctx, filter, query.Page, FeedPageSize)
	if err != nil {
		return nil, err
	}

	featured, err := p.postRepo.ListFeatured(ctx, featuredLimit)
	if err != nil {
		return nil, err
	}

	categories, err := p.categoryRepo.ListWithPublishedPosts(ctx)
	if err != nil {
		return nil, err
	}

	total := feed.Page.TotalItems
	if filter.CategoryID != "" || filter.Search != "" {
		total, err = p.postRepo.CountPublished(ctx, repository.PostFilter{})
		if err != nil {
			return nil, err
		}
	}

	return &HomePage{
		Feed:       *feed,
		Featured:   featured,
		Categories: categories,
		TotalPosts: total,
	}, nil
}

func (p *postService) CategoryFeed(ctx context.Context, slug string, page int) (*CategoryPage, error) {
	category, err := p.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	feed, err := p.feed(ctx, repository.PostFilter{CategoryID: category.CategoryID}, page, ListingPageSize)
	if err != nil {
		return nil, err
	}

	categories, err := p.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return &CategoryPage{Category: category, Categories: categories, Feed: *feed}, nil
}

func (p *postService) Search(ctx context.Context, query string, page int) (*FeedPage, error) {
	return p.feed(ctx, repository.PostFilter{Search: strings.TrimSpace(query)}, page, ListingPageSize)
}

func (p *postService) feed(ctx context.Context, filter repository.PostFilter, number, size int) (*FeedPage, error) {
	total, err := p.postRepo.CountPublished(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := paginate(number, size, total)
	filter.Limit = page.Size
	filter.Offset = page.Offset()

	posts := []models.PostSummary{}
	if total > 0 {
		posts, err = p.postRepo.ListPublished(ctx, filter)
		if err != nil {
			return nil, err
		}
	}

	return &FeedPage{Posts: posts, Page: page}, nil
}

func (p *postService) Detail(ctx context.Context, slug, viewerID string) (*PostDetail, error) {
	post, err := p.postRepo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	views, err := p.postRepo.IncrementViews(ctx, post.PostID)
	if err != nil {
		return nil, err
	}
	post.ViewsCount = views

	comments, err := p.commentRepo.ListApprovedByPost(ctx, post.PostID)
	if err != nil {
		return nil, err
	}

	detail := &PostDetail{
		Post:        post,
		Comments:    comments,
		Related:     []models.PostSummary{},
		ReadingTime: post.ReadingTime(),
	}

	if viewerID != "" {
		reaction, err := p.reactionRepo.GetByPostAndUser(ctx, post.PostID, viewerID)
		switch {
		case err == nil:
			detail.UserReaction = reaction.ReactionType
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	detail.Related, err = p.postRepo.ListRelated(ctx, post.CategoryID, post.PostID, relatedLimit)
	if err != nil {
		return nil, err
	}

	detail.Reactions, err = p.reactionRepo.CountByType(ctx, post.PostID)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

func (p *postService) List(ctx context.Context, number int) (*FeedPage, error) {
	total, err := p.postRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	page := paginate(number, AdminPageSize, total)

	posts, err := p.postRepo.ListAll(ctx, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}

	return &FeedPage{Posts: posts, Page: page}, nil
}

func (p *postService) Get(ctx context.Context, postID string) (*models.Post, error) {
	if _, err := uuid.Parse(postID); err != nil {
		return nil, fmt.Errorf("post %q: %w", postID, ErrNotFound)
	}
	return p.postRepo.GetByID(ctx, postID)
}

func (p *postService) Create(ctx context.Context, actor *identity.Identity, input PostInput) (*models.Post, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	post := &models.Post{AuthorID: actor.UserID}
	if err := p.apply(ctx, post, input.Values); err != nil {
		return nil, err
	}

	uploaded, err := p.upload(ctx, input.Image)
	if err != nil {
		return nil, err
	}
	if uploaded != "" {
		post.FeaturedImage = &uploaded
	}

	err = saveWithSlug(ctx, post.Title, postSlugMaxLength, p.postRepo.SlugExists,
		func(s string) { post.Slug = s },
		func() error { return p.postRepo.Create(ctx, post) })
	if err != nil {
		p.discard(ctx, uploaded)
		return nil, err
	}

	p.log.WithFields(logrus.Fields{"post_id": post.PostID, "slug": post.Slug, "author": actor.Username}).Info("post created")

	return post, nil
}

func (p *postService) Update(ctx context.Context, actor *identity.Identity, postID string, input PostInput) (*models.Post, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	post, err := p.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := p.apply(ctx, post, input.Values); err != nil {
		return nil, err
	}

	uploaded, err := p.upload(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	var replaced string
	if uploaded != "" {
		if post.FeaturedImage != nil {
			replaced = *post.FeaturedImage
		}
		post.FeaturedImage = &uploaded
	}

	if err := p.postRepo.Update(ctx, post); err != nil {
		p.discard(ctx, uploaded)
		return nil, err
	}
	p.discard(ctx, replaced)

	p.log.WithFields(logrus.Fields{"post_id": post.PostID, "editor": actor.Username}).Info("post updated")

	return post, nil
}

// Delete is allowed to the post's author and to superusers.
func (p *postService) Delete(ctx context.Context, actor *identity.Identity, postID string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	post, err := p.Get(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != actor.UserID && !actor.IsSuperuser {
		return fmt.Errorf("delete post %s: %w", postID, ErrPermissionDenied)
	}

	if err := p.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if post.FeaturedImage != nil {
		p.discard(ctx, *post.FeaturedImage)
	}

	p.log.WithFields(logrus.Fields{"post_id": postID, "by": actor.Username}).Info("post deleted")

	return nil
}

// apply validates the post form and copies it onto post. The slug is left
// alone so existing links keep working after a title change.
func (p *postService) apply(ctx context.Context, post *models.Post, values map[string]string) error {
	errs := forms.Post.Validate(values)

	var categoryID *string
	if id := strings.TrimSpace(values["category"]); id != "" && !errs.Has("category") {
		if _, err := p.categoryRepo.GetByID(ctx, id); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			errs.Add("category", "Select a valid choice. That choice is not one of the available choices.")
		} else {
			categoryID = &id
		}
	}

	var scheduled *time.Time
	if raw := strings.TrimSpace(values["scheduled_publish_at"]); raw != "" && !errs.Has("scheduled_publish_at") {
		t, err := time.ParseInLocation(forms.DateTimeLayout, raw, time.Local)
		if err != nil {
			errs.Add("scheduled_publish_at", "Enter a valid date/time.")
		} else {
			scheduled = &t
		}
	}

	if err := invalid(errs); err != nil {
		return err
	}

	post.Title = strings.TrimSpace(values["title"])
	post.Excerpt = strings.TrimSpace(values["excerpt"])
	post.Content = strings.TrimSpace(values["content"])
	post.CategoryID = categoryID
	post.Status = values["status"]
	post.IsVisible = checked(values["is_visible"])
	post.Featured = checked(values["featured"])
	post.ScheduledPublishAt = scheduled

	if post.Status == models.StatusPublished && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	return nil
}

func (p *postService) upload(ctx context.Context, image *Upload) (string, error) {
	if image == nil || image.Size == 0 {
		return "", nil
	}

	objectName, err := p.storage.UploadImage(ctx, storage.PrefixPosts, image.FileName, image.Reader, image.Size)
	if err != nil {
		return "", fmt.Errorf("upload featured image: %w", err)
	}
	return objectName, nil
}

// discard removes an orphaned object. Failures are logged only.
func (p *postService) discard(ctx context.Context, objectName string) {
	if objectName == "" {
		return
	}
	if err := p.storage.DeleteImage(ctx, objectName); err != nil {
		p.log.WithError(err).WithField("object", objectName).Warn("failed to delete image")
	}
}

func requireStaff(actor *identity.Identity) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.IsStaff {
		return ErrPermissionDenied
	}
	return nil
}

// checked reads an HTML checkbox value.
func checked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
