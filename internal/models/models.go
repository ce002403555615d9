package models

import (
	"strings"
	"time"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ReactionTypes lists the accepted reactions in display order.
var ReactionTypes = []string{"like", "love", "happy", "wow", "sad"}

var reactionEmoji = map[string]string{
	"like":  "👍",
	"love":  "❤️",
	"happy": "😄",
	"wow":   "😮",
	"sad":   "😢",
}

func IsReactionType(value string) bool {
	_, ok := reactionEmoji[value]
	return ok
}

func ReactionEmoji(value string) string {
	return reactionEmoji[value]
}

type User struct {
	UserID                 string     `json:"userId" db:"user_id"`
	Username               string     `json:"username" db:"username"`
	Email                  string     `json:"email" db:"email"`
	FirstName              string     `json:"firstName" db:"first_name"`
	LastName               string     `json:"lastName" db:"last_name"`
	PasswordHash           string     `json:"-" db:"password_hash"`
	IsStaff                bool       `json:"isStaff" db:"is_staff"`
	IsSuperuser            bool       `json:"isSuperuser" db:"is_superuser"`
	RefreshToken           *string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime *time.Time `json:"-" db:"refresh_token_expiry_time"`
	DateJoined             time.Time  `json:"dateJoined" db:"date_joined"`
}

// DisplayName is the full name when one is set, otherwise the username.
func (u *User) DisplayName() string {
	return displayName(u.FirstName, u.LastName, u.Username)
}

type UserProfile struct {
	UserID     string    `json:"userId" db:"user_id"`
	Bio        string    `json:"bio" db:"bio"`
	Avatar     *string   `json:"avatar" db:"avatar"`
	Newsletter bool      `json:"newsletter" db:"newsletter"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

type Category struct {
	CategoryID  string    `json:"categoryId" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	Color       string    `json:"color" db:"color"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	PostCount   int       `json:"postCount" db:"post_count"`
}

type Post struct {
	PostID             string     `json:"postId" db:"post_id"`
	Title              string     `json:"title" db:"title"`
	Slug               string     `json:"slug" db:"slug"`
	Content            string     `json:"content" db:"content"`
	Excerpt            string     `json:"excerpt" db:"excerpt"`
	FeaturedImage      *string    `json:"featuredImage" db:"featured_image"`
	CategoryID         *string    `json:"categoryId" db:"category_id"`
	AuthorID           string     `json:"authorId" db:"author_id"`
	Status             string     `json:"status" db:"status"`
	IsVisible          bool       `json:"isVisible" db:"is_visible"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at"`
	PublishedAt        *time.Time `json:"publishedAt" db:"published_at"`
	ScheduledPublishAt *time.Time `json:"scheduledPublishAt" db:"scheduled_publish_at"`
	ViewsCount         int        `json:"viewsCount" db:"views_count"`
	Featured           bool       `json:"featured" db:"featured"`
}

// IsPublic reports whether the post may appear on public pages.
func (p *Post) IsPublic() bool {
	return p.Status == StatusPublished && p.IsVisible
}

// ReadingTime estimates minutes to read at 200 words per minute, never less than one.
func (p *Post) ReadingTime() int {
	minutes := len(strings.Fields(p.Content)) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

// PostSummary is a post joined with its author, category and interaction counts.
type PostSummary struct {
	Post
	AuthorUsername  string  `json:"authorUsername" db:"author_username"`
	AuthorFirstName string  `json:"-" db:"author_first_name"`
	AuthorLastName  string  `json:"-" db:"author_last_name"`
	CategoryName    *string `json:"categoryName" db:"category_name"`
	CategorySlug    *string `json:"categorySlug" db:"category_slug"`
	CategoryColor   *string `json:"categoryColor" db:"category_color"`
	CommentCount    int     `json:"commentCount" db:"comment_count"`
	ReactionCount   int     `json:"reactionCount" db:"reaction_count"`
}

func (p *PostSummary) AuthorName() string {
	return displayName(p.AuthorFirstName, p.AuthorLastName, p.AuthorUsername)
}

type Comment struct {
	CommentID  string    `json:"commentId" db:"comment_id"`
	PostID     string    `json:"postId" db:"post_id"`
	AuthorID   string    `json:"authorId" db:"author_id"`
	ParentID   *string   `json:"parentId" db:"parent_id"`
	Content    string    `json:"content" db:"content"`
	IsApproved bool      `json:"isApproved" db:"is_approved"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// CommentView is a comment joined with its author and post title.
type CommentView struct {
	Comment
	AuthorUsername  string `json:"authorUsername" db:"author_username"`
	AuthorFirstName string `json:"-" db:"author_first_name"`
	AuthorLastName  string `json:"-" db:"author_last_name"`
	PostTitle       string `json:"postTitle" db:"post_title"`
}

func (c *CommentView) AuthorName() string {
	return displayName(c.AuthorFirstName, c.AuthorLastName, c.AuthorUsername)
}

type Reaction struct {
	ReactionID   string    `json:"reactionId" db:"reaction_id"`
	PostID       string    `json:"postId" db:"post_id"`
	UserID       string    `json:"userId" db:"user_id"`
	ReactionType string    `json:"reactionType" db:"reaction_type"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type ReactionCount struct {
	ReactionType string `json:"reaction_type" db:"reaction_type"`
	Count        int    `json:"count" db:"count"`
}

type Newsletter struct {
	NewsletterID string    `json:"newsletterId" db:"newsletter_id"`
	Email        string    `json:"email" db:"email"`
	SubscribedAt time.Time `json:"subscribedAt" db:"subscribed_at"`
	IsActive     bool      `json:"isActive" db:"is_active"`
}

// DashboardStats backs the admin dashboard counters.
type DashboardStats struct {
	TotalPosts     int `db:"total_posts"`
	PublishedPosts int `db:"published_posts"`
	DraftPosts     int `db:"draft_posts"`
	TotalComments  int `db:"total_comments"`
	TotalReactions int `db:"total_reactions"`
}

func displayName(first, last, username string) string {
	full := strings.TrimSpace(first + " " + last)
	if full != "" {
		return full
	}
	return username
}
