package core

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/models"
	"hoa-backend-go/internal/sanitize"
)

const (
	maxPostLength    = 5000
	maxCommentLength = 2000
	feedStreamSize   = 20
)

type feedService struct {
	posts    db.PostRepository
	members  db.MemberRepository
	files    FileStore
	audit    AuditService
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewFeedService creates a FeedService.
func NewFeedService(posts db.PostRepository, members db.MemberRepository, files FileStore, audit AuditService, notifier Notifier, logger *zap.Logger) FeedService {
	return &feedService{
		posts:    posts,
		members:  members,
		files:    files,
		audit:    audit,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func cleanContent(raw string, max int) (string, error) {
	content := sanitize.Text(raw)
	if n := utf8.RuneCountInString(content); n == 0 || n > max {
		return "", fmt.Errorf("%w: %d characters, allowed 1..%d", ErrInvalidContent, n, max)
	}
	return content, nil
}

func (s *feedService) loadPost(ctx context.Context, postID string) (*models.Post, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrPostNotFound, err)
	}
	return p, err
}

func (s *feedService) author(ctx context.Context, actor Actor) (*models.Member, error) {
	m, err := s.members.GetByID(ctx, actor.ID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrNotAMember, err)
	}
	return m, err
}

// signAuthorPhotos fills AuthorPhotoURL for authors whose photo is stored in the bucket.
func (s *feedService) signAuthorPhotos(posts []*models.Post) {
	signed := make(map[string]string)
	for _, p := range posts {
		if p.AuthorPhotoPath == "" {
			continue
		}
		u, ok := signed[p.AuthorPhotoPath]
		if !ok {
			u = signURL(s.files, s.logger, p.AuthorPhotoPath)
			signed[p.AuthorPhotoPath] = u
		}
		p.AuthorPhotoURL = u
	}
}

// markLiked fills LikedByMe on posts for actor.
func (s *feedService) markLiked(ctx context.Context, actor Actor, posts []*models.Post) error {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	liked, err := s.posts.LikedBy(ctx, ids, actor.ID)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.LikedByMe = liked[p.ID]
	}
	return nil
}

func (s *feedService) ListPosts(ctx context.Context, actor Actor, page db.Page) ([]*models.Post, error) {
	posts, err := s.posts.List(ctx, ClampPage(page))
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrPostNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	if err := s.markLiked(ctx, actor, posts); err != nil {
		return nil, err
	}
	s.signAuthorPhotos(posts)
	return posts, nil
}

func (s *feedService) GetPost(ctx context.Context, actor Actor, postID string) (*models.Post, error) {
	p, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.markLiked(ctx, actor, []*models.Post{p}); err != nil {
		return nil, err
	}
	s.signAuthorPhotos([]*models.Post{p})
	return p, nil
}

// CreatePost publishes an announcement. Only staff may post.
func (s *feedService) CreatePost(ctx context.Context, actor Actor, req models.CreatePostRequest) (*models.Post, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only officers can post announcements", ErrForbidden)
	}
	content, err := cleanContent(req.Content, maxPostLength)
	if err != nil {
		return nil, err
	}
	author, err := s.author(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	post := &models.Post{
		AuthorID:        actor.ID,
		AuthorName:      author.FullName(),
		AuthorPhotoPath: author.PhotoPath,
		Content:         content,
		ImageURL:        req.ImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if author.PhotoPath == "" {
		post.AuthorPhotoURL = author.PhotoURL
	}
	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	s.signAuthorPhotos([]*models.Post{post})

	s.notifier.Notify(ctx, models.NotificationEvent{
		Type:     models.NotifyAnnouncementCreated,
		Title:    "New announcement from " + post.AuthorName,
		Body:     preview(post.Content, 120),
		Audience: models.AudienceAll,
		Data:     map[string]string{"postId": post.ID},
	})
	return post, nil
}

func canModerate(actor Actor, authorID string) bool {
	return actor.ID == authorID || actor.IsAdmin()
}

func (s *feedService) UpdatePost(ctx context.Context, actor Actor, postID string, req models.UpdatePostRequest) (*models.Post, error) {
	p, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !canModerate(actor, p.AuthorID) {
		return nil, fmt.Errorf("%w: post '%s' belongs to another author", ErrForbidden, postID)
	}
	if req.Content != nil {
		if p.Content, err = cleanContent(*req.Content, maxPostLength); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.posts.UpdateContent(ctx, p.ID, p.Content, p.ImageURL, p.UpdatedAt); err != nil {
		return nil, err
	}
	s.signAuthorPhotos([]*models.Post{p})
	return p, nil
}

func (s *feedService) DeletePost(ctx context.Context, actor Actor, postID string) error {
	p, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if !canModerate(actor, p.AuthorID) {
		return fmt.Errorf("%w: post '%s' belongs to another author", ErrForbidden, postID)
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID:     actor.ID,
		Action:     ActionPostDelete,
		TargetType: "POST",
		TargetID:   postID,
		Details:    map[string]interface{}{"authorId": p.AuthorID},
	})
	return nil
}

// Like is idempotent: liking twice leaves the count unchanged.
func (s *feedService) Like(ctx context.Context, actor Actor, postID string) (*LikeState, error) {
	n, err := s.posts.AddReact(ctx, postID, actor.ID, s.now().UTC())
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrPostNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	return &LikeState{Liked: true, ReactsCount: n}, nil
}

// Unlike is idempotent: unliking a post that is not liked is a no-op.
func (s *feedService) Unlike(ctx context.Context, actor Actor, postID string) (*LikeState, error) {
	n, err := s.posts.RemoveReact(ctx, postID, actor.ID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrPostNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	return &LikeState{Liked: false, ReactsCount: n}, nil
}

func (s *feedService) ListComments(ctx context.Context, postID string, page db.Page) ([]*models.Comment, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.posts.ListComments(ctx, postID, ClampPage(page))
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrCommentNotFound, err)
	}
	return comments, err
}

func (s *feedService) AddComment(ctx context.Context, actor Actor, postID string, req models.CreateCommentRequest) (*models.Comment, error) {
	content, err := cleanContent(req.Content, maxCommentLength)
	if err != nil {
		return nil, err
	}
	author, err := s.author(ctx, actor)
	if err != nil {
		return nil, err
	}
	c := &models.Comment{
		PostID:     postID,
		AuthorID:   actor.ID,
		AuthorName: author.FullName(),
		Content:    content,
		CreatedAt:  s.now().UTC(),
	}
	if _, err := s.posts.AddComment(ctx, c); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrPostNotFound, err)
		}
		return nil, err
	}
	return c, nil
}

// DeleteComment may be done by the comment's author, the post's author or an admin.
func (s *feedService) DeleteComment(ctx context.Context, actor Actor, postID, commentID string) error {
	p, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	c, err := s.posts.GetComment(ctx, postID, commentID)
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrCommentNotFound, err)
	}
	if err != nil {
		return err
	}
	if actor.ID != c.AuthorID && !canModerate(actor, p.AuthorID) {
		return fmt.Errorf("%w: comment '%s' belongs to another member", ErrForbidden, commentID)
	}
	if err := s.posts.DeleteComment(ctx, postID, commentID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %v", ErrCommentNotFound, err)
		}
		return err
	}
	return nil
}

// WatchFeed streams the newest posts to fn until ctx ends.
func (s *feedService) WatchFeed(ctx context.Context, actor Actor, limit int, fn func([]*models.Post) error) error {
	if limit <= 0 || limit > maxPageSize {
		limit = feedStreamSize
	}
	return s.posts.Watch(ctx, limit, func(posts []*models.Post) error {
		if err := s.markLiked(ctx, actor, posts); err != nil {
			s.logger.Warn("failed to load likes for feed stream", zap.String("member_id", actor.ID), zap.Error(err))
		}
		s.signAuthorPhotos(posts)
		return fn(posts)
	})
}

// preview shortens s to at most n runes for notification bodies.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
