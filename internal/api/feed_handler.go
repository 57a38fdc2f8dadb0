package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/core"
	"hoa-backend-go/internal/models"
)

// FeedHandler serves announcements, comments and likes.
type FeedHandler struct {
	feed   core.FeedService
	logger *zap.Logger
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feed core.FeedService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{feed: feed, logger: logger}
}

// ListPosts handles GET /posts?limit=&startAfter=
func (h *FeedHandler) ListPosts(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	page, ok := pageFrom(c)
	if !ok {
		return
	}
	posts, err := h.feed.ListPosts(c.Request.Context(), actor, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, PageResponse{
		Items:          posts,
		NextStartAfter: nextCursor(len(posts), core.ClampPage(page).Limit, func() string { return posts[len(posts)-1].ID }),
	})
}

// StreamPosts handles GET /posts/stream: a "posts" event with the newest
// page every time the feed changes.
func (h *FeedHandler) StreamPosts(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	streamEvents(c, h.logger, func(send func(string, interface{}) error) error {
		return h.feed.WatchFeed(c.Request.Context(), actor, limit, func(posts []*models.Post) error {
			return send("posts", posts)
		})
	})
}

// CreatePost handles POST /posts
func (h *FeedHandler) CreatePost(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	p, err := h.feed.CreatePost(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GetPost handles GET /posts/:postId
func (h *FeedHandler) GetPost(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	p, err := h.feed.GetPost(c.Request.Context(), actor, c.Param("postId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdatePost handles PATCH /posts/:postId
func (h *FeedHandler) UpdatePost(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	p, err := h.feed.UpdatePost(c.Request.Context(), actor, c.Param("postId"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePost handles DELETE /posts/:postId
func (h *FeedHandler) DeletePost(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	if err := h.feed.DeletePost(c.Request.Context(), actor, c.Param("postId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Like handles PUT /posts/:postId/like
func (h *FeedHandler) Like(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	st, err := h.feed.Like(c.Request.Context(), actor, c.Param("postId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Unlike handles DELETE /posts/:postId/like
func (h *FeedHandler) Unlike(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	st, err := h.feed.Unlike(c.Request.Context(), actor, c.Param("postId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// ListComments handles GET /posts/:postId/comments
func (h *FeedHandler) ListComments(c *gin.Context) {
	page, ok := pageFrom(c)
	if !ok {
		return
	}
	comments, err := h.feed.ListComments(c.Request.Context(), c.Param("postId"), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, PageResponse{
		Items:          comments,
		NextStartAfter: nextCursor(len(comments), core.ClampPage(page).Limit, func() string { return comments[len(comments)-1].ID }),
	})
}

// AddComment handles POST /posts/:postId/comments
func (h *FeedHandler) AddComment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	comment, err := h.feed.AddComment(c.Request.Context(), actor, c.Param("postId"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment handles DELETE /posts/:postId/comments/:commentId
func (h *FeedHandler) DeleteComment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	if err := h.feed.DeleteComment(c.Request.Context(), actor, c.Param("postId"), c.Param("commentId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
