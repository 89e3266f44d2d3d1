package handlers

import (
	"net/http"

	"github.com/GunarsK-portfolio/review-service/internal/middleware"
	"github.com/GunarsK-portfolio/review-service/internal/models"
	"github.com/GunarsK-portfolio/review-service/internal/policy"
	"github.com/GunarsK-portfolio/review-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

// ReviewHandler serves reviews of a title and the comments under them.
type ReviewHandler struct {
	reviews  service.ReviewService
	pageSize int
	log      hclog.Logger
}

// NewReviewHandler creates a new ReviewHandler instance.
func NewReviewHandler(reviews service.ReviewService, pageSize int, log hclog.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, pageSize: pageSize, log: log}
}

// ReviewRequest is the payload for review writes. The author is always the
// requesting user; any author field in the body is ignored.
type ReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// CommentRequest is the payload for comment writes.
type CommentRequest struct {
	Text *string `json:"text"`
}

// ============================================================================
// Reviews
// ============================================================================

// ListReviews godoc
// @Summary List reviews of a title, newest first
// @Tags reviews
// @Produce json
// @Param title_id path int true "Title ID"
// @Success 200 {object} PageResponse[ReviewView]
// @Failure 404 {object} ErrorResponse
// @Router /titles/{title_id}/reviews/ [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	page, ok := pageParams(c, h.pageSize)
	if !ok {
		return
	}

	reviews, total, err := h.reviews.ListReviews(c.Request.Context(), titleID, page)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, mapViews(reviews, reviewView), total, page))
}

// GetReview godoc
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Success 200 {object} ReviewView
// @Router /titles/{title_id}/reviews/{review_id}/ [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, ok := h.loadReview(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, reviewView(*review))
}

// CreateReview godoc
// @Summary Review a title; one review per user and title
// @Tags reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param title_id path int true "Title ID"
// @Param request body ReviewRequest true "Review"
// @Success 201 {object} ReviewView
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /titles/{title_id}/reviews/ [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	if !authorize(c, policy.ResourceReview, nil) {
		return
	}
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), titleID, middleware.CurrentUser(c), service.ReviewInput{
		Text:  req.Text,
		Score: req.Score,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, reviewView(*review))
}

// UpdateReview godoc
// @Summary Partially update a review
// @Tags reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param request body ReviewRequest true "Fields to change"
// @Success 200 {object} ReviewView
// @Failure 403 {object} ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id}/ [patch]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	if !authorize(c, policy.ResourceReview, nil) {
		return
	}
	review, ok := h.loadReview(c)
	if !ok || !authorize(c, policy.ResourceReview, &review.AuthorID) {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	review, err := h.reviews.UpdateReview(c.Request.Context(), review, service.ReviewInput{
		Text:  req.Text,
		Score: req.Score,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, reviewView(*review))
}

// DeleteReview godoc
// @Summary Delete a review with its comments
// @Tags reviews
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Success 204
// @Router /titles/{title_id}/reviews/{review_id}/ [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	if !authorize(c, policy.ResourceReview, nil) {
		return
	}
	review, ok := h.loadReview(c)
	if !ok || !authorize(c, policy.ResourceReview, &review.AuthorID) {
		return
	}

	if err := h.reviews.DeleteReview(c.Request.Context(), review); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// loadReview resolves the review named by the path, scoped to its title.
func (h *ReviewHandler) loadReview(c *gin.Context) (*models.Review, bool) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return nil, false
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return nil, false
	}

	review, err := h.reviews.GetReview(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return nil, false
	}
	return review, true
}

// ============================================================================
// Comments
// ============================================================================

// ListComments godoc
// @Summary List comments on a review, newest first
// @Tags comments
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Success 200 {object} PageResponse[CommentView]
// @Router /titles/{title_id}/reviews/{review_id}/comments/ [get]
func (h *ReviewHandler) ListComments(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return
	}
	page, ok := pageParams(c, h.pageSize)
	if !ok {
		return
	}

	comments, total, err := h.reviews.ListComments(c.Request.Context(), titleID, reviewID, page)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, mapViews(comments, commentView), total, page))
}

// GetComment godoc
// @Summary Get a comment
// @Tags comments
// @Produce json
// @Success 200 {object} CommentView
// @Router /titles/{title_id}/reviews/{review_id}/comments/{comment_id}/ [get]
func (h *ReviewHandler) GetComment(c *gin.Context) {
	comment, ok := h.loadComment(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, commentView(*comment))
}

// CreateComment godoc
// @Summary Comment on a review
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} CommentView
// @Router /titles/{title_id}/reviews/{review_id}/comments/ [post]
func (h *ReviewHandler) CreateComment(c *gin.Context) {
	if !authorize(c, policy.ResourceComment, nil) {
		return
	}
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := h.reviews.CreateComment(c.Request.Context(), titleID, reviewID, middleware.CurrentUser(c), req.Text)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, commentView(*comment))
}

// UpdateComment godoc
// @Summary Edit a comment
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CommentRequest true "Comment"
// @Success 200 {object} CommentView
// @Router /titles/{title_id}/reviews/{review_id}/comments/{comment_id}/ [patch]
func (h *ReviewHandler) UpdateComment(c *gin.Context) {
	if !authorize(c, policy.ResourceComment, nil) {
		return
	}
	comment, ok := h.loadComment(c)
	if !ok || !authorize(c, policy.ResourceComment, &comment.AuthorID) {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := h.reviews.UpdateComment(c.Request.Context(), comment, req.Text)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, commentView(*comment))
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags comments
// @Security BearerAuth
// @Success 204
// @Router /titles/{title_id}/reviews/{review_id}/comments/{comment_id}/ [delete]
func (h *ReviewHandler) DeleteComment(c *gin.Context) {
	if !authorize(c, policy.ResourceComment, nil) {
		return
	}
	comment, ok := h.loadComment(c)
	if !ok || !authorize(c, policy.ResourceComment, &comment.AuthorID) {
		return
	}

	if err := h.reviews.DeleteComment(c.Request.Context(), comment); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReviewHandler) loadComment(c *gin.Context) (*models.Comment, bool) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return nil, false
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return nil, false
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return nil, false
	}

	comment, err := h.reviews.GetComment(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return nil, false
	}
	return comment, true
}
