package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GunarsK-portfolio/review-service/internal/models"
	"github.com/GunarsK-portfolio/review-service/internal/repository"
	"gorm.io/gorm"
)

const duplicateReviewText = "you have already reviewed this title"

// ReviewInput holds review fields supplied by a client. Nil fields are left
// unchanged on update.
type ReviewInput struct {
	Text  *string
	Score *int
}

// ReviewService manages reviews of titles and the comments under them.
// Authors are always bound from the acting user.
type ReviewService interface {
	ListReviews(ctx context.Context, titleID int64, page repository.Page) ([]models.Review, int64, error)
	GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	CreateReview(ctx context.Context, titleID int64, author *models.User, input ReviewInput) (*models.Review, error)
	UpdateReview(ctx context.Context, review *models.Review, input ReviewInput) (*models.Review, error)
	DeleteReview(ctx context.Context, review *models.Review) error

	ListComments(ctx context.Context, titleID, reviewID int64, page repository.Page) ([]models.Comment, int64, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	CreateComment(ctx context.Context, titleID, reviewID int64, author *models.User, text *string) (*models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment, text *string) (*models.Comment, error)
	DeleteComment(ctx context.Context, comment *models.Comment) error
}

type reviewService struct {
	titleRepo   repository.TitleRepository
	reviewRepo  repository.ReviewRepository
	commentRepo repository.CommentRepository
}

// NewReviewService creates a new ReviewService instance.
func NewReviewService(
	titleRepo repository.TitleRepository,
	reviewRepo repository.ReviewRepository,
	commentRepo repository.CommentRepository,
) ReviewService {
	return &reviewService{
		titleRepo:   titleRepo,
		reviewRepo:  reviewRepo,
		commentRepo: commentRepo,
	}
}

// ============================================================================
// Reviews
// ============================================================================

func (s *reviewService) ListReviews(ctx context.Context, titleID int64, page repository.Page) ([]models.Review, int64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.List(ctx, titleID, page)
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("review", reviewID)
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) CreateReview(ctx context.Context, titleID int64, author *models.User, input ReviewInput) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if input.Text == nil {
		verr.Add("text", "text is required")
	}
	if input.Score == nil {
		verr.Add("score", "score is required")
	}
	validateReview(verr, input)
	if verr.HasErrors() {
		return nil, verr
	}

	exists, err := s.reviewRepo.ExistsForAuthor(ctx, titleID, author.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewValidationError("review", duplicateReviewText)
	}

	review := &models.Review{
		Text:     *input.Text,
		Score:    *input.Score,
		TitleID:  titleID,
		AuthorID: author.ID,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("review", duplicateReviewText)
		}
		return nil, err
	}
	review.Author = *author
	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, review *models.Review, input ReviewInput) (*models.Review, error) {
	verr := &ValidationError{}
	validateReview(verr, input)
	if verr.HasErrors() {
		return nil, verr
	}

	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = *input.Score
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, review *models.Review) error {
	return s.reviewRepo.Delete(ctx, review)
}

func validateReview(verr *ValidationError, input ReviewInput) {
	if input.Text != nil && *input.Text == "" {
		verr.Add("text", "text may not be blank")
	}
	if input.Score != nil && (*input.Score < models.MinScore || *input.Score > models.MaxScore) {
		verr.Add("score", fmt.Sprintf("score must be between %d and %d", models.MinScore, models.MaxScore))
	}
}

// ============================================================================
// Comments
// ============================================================================

func (s *reviewService) ListComments(ctx context.Context, titleID, reviewID int64, page repository.Page) ([]models.Comment, int64, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.List(ctx, reviewID, page)
}

func (s *reviewService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.FindByID(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("comment", commentID)
		}
		return nil, err
	}
	return comment, nil
}

func (s *reviewService) CreateComment(ctx context.Context, titleID, reviewID int64, author *models.User, text *string) (*models.Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	if text == nil || *text == "" {
		return nil, NewValidationError("text", "text is required")
	}

	comment := &models.Comment{Text: *text, ReviewID: reviewID, AuthorID: author.ID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *author
	return comment, nil
}

func (s *reviewService) UpdateComment(ctx context.Context, comment *models.Comment, text *string) (*models.Comment, error) {
	if text == nil {
		return comment, nil
	}
	if *text == "" {
		return nil, NewValidationError("text", "text may not be blank")
	}

	comment.Text = *text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *reviewService) DeleteComment(ctx context.Context, comment *models.Comment) error {
	return s.commentRepo.Delete(ctx, comment)
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.FindByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("title", titleID)
		}
		return err
	}
	return nil
}
