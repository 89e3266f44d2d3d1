package repository

import (
	"context"
	"fmt"

	"github.com/GunarsK-portfolio/review-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	List(ctx context.Context, reviewID int64, page Page) ([]models.Comment, int64, error)
	FindByID(ctx context.Context, reviewID, commentID int64) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository instance.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) List(ctx context.Context, reviewID int64, page Page) ([]models.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Comment{}).Where("review_id = ?", reviewID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count comments for review %d: %w", reviewID, err)
	}

	var comments []models.Comment
	err := page.apply(query.Preload("Author").Order("pub_date DESC").Order("id DESC")).Find(&comments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments for review %d: %w", reviewID, err)
	}
	return comments, total, nil
}

func (r *commentRepository) FindByID(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("review_id = ?", reviewID).
		First(&comment, commentID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find comment %d for review %d: %w", commentID, reviewID, err)
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment for review %d: %w", comment.ReviewID, err)
	}
	return nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Model(comment).Omit(clause.Associations).Update("text", comment.Text).Error
	if err != nil {
		return fmt.Errorf("failed to update comment %d: %w", comment.ID, err)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Delete(comment).Error; err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", comment.ID, err)
	}
	return nil
}
