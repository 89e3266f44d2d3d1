package repository

import (
	"context"
	"fmt"

	"github.com/GunarsK-portfolio/review-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewRepository defines the interface for review data operations.
// Reviews are always scoped to their title and returned with Author loaded.
type ReviewRepository interface {
	List(ctx context.Context, titleID int64, page Page) ([]models.Review, int64, error)
	FindByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	ExistsForAuthor(ctx context.Context, titleID, authorID int64) (bool, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, review *models.Review) error
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new ReviewRepository instance.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) List(ctx context.Context, titleID int64, page Page) ([]models.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Review{}).Where("title_id = ?", titleID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews for title %d: %w", titleID, err)
	}

	var reviews []models.Review
	err := page.apply(query.Preload("Author").Order("pub_date DESC").Order("id DESC")).Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews for title %d: %w", titleID, err)
	}
	return reviews, total, nil
}

func (r *reviewRepository) FindByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Preload("Author").
		Where("title_id = ?", titleID).
		First(&review, reviewID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find review %d for title %d: %w", reviewID, titleID, err)
	}
	return &review, nil
}

func (r *reviewRepository) ExistsForAuthor(ctx context.Context, titleID, authorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check review for title %d: %w", titleID, err)
	}
	return count > 0, nil
}

// Create inserts the review. A second review by the same author for the same
// title fails with gorm.ErrDuplicatedKey.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review for title %d: %w", review.TitleID, err)
	}
	return nil
}

// Update writes text and score only; author, title and pub_date never change.
func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Model(review).Omit(clause.Associations).
		Select("text", "score").
		Updates(map[string]interface{}{"text": review.Text, "score": review.Score}).Error
	if err != nil {
		return fmt.Errorf("failed to update review %d: %w", review.ID, err)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", review.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Delete(review).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete review %d: %w", review.ID, err)
	}
	return nil
}
