package repository

import (
	"context"
	"fmt"

	"github.com/GunarsK-portfolio/review-service/internal/models"
	"gorm.io/gorm"
)

// GenreRepository defines the interface for genre data operations.
type GenreRepository interface {
	List(ctx context.Context, search string, page Page) ([]models.Genre, int64, error)
	FindBySlug(ctx context.Context, slug string) (*models.Genre, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	Create(ctx context.Context, genre *models.Genre) error
	Delete(ctx context.Context, genre *models.Genre) error
}

type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository creates a new GenreRepository instance.
func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) List(ctx context.Context, search string, page Page) ([]models.Genre, int64, error) {
	query := searchBySlugOrName(r.db.WithContext(ctx).Model(&models.Genre{}), search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count genres: %w", err)
	}

	var genres []models.Genre
	if err := page.apply(query.Order("slug")).Find(&genres).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, total, nil
}

func (r *genreRepository) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&genre).Error; err != nil {
		return nil, fmt.Errorf("failed to find genre %s: %w", slug, err)
	}
	return &genre, nil
}

// FindBySlugs returns the genres matching slugs, ordered by slug. Unknown
// slugs are simply absent from the result.
func (r *genreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	var genres []models.Genre
	if len(slugs) == 0 {
		return genres, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Order("slug").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to find genres: %w", err)
	}
	return genres, nil
}

func (r *genreRepository) Create(ctx context.Context, genre *models.Genre) error {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		return fmt.Errorf("failed to create genre %s: %w", genre.Slug, err)
	}
	return nil
}

// Delete removes the genre and its title associations. Titles stay.
func (r *genreRepository) Delete(ctx context.Context, genre *models.Genre) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("genre_id = ?", genre.ID).Delete(&models.TitleGenre{}).Error; err != nil {
			return err
		}
		return tx.Delete(genre).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete genre %s: %w", genre.Slug, err)
	}
	return nil
}
