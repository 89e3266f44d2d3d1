package repository

import (
	"context"
	"fmt"

	"github.com/GunarsK-portfolio/review-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TitleFilter narrows a title listing. Empty fields are ignored.
type TitleFilter struct {
	Genre    string
	Category string
	Name     string
	Year     int
}

// TitleRepository defines the interface for title data operations. Every
// title it returns has Category, Genres and Rating populated.
type TitleRepository interface {
	List(ctx context.Context, filter TitleFilter, page Page) ([]models.Title, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, title *models.Title, genreIDs []int64) error
	Update(ctx context.Context, title *models.Title, genreIDs []int64, replaceGenres bool) error
	Delete(ctx context.Context, title *models.Title) error
}

type titleRepository struct {
	db *gorm.DB
}

// NewTitleRepository creates a new TitleRepository instance.
func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) List(ctx context.Context, filter TitleFilter, page Page) ([]models.Title, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.Title{})

	if filter.Genre != "" {
		genreTitles := db.Table("title_genres").
			Select("title_genres.title_id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", filter.Genre)
		query = query.Where("titles.id IN (?)", genreTitles)
	}
	if filter.Category != "" {
		categoryIDs := db.Model(&models.Category{}).Select("id").Where("slug = ?", filter.Category)
		query = query.Where("titles.category_id IN (?)", categoryIDs)
	}
	if filter.Name != "" {
		query = query.Where("LOWER(titles.name) LIKE ?", containsPattern(filter.Name))
	}
	if filter.Year != 0 {
		query = query.Where("titles.year = ?", filter.Year)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count titles: %w", err)
	}

	var titles []models.Title
	err := page.apply(query.Preload("Category").Order("titles.name").Order("titles.id")).Find(&titles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list titles: %w", err)
	}

	if err := r.hydrate(ctx, titles); err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

func (r *titleRepository) FindByID(ctx context.Context, id int64) (*models.Title, error) {
	var title models.Title
	if err := r.db.WithContext(ctx).Preload("Category").First(&title, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find title %d: %w", id, err)
	}

	titles := []models.Title{title}
	if err := r.hydrate(ctx, titles); err != nil {
		return nil, err
	}
	return &titles[0], nil
}

func (r *titleRepository) Create(ctx context.Context, title *models.Title, genreIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(title).Error; err != nil {
			return err
		}
		return linkGenres(tx, title.ID, genreIDs)
	})
	if err != nil {
		return fmt.Errorf("failed to create title: %w", err)
	}
	return nil
}

// Update saves the title's own columns. Genre links are replaced only when
// replaceGenres is set.
func (r *titleRepository) Update(ctx context.Context, title *models.Title, genreIDs []int64, replaceGenres bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(title).Error; err != nil {
			return err
		}
		if !replaceGenres {
			return nil
		}
		if err := tx.Where("title_id = ?", title.ID).Delete(&models.TitleGenre{}).Error; err != nil {
			return err
		}
		return linkGenres(tx, title.ID, genreIDs)
	})
	if err != nil {
		return fmt.Errorf("failed to update title %d: %w", title.ID, err)
	}
	return nil
}

// Delete removes the title with its genre links, reviews and their comments.
func (r *titleRepository) Delete(ctx context.Context, title *models.Title) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviewIDs := tx.Model(&models.Review{}).Select("id").Where("title_id = ?", title.ID)
		if err := tx.Where("review_id IN (?)", reviewIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", title.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", title.ID).Delete(&models.TitleGenre{}).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Delete(title).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete title %d: %w", title.ID, err)
	}
	return nil
}

func linkGenres(tx *gorm.DB, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	links := make([]models.TitleGenre, 0, len(genreIDs))
	for _, genreID := range genreIDs {
		links = append(links, models.TitleGenre{TitleID: titleID, GenreID: genreID})
	}
	return tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

type titleGenreRow struct {
	TitleID int64
	models.Genre
}

type titleRatingRow struct {
	TitleID int64
	Rating  float64
}

// hydrate loads genres and the average review score for titles in place.
func (r *titleRepository) hydrate(ctx context.Context, titles []models.Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]int64, len(titles))
	index := make(map[int64]int, len(titles))
	for i := range titles {
		ids[i] = titles[i].ID
		index[titles[i].ID] = i
		titles[i].Genres = []models.Genre{}
		titles[i].Rating = nil
	}

	db := r.db.WithContext(ctx)

	var genreRows []titleGenreRow
	err := db.Table("title_genres").
		Select("title_genres.title_id, genres.id, genres.name, genres.slug").
		Joins("JOIN genres ON genres.id = title_genres.genre_id").
		Where("title_genres.title_id IN ?", ids).
		Order("genres.slug").
		Scan(&genreRows).Error
	if err != nil {
		return fmt.Errorf("failed to load title genres: %w", err)
	}
	for _, row := range genreRows {
		i := index[row.TitleID]
		titles[i].Genres = append(titles[i].Genres, row.Genre)
	}

	var ratingRows []titleRatingRow
	err = db.Model(&models.Review{}).
		Select("title_id, AVG(score) AS rating").
		Where("title_id IN ?", ids).
		Group("title_id").
		Scan(&ratingRows).Error
	if err != nil {
		return fmt.Errorf("failed to load title ratings: %w", err)
	}
	for _, row := range ratingRows {
		rating := row.Rating
		titles[index[row.TitleID]].Rating = &rating
	}
	return nil
}
