package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/GunarsK-portfolio/review-service/internal/models"
	"github.com/GunarsK-portfolio/review-service/internal/repository"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const (
	maxSlugLength   = 50
	maxNameLength   = 256
	maxYearsInPast  = 200
	invalidYearText = "invalid release year"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// GroupInput holds the fields of a new category or genre. An empty Slug is
// derived from Name.
type GroupInput struct {
	Name string
	Slug string
}

// CatalogService manages categories, genres and titles.
type CatalogService interface {
	ListCategories(ctx context.Context, search string, page repository.Page) ([]models.Category, int64, error)
	CreateCategory(ctx context.Context, input GroupInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, slug string) error

	ListGenres(ctx context.Context, search string, page repository.Page) ([]models.Genre, int64, error)
	CreateGenre(ctx context.Context, input GroupInput) (*models.Genre, error)
	DeleteGenre(ctx context.Context, slug string) error

	ListTitles(ctx context.Context, filter repository.TitleFilter, page repository.Page) ([]models.Title, int64, error)
	GetTitle(ctx context.Context, id int64) (*models.Title, error)
	CreateTitle(ctx context.Context, input TitleInput) (*models.Title, error)
	UpdateTitle(ctx context.Context, id int64, input TitleInput) (*models.Title, error)
	DeleteTitle(ctx context.Context, id int64) error
}

// TitleInput holds title fields supplied by a client. Nil fields are left
// unchanged on update. An empty Category clears the title's category.
type TitleInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	titleRepo    repository.TitleRepository
	now          func() time.Time
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	titleRepo repository.TitleRepository,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		titleRepo:    titleRepo,
		now:          time.Now,
	}
}

// ============================================================================
// Categories and genres
// ============================================================================

func (s *catalogService) ListCategories(ctx context.Context, search string, page repository.Page) ([]models.Category, int64, error) {
	return s.categoryRepo.List(ctx, search, page)
}

func (s *catalogService) CreateCategory(ctx context.Context, input GroupInput) (*models.Category, error) {
	name, slugValue, err := normalizeGroup(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindBySlug(ctx, slugValue); err == nil {
		return nil, slugTaken("category")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &models.Category{Name: name, Slug: slugValue}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, slugTaken("category")
		}
		return nil, err
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, slugValue string) error {
	category, err := s.categoryRepo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("category", slugValue)
		}
		return err
	}
	return s.categoryRepo.Delete(ctx, category)
}

func (s *catalogService) ListGenres(ctx context.Context, search string, page repository.Page) ([]models.Genre, int64, error) {
	return s.genreRepo.List(ctx, search, page)
}

func (s *catalogService) CreateGenre(ctx context.Context, input GroupInput) (*models.Genre, error) {
	name, slugValue, err := normalizeGroup(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.genreRepo.FindBySlug(ctx, slugValue); err == nil {
		return nil, slugTaken("genre")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre := &models.Genre{Name: name, Slug: slugValue}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, slugTaken("genre")
		}
		return nil, err
	}
	return genre, nil
}

func (s *catalogService) DeleteGenre(ctx context.Context, slugValue string) error {
	genre, err := s.genreRepo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("genre", slugValue)
		}
		return err
	}
	return s.genreRepo.Delete(ctx, genre)
}

// normalizeGroup validates a category or genre, deriving the slug from the
// name when it was omitted.
func normalizeGroup(input GroupInput) (string, string, error) {
	verr := &ValidationError{}
	if input.Name == "" {
		verr.Add("name", "name is required")
	} else if len([]rune(input.Name)) > maxNameLength {
		verr.Add("name", fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}

	slugValue := input.Slug
	if slugValue == "" && input.Name != "" {
		slugValue = slug.Make(input.Name)
		if len(slugValue) > maxSlugLength {
			slugValue = slugValue[:maxSlugLength]
		}
	}
	switch {
	case slugValue == "":
		verr.Add("slug", "slug is required")
	case len(slugValue) > maxSlugLength:
		verr.Add("slug", fmt.Sprintf("slug must be at most %d characters", maxSlugLength))
	case !slugPattern.MatchString(slugValue):
		verr.Add("slug", "slug may contain only letters, digits, hyphens and underscores")
	}

	if verr.HasErrors() {
		return "", "", verr
	}
	return input.Name, slugValue, nil
}

func slugTaken(resource string) error {
	return NewValidationError("slug", fmt.Sprintf("%s with this slug already exists", resource))
}

// ============================================================================
// Titles
// ============================================================================

func (s *catalogService) ListTitles(ctx context.Context, filter repository.TitleFilter, page repository.Page) ([]models.Title, int64, error) {
	return s.titleRepo.List(ctx, filter, page)
}

func (s *catalogService) GetTitle(ctx context.Context, id int64) (*models.Title, error) {
	title, err := s.titleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("title", id)
		}
		return nil, err
	}
	return title, nil
}

func (s *catalogService) CreateTitle(ctx context.Context, input TitleInput) (*models.Title, error) {
	verr := &ValidationError{}
	if input.Name == nil {
		verr.Add("name", "name is required")
	}
	if input.Year == nil {
		verr.Add("year", "year is required")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	title := &models.Title{}
	genreIDs, err := s.apply(ctx, title, input)
	if err != nil {
		return nil, err
	}

	if err := s.titleRepo.Create(ctx, title, genreIDs); err != nil {
		return nil, err
	}
	return s.GetTitle(ctx, title.ID)
}

func (s *catalogService) UpdateTitle(ctx context.Context, id int64, input TitleInput) (*models.Title, error) {
	title, err := s.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	genreIDs, err := s.apply(ctx, title, input)
	if err != nil {
		return nil, err
	}

	if err := s.titleRepo.Update(ctx, title, genreIDs, input.Genres != nil); err != nil {
		return nil, err
	}
	return s.GetTitle(ctx, id)
}

func (s *catalogService) DeleteTitle(ctx context.Context, id int64) error {
	title, err := s.GetTitle(ctx, id)
	if err != nil {
		return err
	}
	return s.titleRepo.Delete(ctx, title)
}

// apply validates input and copies it onto title, resolving category and
// genre slugs. It returns the genre ids to link.
func (s *catalogService) apply(ctx context.Context, title *models.Title, input TitleInput) ([]int64, error) {
	verr := &ValidationError{}

	if input.Name != nil {
		switch {
		case *input.Name == "":
			verr.Add("name", "name is required")
		case len([]rune(*input.Name)) > maxNameLength:
			verr.Add("name", fmt.Sprintf("name must be at most %d characters", maxNameLength))
		}
	}
	if input.Year != nil && !s.validYear(*input.Year) {
		verr.Add("year", invalidYearText)
	}

	var category *models.Category
	if input.Category != nil && *input.Category != "" {
		found, err := s.categoryRepo.FindBySlug(ctx, *input.Category)
		switch {
		case err == nil:
			category = found
		case errors.Is(err, gorm.ErrRecordNotFound):
			verr.Add("category", fmt.Sprintf("category %q does not exist", *input.Category))
		default:
			return nil, err
		}
	}

	var genres []models.Genre
	if input.Genres != nil {
		slugs := uniqueStrings(*input.Genres)
		found, err := s.genreRepo.FindBySlugs(ctx, slugs)
		if err != nil {
			return nil, err
		}
		known := make(map[string]bool, len(found))
		for _, genre := range found {
			known[genre.Slug] = true
		}
		for _, slugValue := range slugs {
			if !known[slugValue] {
				verr.Add("genre", fmt.Sprintf("genre %q does not exist", slugValue))
			}
		}
		genres = found
	}

	if verr.HasErrors() {
		return nil, verr
	}

	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = input.Description
	}
	if input.Category != nil {
		title.Category = category
		title.CategoryID = nil
		if category != nil {
			title.CategoryID = &category.ID
		}
	}

	genreIDs := make([]int64, 0, len(genres))
	for _, genre := range genres {
		genreIDs = append(genreIDs, genre.ID)
	}
	return genreIDs, nil
}

// validYear accepts years from maxYearsInPast years ago up to the current year.
func (s *catalogService) validYear(year int) bool {
	current := s.now().Year()
	return year > 0 && year <= current && year >= current-maxYearsInPast
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}
