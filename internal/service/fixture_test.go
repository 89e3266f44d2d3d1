package service

import (
	"context"
	"testing"
	"time"

	"github.com/GunarsK-portfolio/review-service/internal/database/dbtest"
	"github.com/GunarsK-portfolio/review-service/internal/models"
	"github.com/GunarsK-portfolio/review-service/internal/repository"
	"github.com/stretchr/testify/require"
)

// storeFixture wires the services to a private in-memory database.
type storeFixture struct {
	users    UserService
	catalog  *catalogService
	reviews  ReviewService
	userRepo repository.UserRepository
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	db := dbtest.New(t)

	userRepo := repository.NewUserRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	catalog := NewCatalogService(
		repository.NewCategoryRepository(db),
		repository.NewGenreRepository(db),
		titleRepo,
	).(*catalogService)
	catalog.now = func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }

	return &storeFixture{
		users:    NewUserService(userRepo),
		catalog:  catalog,
		reviews:  NewReviewService(titleRepo, repository.NewReviewRepository(db), repository.NewCommentRepository(db)),
		userRepo: userRepo,
	}
}

func (f *storeFixture) user(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Role: role}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user
}

func (f *storeFixture) title(t *testing.T, name string) *models.Title {
	t.Helper()
	year := 2001
	title, err := f.catalog.CreateTitle(context.Background(), TitleInput{Name: &name, Year: &year})
	require.NoError(t, err)
	return title
}

func ptr[T any](v T) *T {
	return &v
}
