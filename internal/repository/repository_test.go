package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/GunarsK-portfolio/review-service/internal/database/dbtest"
	"github.com/GunarsK-portfolio/review-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	users      UserRepository
	categories CategoryRepository
	genres     GenreRepository
	titles     TitleRepository
	reviews    ReviewRepository
	comments   CommentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	return &fixture{
		db:         db,
		users:      NewUserRepository(db),
		categories: NewCategoryRepository(db),
		genres:     NewGenreRepository(db),
		titles:     NewTitleRepository(db),
		reviews:    NewReviewRepository(db),
		comments:   NewCommentRepository(db),
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Role: models.RoleUser}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) title(t *testing.T, name string, category *models.Category, genres ...models.Genre) *models.Title {
	t.Helper()
	title := &models.Title{Name: name, Year: 2001}
	if category != nil {
		title.CategoryID = &category.ID
	}
	var ids []int64
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	require.NoError(t, f.titles.Create(context.Background(), title, ids))
	return title
}

func (f *fixture) review(t *testing.T, title *models.Title, author *models.User, score int) *models.Review {
	t.Helper()
	r := &models.Review{TitleID: title.ID, AuthorID: author.ID, Text: "text", Score: score}
	require.NoError(t, f.reviews.Create(context.Background(), r))
	return r
}

func TestTitleRating_IsMeanOfScores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	title := f.title(t, "Solaris", nil)
	f.review(t, title, f.user(t, "alice"), 8)
	f.review(t, title, f.user(t, "bob"), 6)

	got, err := f.titles.FindByID(ctx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 7.0, *got.Rating, 1e-9)
}

func TestTitleRating_NilWithoutReviews(t *testing.T) {
	f := newFixture(t)

	title := f.title(t, "Stalker", nil)

	got, err := f.titles.FindByID(context.Background(), title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Rating)
	assert.Empty(t, got.Genres)
}

func TestReview_UniquePerAuthorAndTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	title := f.title(t, "Mirror", nil)
	alice := f.user(t, "alice")
	f.review(t, title, alice, 9)

	exists, err := f.reviews.ExistsForAuthor(ctx, title.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	err = f.reviews.Create(ctx, &models.Review{TitleID: title.ID, AuthorID: alice.ID, Text: "again", Score: 1})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestReview_UpdateKeepsAuthorAndPubDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	title := f.title(t, "Nostalghia", nil)
	alice := f.user(t, "alice")
	created := f.review(t, title, alice, 5)

	loaded, err := f.reviews.FindByID(ctx, title.ID, created.ID)
	require.NoError(t, err)
	loaded.Text = "changed"
	loaded.Score = 10
	require.NoError(t, f.reviews.Update(ctx, loaded))

	updated, err := f.reviews.FindByID(ctx, title.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Text)
	assert.Equal(t, 10, updated.Score)
	assert.Equal(t, alice.ID, updated.AuthorID)
	assert.Equal(t, "alice", updated.Author.Username)
	assert.True(t, updated.PubDate.Equal(loaded.PubDate))
}

func TestReview_ScopedToTitle(t *testing.T) {
	f := newFixture(t)

	first := f.title(t, "First", nil)
	second := f.title(t, "Second", nil)
	r := f.review(t, first, f.user(t, "alice"), 5)

	_, err := f.reviews.FindByID(context.Background(), second.ID, r.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCategoryDelete_NullifiesTitles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := &models.Category{Name: "Films", Slug: "films"}
	require.NoError(t, f.categories.Create(ctx, category))
	title := f.title(t, "Andrei Rublev", category)

	require.NoError(t, f.categories.Delete(ctx, category))

	got, err := f.titles.FindByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)

	_, err = f.categories.FindBySlug(ctx, "films")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGenreDelete_RemovesLinksOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	drama := models.Genre{Name: "Drama", Slug: "drama"}
	scifi := models.Genre{Name: "Sci-Fi", Slug: "sci-fi"}
	require.NoError(t, f.genres.Create(ctx, &drama))
	require.NoError(t, f.genres.Create(ctx, &scifi))
	title := f.title(t, "Solaris", nil, drama, scifi)

	require.NoError(t, f.genres.Delete(ctx, &drama))

	got, err := f.titles.FindByID(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "sci-fi", got.Genres[0].Slug)

	var links int64
	require.NoError(t, f.db.Model(&models.TitleGenre{}).Where("genre_id = ?", drama.ID).Count(&links).Error)
	assert.Zero(t, links)
}

func TestTitleDelete_CascadesReviewsAndComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	title := f.title(t, "Ivan's Childhood", nil)
	alice := f.user(t, "alice")
	r := f.review(t, title, alice, 7)
	require.NoError(t, f.comments.Create(ctx, &models.Comment{ReviewID: r.ID, AuthorID: alice.ID, Text: "agreed"}))

	require.NoError(t, f.titles.Delete(ctx, title))

	var reviews, comments int64
	require.NoError(t, f.db.Model(&models.Review{}).Count(&reviews).Error)
	require.NoError(t, f.db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Zero(t, reviews)
	assert.Zero(t, comments)
}

func TestUserDelete_CascadesAuthoredContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	title := f.title(t, "The Sacrifice", nil)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	aliceReview := f.review(t, title, alice, 4)
	bobReview := f.review(t, title, bob, 6)
	require.NoError(t, f.comments.Create(ctx, &models.Comment{ReviewID: aliceReview.ID, AuthorID: bob.ID, Text: "bob on alice"}))
	require.NoError(t, f.comments.Create(ctx, &models.Comment{ReviewID: bobReview.ID, AuthorID: alice.ID, Text: "alice on bob"}))
	require.NoError(t, f.comments.Create(ctx, &models.Comment{ReviewID: bobReview.ID, AuthorID: bob.ID, Text: "bob on bob"}))

	require.NoError(t, f.users.Delete(ctx, alice))

	reviews, total, err := f.reviews.List(ctx, title.ID, Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, bobReview.ID, reviews[0].ID)

	comments, _, err := f.comments.List(ctx, bobReview.ID, Page{})
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "bob on bob", comments[0].Text)
}

func TestTitleList_FiltersAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	films := &models.Category{Name: "Films", Slug: "films"}
	books := &models.Category{Name: "Books", Slug: "books"}
	require.NoError(t, f.categories.Create(ctx, films))
	require.NoError(t, f.categories.Create(ctx, books))
	drama := models.Genre{Name: "Drama", Slug: "drama"}
	require.NoError(t, f.genres.Create(ctx, &drama))

	f.title(t, "Zerkalo", films, drama)
	f.title(t, "Anna Karenina", books, drama)
	f.title(t, "Mirror Book", books)

	all, total, err := f.titles.List(ctx, TitleFilter{}, Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"Anna Karenina", "Mirror Book", "Zerkalo"}, titleNames(all))

	byGenre, total, err := f.titles.List(ctx, TitleFilter{Genre: "drama"}, Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{"Anna Karenina", "Zerkalo"}, titleNames(byGenre))

	byCategory, _, err := f.titles.List(ctx, TitleFilter{Category: "books"}, Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Anna Karenina", "Mirror Book"}, titleNames(byCategory))

	byName, _, err := f.titles.List(ctx, TitleFilter{Name: "MIRROR"}, Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mirror Book"}, titleNames(byName))

	paged, total, err := f.titles.List(ctx, TitleFilter{}, Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"Mirror Book"}, titleNames(paged))
}

func TestTitleUpdate_ReplacesGenresOnlyWhenAsked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	drama := models.Genre{Name: "Drama", Slug: "drama"}
	comedy := models.Genre{Name: "Comedy", Slug: "comedy"}
	require.NoError(t, f.genres.Create(ctx, &drama))
	require.NoError(t, f.genres.Create(ctx, &comedy))
	title := f.title(t, "Original", nil, drama)

	title.Name = "Renamed"
	require.NoError(t, f.titles.Update(ctx, title, nil, false))
	got, err := f.titles.FindByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	require.Len(t, got.Genres, 1)

	require.NoError(t, f.titles.Update(ctx, got, []int64{comedy.ID}, true))
	got, err = f.titles.FindByID(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "comedy", got.Genres[0].Slug)
}

func TestCategoryList_SearchAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, c := range []models.Category{{Name: "Music", Slug: "music"}, {Name: "Films", Slug: "films"}, {Name: "Books", Slug: "books"}} {
		c := c
		require.NoError(t, f.categories.Create(ctx, &c))
	}

	all, total, err := f.categories.List(ctx, "", Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, "books", all[0].Slug)
	assert.Equal(t, "music", all[2].Slug)

	found, total, err := f.categories.List(ctx, "FIL", Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "films", found[0].Slug)
}

func TestUserList_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "alice")
	f.user(t, "alicia")
	f.user(t, "bob")

	users, total, err := f.users.List(ctx, "ali", Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "alice", users[0].Username)
}

func titleNames(titles []models.Title) []string {
	names := make([]string, 0, len(titles))
	for _, title := range titles {
		names = append(names, title.Name)
	}
	return names
}
