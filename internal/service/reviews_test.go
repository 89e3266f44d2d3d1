package service

import (
	"context"
	"errors"
	"testing"

	"github.com/GunarsK-portfolio/review-service/internal/models"
	"github.com/GunarsK-portfolio/review-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview_BindsAuthorAndUpdatesRating(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	title := f.title(t, "Heat")
	alice := f.user(t, "alice", models.RoleUser)
	bob := f.user(t, "bob", models.RoleUser)

	review, err := f.reviews.CreateReview(ctx, title.ID, alice, ReviewInput{Text: ptr("great"), Score: ptr(8)})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, review.AuthorID)
	assert.Equal(t, "alice", review.Author.Username)
	assert.False(t, review.PubDate.IsZero())

	_, err = f.reviews.CreateReview(ctx, title.ID, bob, ReviewInput{Text: ptr("fine"), Score: ptr(6)})
	require.NoError(t, err)

	got, err := f.catalog.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 7.0, *got.Rating, 1e-9)
}

func TestCreateReview_OnePerAuthor(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	title := f.title(t, "Heat")
	alice := f.user(t, "alice", models.RoleUser)

	_, err := f.reviews.CreateReview(ctx, title.ID, alice, ReviewInput{Text: ptr("great"), Score: ptr(8)})
	require.NoError(t, err)

	_, err = f.reviews.CreateReview(ctx, title.ID, alice, ReviewInput{Text: ptr("again"), Score: ptr(3)})
	assertFieldError(t, err, "review")

	other := f.title(t, "Ronin")
	_, err = f.reviews.CreateReview(ctx, other.ID, alice, ReviewInput{Text: ptr("ok"), Score: ptr(5)})
	assert.NoError(t, err)
}

func TestCreateReview_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input ReviewInput
		field string
	}{
		{name: "missing text", input: ReviewInput{Score: ptr(5)}, field: "text"},
		{name: "missing score", input: ReviewInput{Text: ptr("x")}, field: "score"},
		{name: "score too low", input: ReviewInput{Text: ptr("x"), Score: ptr(0)}, field: "score"},
		{name: "score too high", input: ReviewInput{Text: ptr("x"), Score: ptr(11)}, field: "score"},
		{name: "blank text", input: ReviewInput{Text: ptr(""), Score: ptr(5)}, field: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStoreFixture(t)
			title := f.title(t, "Heat")
			author := f.user(t, "alice", models.RoleUser)

			_, err := f.reviews.CreateReview(context.Background(), title.ID, author, tt.input)
			assertFieldError(t, err, tt.field)
		})
	}
}

func TestCreateReview_UnknownTitle(t *testing.T) {
	f := newStoreFixture(t)
	author := f.user(t, "alice", models.RoleUser)

	_, err := f.reviews.CreateReview(context.Background(), 99, author, ReviewInput{Text: ptr("x"), Score: ptr(5)})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateReview_KeepsAuthorAndDate(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	title := f.title(t, "Heat")
	alice := f.user(t, "alice", models.RoleUser)

	created, err := f.reviews.CreateReview(ctx, title.ID, alice, ReviewInput{Text: ptr("great"), Score: ptr(8)})
	require.NoError(t, err)

	review, err := f.reviews.GetReview(ctx, title.ID, created.ID)
	require.NoError(t, err)
	_, err = f.reviews.UpdateReview(ctx, review, ReviewInput{Score: ptr(9)})
	require.NoError(t, err)

	reloaded, err := f.reviews.GetReview(ctx, title.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, reloaded.Score)
	assert.Equal(t, "great", reloaded.Text)
	assert.Equal(t, alice.ID, reloaded.AuthorID)
	assert.True(t, reloaded.PubDate.Equal(review.PubDate))

	_, err = f.reviews.UpdateReview(ctx, reloaded, ReviewInput{Score: ptr(42)})
	assertFieldError(t, err, "score")
}

func TestComments_ScopedToTitleAndReview(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	heat := f.title(t, "Heat")
	ronin := f.title(t, "Ronin")
	alice := f.user(t, "alice", models.RoleUser)
	bob := f.user(t, "bob", models.RoleUser)

	review, err := f.reviews.CreateReview(ctx, heat.ID, alice, ReviewInput{Text: ptr("great"), Score: ptr(8)})
	require.NoError(t, err)

	comment, err := f.reviews.CreateComment(ctx, heat.ID, review.ID, bob, ptr("agreed"))
	require.NoError(t, err)
	assert.Equal(t, bob.ID, comment.AuthorID)

	_, err = f.reviews.CreateComment(ctx, ronin.ID, review.ID, bob, ptr("wrong title"))
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = f.reviews.GetComment(ctx, ronin.ID, review.ID, comment.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	comments, total, err := f.reviews.ListComments(ctx, heat.ID, review.ID, repository.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, comments, 1)
	assert.Equal(t, "bob", comments[0].Author.Username)
}

func TestUpdateComment(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	title := f.title(t, "Heat")
	alice := f.user(t, "alice", models.RoleUser)

	review, err := f.reviews.CreateReview(ctx, title.ID, alice, ReviewInput{Text: ptr("great"), Score: ptr(8)})
	require.NoError(t, err)
	created, err := f.reviews.CreateComment(ctx, title.ID, review.ID, alice, ptr("first"))
	require.NoError(t, err)

	comment, err := f.reviews.GetComment(ctx, title.ID, review.ID, created.ID)
	require.NoError(t, err)

	_, err = f.reviews.UpdateComment(ctx, comment, ptr(""))
	assertFieldError(t, err, "text")

	updated, err := f.reviews.UpdateComment(ctx, comment, ptr("edited"))
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	require.NoError(t, f.reviews.DeleteReview(ctx, review))
	_, err = f.reviews.GetComment(ctx, title.ID, review.ID, created.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
