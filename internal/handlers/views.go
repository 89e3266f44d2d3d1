package handlers

import (
	"time"

	"github.com/GunarsK-portfolio/review-service/internal/models"
	"github.com/GunarsK-portfolio/review-service/internal/policy"
)

// GroupView is the representation of a category or genre.
type GroupView struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TitleReadView nests genre and category objects and carries the rating.
type TitleReadView struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Year        int         `json:"year"`
	Rating      *float64    `json:"rating"`
	Description *string     `json:"description"`
	Genre       []GroupView `json:"genre"`
	Category    *GroupView  `json:"category"`
}

// TitleWriteView references genre and category by slug.
type TitleWriteView struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre"`
	Category    *string  `json:"category"`
}

// ReviewView is the representation of a review. Author is a username.
type ReviewView struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

// CommentView is the representation of a comment. Author is a username.
type CommentView struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

// UserView is the representation of a user profile.
type UserView struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role"`
}

func categoryView(c models.Category) GroupView {
	return GroupView{Name: c.Name, Slug: c.Slug}
}

func genreView(g models.Genre) GroupView {
	return GroupView{Name: g.Name, Slug: g.Slug}
}

// titleView renders t in the representation selected for action.
func titleView(t models.Title, action policy.Action) interface{} {
	if policy.SelectTitleShape(action) == policy.TitleShapeWrite {
		return titleWriteView(t)
	}
	return titleReadView(t)
}

func titleReadView(t models.Title) TitleReadView {
	view := TitleReadView{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]GroupView, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		view.Genre = append(view.Genre, genreView(g))
	}
	if t.Category != nil {
		category := categoryView(*t.Category)
		view.Category = &category
	}
	return view
}

func titleWriteView(t models.Title) TitleWriteView {
	view := TitleWriteView{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Genre:       make([]string, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		view.Genre = append(view.Genre, g.Slug)
	}
	if t.Category != nil {
		slug := t.Category.Slug
		view.Category = &slug
	}
	return view
}

func reviewView(r models.Review) ReviewView {
	return ReviewView{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author.Username,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}

func commentView(c models.Comment) CommentView {
	return CommentView{
		ID:      c.ID,
		Text:    c.Text,
		Author:  c.Author.Username,
		PubDate: c.PubDate,
	}
}

func userView(u models.User) UserView {
	return UserView{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}

func mapViews[M any, V any](items []M, view func(M) V) []V {
	out := make([]V, 0, len(items))
	for _, item := range items {
		out = append(out, view(item))
	}
	return out
}
