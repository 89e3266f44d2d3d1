package models

import "time"

// Category groups titles by kind (film, book, music).
type Category struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:256;not null"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}

// TableName returns the database table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// Genre tags titles. Same shape as Category with its own slug space.
type Genre struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:256;not null"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}

// TableName returns the database table name for the Genre model.
func (Genre) TableName() string {
	return "genres"
}

// Title is a reviewable creative work.
type Title struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:256;not null;index"`
	Year        int       `json:"year" gorm:"not null"`
	Description *string   `json:"description" gorm:"type:text"`
	CategoryID  *int64    `json:"-" gorm:"index"`
	Category    *Category `json:"category" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	// Genres and Rating are loaded by the repository, not mapped by gorm.
	Genres []Genre  `json:"genre" gorm:"-"`
	Rating *float64 `json:"rating" gorm:"-"`
}

// TableName returns the database table name for the Title model.
func (Title) TableName() string {
	return "titles"
}

// TitleGenre links a title to one of its genres.
type TitleGenre struct {
	TitleID int64 `json:"title_id" gorm:"primaryKey"`
	GenreID int64 `json:"genre_id" gorm:"primaryKey;index"`
	Title   Title `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE"`
	Genre   Genre `json:"-" gorm:"foreignKey:GenreID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the TitleGenre model.
func (TitleGenre) TableName() string {
	return "title_genres"
}
