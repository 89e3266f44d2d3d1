package models

import "time"

// Score bounds for a review.
const (
	MinScore = 1
	MaxScore = 10
)

// Review is a user's scored opinion of a title. One per author and title.
type Review struct {
	ID       int64     `json:"id" gorm:"primaryKey"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Score    int       `json:"score" gorm:"not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`
	TitleID  int64     `json:"-" gorm:"not null;uniqueIndex:idx_review_author_title"`
	AuthorID int64     `json:"-" gorm:"not null;uniqueIndex:idx_review_author_title"`
	Title    Title     `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE"`
	Author   User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the Review model.
func (Review) TableName() string {
	return "reviews"
}

// Comment is a reply to a review.
type Comment struct {
	ID       int64     `json:"id" gorm:"primaryKey"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`
	ReviewID int64     `json:"-" gorm:"not null;index"`
	AuthorID int64     `json:"-" gorm:"not null;index"`
	Review   Review    `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	Author   User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the Comment model.
func (Comment) TableName() string {
	return "comments"
}
