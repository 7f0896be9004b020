// Package model contains the rows written by the seeder and read back by verify/bench.
package model

import "time"

// Category is a fixed reference row posts are filed under.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"category_name"`
}

// User is one simulated person.
// Birthday is a DATE column; only the calendar day is meaningful.
type User struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Birthday time.Time `json:"birthday"`
}

// Post represents a post as stored in the posts table.
// PosterID and CategoryID must reference existing rows.
type Post struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Visible    bool      `json:"visible"`
	PosterID   int64     `json:"poster_id"`
	CategoryID int64     `json:"category_id"`
}

// Like is keyed by (UserID, PostID).
type Like struct {
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
