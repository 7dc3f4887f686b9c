// Package models holds the persistent entities of the platform.
package models

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Group is a named category posts may optionally belong to.
type Group struct {
	ID          string
	Title       string
	Slug        string
	Description string
}

type Post struct {
	ID        string
	Text      string
	CreatedAt time.Time
	AuthorID  string
	GroupID   *string
	Image     string

	// Joined author username, populated by list queries.
	AuthorName string
}

type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Text      string
	CreatedAt time.Time

	AuthorName string
}

// Follow is a directed edge meaning UserID subscribes to AuthorID's posts.
type Follow struct {
	UserID   string
	AuthorID string
}
