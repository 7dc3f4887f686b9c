package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"postboard/internal/database"
	"postboard/internal/models"
	"postboard/internal/pagination"
)

type PostRepo struct {
	db database.DB
}

const postColumns = "p.id, p.content, p.created_at, p.author_id, p.group_id, p.image, u.username"

// Create assigns the id and creation timestamp; the timestamp is never
// touched again after this.
func (r *PostRepo) Create(ctx context.Context, post *models.Post) error {
	post.ID = uuid.New().String()
	post.CreatedAt = time.Now().UTC()
	err := r.db.Exec(ctx,
		"INSERT INTO posts (id, content, created_at, author_id, group_id, image) VALUES (?, ?, ?, ?, ?, ?)",
		post.ID, post.Text, post.CreatedAt, post.AuthorID, nullable(post.GroupID), post.Image)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields only. Author and creation time are
// immutable.
func (r *PostRepo) Update(ctx context.Context, post *models.Post) error {
	err := r.db.Exec(ctx,
		"UPDATE posts SET content = ?, group_id = ?, image = ? WHERE id = ?",
		post.Text, nullable(post.GroupID), post.Image, post.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

func (r *PostRepo) ByID(ctx context.Context, id string) (*models.Post, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+postColumns+" FROM posts p JOIN users u ON u.id = p.author_id WHERE p.id = ?", id)
	return scanPost(row)
}

func (r *PostRepo) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	return count(ctx, r.db, "SELECT COUNT(*) FROM posts WHERE author_id = ?", authorID)
}

// List returns the home page feed: every post, newest first.
func (r *PostRepo) List(ctx context.Context, page int) (pagination.Page[models.Post], error) {
	return r.paged(ctx, page,
		"SELECT COUNT(*) FROM posts",
		"SELECT "+postColumns+" FROM posts p JOIN users u ON u.id = p.author_id ORDER BY p.created_at DESC, p.id LIMIT ? OFFSET ?")
}

func (r *PostRepo) ListByGroup(ctx context.Context, groupID string, page int) (pagination.Page[models.Post], error) {
	return r.paged(ctx, page,
		"SELECT COUNT(*) FROM posts WHERE group_id = ?",
		"SELECT "+postColumns+" FROM posts p JOIN users u ON u.id = p.author_id WHERE p.group_id = ? ORDER BY p.created_at DESC, p.id LIMIT ? OFFSET ?",
		groupID)
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID string, page int) (pagination.Page[models.Post], error) {
	return r.paged(ctx, page,
		"SELECT COUNT(*) FROM posts WHERE author_id = ?",
		"SELECT "+postColumns+" FROM posts p JOIN users u ON u.id = p.author_id WHERE p.author_id = ? ORDER BY p.created_at DESC, p.id LIMIT ? OFFSET ?",
		authorID)
}

// ListFollowed returns posts by every author the user follows, newest
// first across all of them.
func (r *PostRepo) ListFollowed(ctx context.Context, userID string, page int) (pagination.Page[models.Post], error) {
	return r.paged(ctx, page,
		"SELECT COUNT(*) FROM posts p JOIN follows f ON p.author_id = f.author_id WHERE f.user_id = ?",
		"SELECT "+postColumns+" FROM posts p JOIN follows f ON p.author_id = f.author_id JOIN users u ON u.id = p.author_id WHERE f.user_id = ? ORDER BY p.created_at DESC, p.id LIMIT ? OFFSET ?",
		userID)
}

func (r *PostRepo) paged(ctx context.Context, page int, countQuery, listQuery string, args ...any) (pagination.Page[models.Post], error) {
	total, err := count(ctx, r.db, countQuery, args...)
	if err != nil {
		return pagination.Page[models.Post]{}, err
	}

	p := pagination.New[models.Post](total, page)
	rows, err := r.db.Query(ctx, listQuery, append(args, pagination.PageSize, p.Offset())...)
	if err != nil {
		return p, err
	}
	defer rows.Close()

	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return p, err
		}
		p.Items = append(p.Items, *post)
	}
	return p, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*models.Post, error) {
	post := &models.Post{}
	var groupID sql.NullString
	err := s.Scan(&post.ID, &post.Text, &post.CreatedAt, &post.AuthorID, &groupID, &post.Image, &post.AuthorName)
	if err != nil {
		return nil, err
	}
	if groupID.Valid {
		post.GroupID = &groupID.String
	}
	return post, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
