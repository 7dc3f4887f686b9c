package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"postboard/internal/database"
	"postboard/internal/models"
)

type CommentRepo struct {
	db database.DB
}

func (r *CommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = uuid.New().String()
	comment.CreatedAt = time.Now().UTC()
	err := r.db.Exec(ctx,
		"INSERT INTO comments (id, post_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?)",
		comment.ID, comment.PostID, comment.AuthorID, comment.Text, comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// ListByPost returns a post's comments oldest first.
func (r *CommentRepo) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	rows, err := r.db.Query(ctx,
		"SELECT c.id, c.post_id, c.author_id, c.content, c.created_at, u.username "+
			"FROM comments c JOIN users u ON u.id = c.author_id "+
			"WHERE c.post_id = ? ORDER BY c.created_at, c.id", postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt, &c.AuthorName); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
