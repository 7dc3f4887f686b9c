package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"SELECT * FROM posts WHERE id = ?", "SELECT * FROM posts WHERE id = $1"},
		{
			"INSERT INTO follows (user_id, author_id) VALUES (?, ?)",
			"INSERT INTO follows (user_id, author_id) VALUES ($1, $2)",
		},
		{
			"SELECT * FROM posts WHERE author_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?",
			"SELECT * FROM posts WHERE author_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		},
		{"SELECT '?' , id FROM posts WHERE id = ?", "SELECT '?' , id FROM posts WHERE id = $1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rebind(tt.in))
	}
}

func TestRebindManyPlaceholders(t *testing.T) {
	in := "VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	want := "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)"
	assert.Equal(t, want, rebind(in))
}
