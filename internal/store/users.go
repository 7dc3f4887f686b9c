package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"postboard/internal/database"
	"postboard/internal/models"
)

// ErrUsernameTaken is returned by UserRepo.Create when the username is
// already registered.
var ErrUsernameTaken = errors.New("store: username already taken")

type UserRepo struct {
	db database.DB
}

func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	if _, err := r.ByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, database.ErrNoRows) {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	err := r.db.Exec(ctx,
		"INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanOne(ctx, "SELECT id, username, password_hash, created_at FROM users WHERE id = ?", id)
}

func (r *UserRepo) ByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.scanOne(ctx, "SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username)
}

// Delete removes the user; posts, comments and follow edges cascade.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.db.Exec(ctx, "DELETE FROM users WHERE id = ?", id)
}

func (r *UserRepo) scanOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}
