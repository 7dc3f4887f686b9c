package store

import (
	"context"
	"errors"
	"fmt"

	"postboard/internal/database"
)

// ErrSelfFollow is returned when a user tries to follow themselves. The
// schema CHECK constraint backs this up for writes that bypass the repo.
var ErrSelfFollow = errors.New("store: cannot follow yourself")

type FollowRepo struct {
	db database.DB
}

// Create adds the follow edge. Following someone already followed is a
// no-op; the composite primary key guarantees no duplicate edge either way.
func (r *FollowRepo) Create(ctx context.Context, userID, authorID string) error {
	if userID == authorID {
		return ErrSelfFollow
	}
	exists, err := r.Exists(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	err = r.db.Exec(ctx,
		"INSERT INTO follows (user_id, author_id) VALUES (?, ?)", userID, authorID)
	if err != nil {
		return fmt.Errorf("create follow: %w", err)
	}
	return nil
}

// Delete removes the edge if present; removing a missing edge is a no-op.
func (r *FollowRepo) Delete(ctx context.Context, userID, authorID string) error {
	return r.db.Exec(ctx,
		"DELETE FROM follows WHERE user_id = ? AND author_id = ?", userID, authorID)
}

func (r *FollowRepo) Exists(ctx context.Context, userID, authorID string) (bool, error) {
	n, err := count(ctx, r.db,
		"SELECT COUNT(*) FROM follows WHERE user_id = ? AND author_id = ?", userID, authorID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
