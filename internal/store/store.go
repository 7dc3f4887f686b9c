// Package store implements explicit per-entity repositories over the
// database driver abstraction.
package store

import (
	"context"

	"postboard/internal/database"
)

type Store struct {
	Users    *UserRepo
	Groups   *GroupRepo
	Posts    *PostRepo
	Comments *CommentRepo
	Follows  *FollowRepo

	db database.DB
}

func New(db database.DB) *Store {
	return &Store{
		Users:    &UserRepo{db: db},
		Groups:   &GroupRepo{db: db},
		Posts:    &PostRepo{db: db},
		Comments: &CommentRepo{db: db},
		Follows:  &FollowRepo{db: db},
		db:       db,
	}
}

// Migrate creates the schema. Statement order matters: referencing
// tables come after the tables they point at.
func (s *Store) Migrate(ctx context.Context) error {
	for _, ddl := range []string{
		usersSchema(),
		groupsSchema(),
		postsSchema(),
		commentsSchema(),
		followsSchema(),
	} {
		if err := s.db.Exec(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}

func count(ctx context.Context, db database.DB, query string, args ...any) (int, error) {
	var n int
	if err := db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
