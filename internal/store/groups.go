package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"postboard/internal/database"
	"postboard/internal/models"
)

type GroupRepo struct {
	db database.DB
}

func (r *GroupRepo) Create(ctx context.Context, title, slug, description string) (*models.Group, error) {
	group := &models.Group{
		ID:          uuid.New().String(),
		Title:       title,
		Slug:        slug,
		Description: description,
	}
	err := r.db.Exec(ctx,
		"INSERT INTO post_groups (id, title, slug, description) VALUES (?, ?, ?, ?)",
		group.ID, group.Title, group.Slug, group.Description)
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

func (r *GroupRepo) ByID(ctx context.Context, id string) (*models.Group, error) {
	return r.scanOne(ctx, "SELECT id, title, slug, description FROM post_groups WHERE id = ?", id)
}

func (r *GroupRepo) BySlug(ctx context.Context, slug string) (*models.Group, error) {
	return r.scanOne(ctx, "SELECT id, title, slug, description FROM post_groups WHERE slug = ?", slug)
}

func (r *GroupRepo) scanOne(ctx context.Context, query string, args ...any) (*models.Group, error) {
	group := &models.Group{}
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&group.ID, &group.Title, &group.Slug, &group.Description)
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (r *GroupRepo) List(ctx context.Context) ([]models.Group, error) {
	rows, err := r.db.Query(ctx, "SELECT id, title, slug, description FROM post_groups ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Delete removes the group; referencing posts keep living with a null group.
func (r *GroupRepo) Delete(ctx context.Context, id string) error {
	return r.db.Exec(ctx, "DELETE FROM post_groups WHERE id = ?", id)
}
