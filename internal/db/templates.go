package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const templateColumns = `id, user_id, name, markup, css, layout, is_public, created_at, updated_at`

// CreateTemplate stores a new template. ID and timestamps are assigned by the database.
func (db *DB) CreateTemplate(ctx context.Context, t *TemplateRecord) (*TemplateRecord, error) {
	rec, err := scanTemplate(db.pool.QueryRow(ctx,
		`INSERT INTO templates (user_id, name, markup, css, layout, is_public)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+templateColumns,
		t.UserID, t.Name, t.Markup, t.CSS, []byte(t.Layout), t.IsPublic,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return rec, nil
}

// GetTemplate retrieves a template by ID. It returns nil, nil when not found.
func (db *DB) GetTemplate(ctx context.Context, id uuid.UUID) (*TemplateRecord, error) {
	rec, err := scanTemplate(db.pool.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return rec, nil
}

// ListTemplates returns the user's own templates followed by public ones.
func (db *DB) ListTemplates(ctx context.Context, userID uuid.UUID) ([]TemplateRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+templateColumns+` FROM templates
		 WHERE user_id = $1 OR is_public
		 ORDER BY (user_id = $1) DESC NULLS LAST, name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []TemplateRecord{}
	for rows.Next() {
		rec, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// UpdateTemplate replaces a template's content. It returns nil, nil when not found.
func (db *DB) UpdateTemplate(ctx context.Context, t *TemplateRecord) (*TemplateRecord, error) {
	rec, err := scanTemplate(db.pool.QueryRow(ctx,
		`UPDATE templates
		 SET name = $2, markup = $3, css = $4, layout = $5, is_public = $6, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+templateColumns,
		t.ID, t.Name, t.Markup, t.CSS, []byte(t.Layout), t.IsPublic,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return rec, nil
}

// DeleteTemplate removes a template. It reports false when nothing was deleted.
func (db *DB) DeleteTemplate(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete template: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func scanTemplate(row pgx.Row) (*TemplateRecord, error) {
	var rec TemplateRecord
	var layoutJSON []byte
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Markup, &rec.CSS,
		&layoutJSON, &rec.IsPublic, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Layout = layoutJSON
	return &rec, nil
}
