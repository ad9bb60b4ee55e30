package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/types"
)

const resumeColumns = `id, user_id, title, data, created_at, updated_at`

// CreateResume stores a new resume for userID.
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, title string, resume *types.Resume) (*ResumeRecord, error) {
	data, err := encodeResumeData(resume)
	if err != nil {
		return nil, err
	}
	rec, err := scanResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, data)
		 VALUES ($1, $2, $3)
		 RETURNING `+resumeColumns,
		userID, title, data,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return rec, nil
}

// GetResume retrieves a resume by ID. It returns nil, nil when not found.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*ResumeRecord, error) {
	rec, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return rec, nil
}

// ListResumes returns the user's resumes, most recently saved first.
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]ResumeRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []ResumeRecord{}
	for rows.Next() {
		rec, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// SaveResume replaces the stored title and data. The last save wins.
// It returns nil, nil when the resume does not exist.
func (db *DB) SaveResume(ctx context.Context, id uuid.UUID, title string, resume *types.Resume) (*ResumeRecord, error) {
	data, err := encodeResumeData(resume)
	if err != nil {
		return nil, err
	}
	rec, err := scanResume(db.pool.QueryRow(ctx,
		`UPDATE resumes SET title = $2, data = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+resumeColumns,
		id, title, data,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}
	return rec, nil
}

// DeleteResume removes a resume. It reports false when nothing was deleted.
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func scanResume(row pgx.Row) (*ResumeRecord, error) {
	var rec ResumeRecord
	var data []byte
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Title, &data, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	resume, err := decodeResumeData(data)
	if err != nil {
		return nil, err
	}
	rec.Resume = resume
	return &rec, nil
}
