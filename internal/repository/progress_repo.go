package repository

import (
	"app/internal/model"
	"context"
	"database/sql"
	"errors"
)

type ProgressRepository interface {
	// GetProgress returns nil (no error) when the user has no progress row
	// for the course yet.
	GetProgress(ctx context.Context, userID, courseID string) (*model.CourseProgress, error)
	// AddCompletedLecture upserts the progress row and appends the lecture
	// id when absent. Duplicate completions are absorbed.
	AddCompletedLecture(ctx context.Context, userID, courseID, lectureID string) error
}

type progressRepo struct {
	db *sql.DB
}

func NewProgressRepo(db *sql.DB) ProgressRepository {
	return &progressRepo{db: db}
}

func (r *progressRepo) GetProgress(ctx context.Context, userID, courseID string) (*model.CourseProgress, error) {
	var p model.CourseProgress
	query := `SELECT user_id, course_id, lecture_completed, updated_at
              FROM course_progress WHERE user_id=$1 AND course_id=$2`
	row := r.db.QueryRowContext(ctx, query, userID, courseID)
	if err := row.Scan(&p.UserID, &p.CourseID, &p.LecturesCompleted, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// AddCompletedLecture creates the row on first completion; afterwards the
// @> guard in the conflict branch keeps lecture_completed a set.
func (r *progressRepo) AddCompletedLecture(ctx context.Context, userID, courseID, lectureID string) error {
	query := `
		INSERT INTO course_progress (user_id, course_id, lecture_completed)
		VALUES ($1, $2, jsonb_build_array($3::text))
		ON CONFLICT (user_id, course_id) DO UPDATE
		SET lecture_completed = CASE
		        WHEN course_progress.lecture_completed @> to_jsonb($3::text)
		        THEN course_progress.lecture_completed
		        ELSE course_progress.lecture_completed || to_jsonb($3::text)
		    END,
		    updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, userID, courseID, lectureID)
	return err
}
