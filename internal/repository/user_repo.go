package repository

import (
	"app/internal/model"
	"context"
	"database/sql"
	"errors"
)

type UserRepository interface {
	// UpsertUser inserts or refreshes a user row keyed by the identity
	// provider subject.
	UpsertUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
	UpdateRole(ctx context.Context, id, role string) error
	// AddEnrolledCourse appends the course id to enrolled_courses, guarded so
	// replays never produce duplicates.
	AddEnrolledCourse(ctx context.Context, userID, courseID string) error
}

type userRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) UpsertUser(ctx context.Context, u *model.User) error {
	query := `INSERT INTO users (id, name, email, avatar_url, role, enrolled_courses)
              VALUES ($1, $2, $3, $4, $5, $6)
              ON CONFLICT (id) DO UPDATE
              SET name = EXCLUDED.name, email = EXCLUDED.email,
                  avatar_url = EXCLUDED.avatar_url, updated_at = NOW()
              RETURNING id, name, email, avatar_url, role, enrolled_courses, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, u.UserID, u.Name, u.Email, u.AvatarURL, u.Role, u.EnrolledCourses).
		Scan(&u.UserID, &u.Name, &u.Email, &u.AvatarURL, &u.Role, &u.EnrolledCourses, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	query := `SELECT id, name, email, avatar_url, role, enrolled_courses, created_at, updated_at FROM users WHERE id=$1`
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&u.UserID, &u.Name, &u.Email, &u.AvatarURL, &u.Role, &u.EnrolledCourses, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) DeleteUser(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

func (r *userRepo) UpdateRole(ctx context.Context, id, role string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET role=$2, updated_at=NOW() WHERE id=$1`, id, role)
	return err
}

// AddEnrolledCourse appends the course id to enrolled_courses. The @> guard
// absorbs webhook replays.
func (r *userRepo) AddEnrolledCourse(ctx context.Context, userID, courseID string) error {
	query := `
		UPDATE users
		SET enrolled_courses = enrolled_courses || to_jsonb($2::text),
		    updated_at = NOW()
		WHERE id = $1
		  AND NOT enrolled_courses @> to_jsonb($2::text)
	`
	_, err := r.db.ExecContext(ctx, query, userID, courseID)
	return err
}
