package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"app/internal/model"
)

// CourseRepository defines the interface for interacting with course documents
type CourseRepository interface {
	// ListPublished returns published courses without content or enrollment
	// details (catalog view).
	ListPublished(ctx context.Context) ([]model.Course, error)
	ListByEducator(ctx context.Context, educatorID string) ([]model.Course, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	// GetCourseByID retrieves a full course document by its ID
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	// AddEnrolledStudent appends the user id to the enrolled set, guarded so
	// replays never produce duplicates.
	AddEnrolledStudent(ctx context.Context, courseID, userID string) error
	// UpsertRating replaces or appends the user's entry in course_ratings in
	// one statement, so concurrent upserts by different users never clobber
	// each other.
	UpsertRating(ctx context.Context, courseID, userID string, rating int) error
}

type courseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *sql.DB) CourseRepository {
	return &courseRepo{db: db}
}

const courseColumns = `id, educator_id, title, description, price, discount,
	thumbnail_url, is_published, course_content, course_ratings,
	enrolled_students, created_at, updated_at`

func scanCourse(row interface{ Scan(...interface{}) error }, c *model.Course) error {
	return row.Scan(
		&c.CourseID,
		&c.EducatorID,
		&c.Title,
		&c.Description,
		&c.Price,
		&c.Discount,
		&c.ThumbnailURL,
		&c.IsPublished,
		&c.Chapters,
		&c.Ratings,
		&c.EnrolledStudents,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

// ListPublished retrieves the public catalog. Lecture content and the
// enrolled-student list stay server-side; ratings are kept so the catalog
// can show averages.
func (r *courseRepo) ListPublished(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	query := `
		SELECT id, educator_id, title, description, price, discount,
		       thumbnail_url, is_published, course_ratings, created_at, updated_at
		FROM courses
		WHERE is_published = TRUE
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.CourseID,
			&c.EducatorID,
			&c.Title,
			&c.Description,
			&c.Price,
			&c.Discount,
			&c.ThumbnailURL,
			&c.IsPublished,
			&c.Ratings,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	// If no courses found, return an empty slice, not nil
	if len(courses) == 0 {
		return []model.Course{}, nil
	}

	return courses, nil
}

// ListByEducator retrieves all courses owned by the educator, drafts included
func (r *courseRepo) ListByEducator(ctx context.Context, educatorID string) ([]model.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE educator_id = $1
		ORDER BY created_at DESC
	`
	return r.queryCourses(ctx, query, educatorID)
}

// ListByIDs retrieves full course documents for a set of ids
func (r *courseRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	if len(ids) == 0 {
		return []model.Course{}, nil
	}

	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode id list: %w", err)
	}

	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE id IN (SELECT jsonb_array_elements_text($1::jsonb))
		ORDER BY created_at DESC
	`
	return r.queryCourses(ctx, query, idsJSON)
}

func (r *courseRepo) queryCourses(ctx context.Context, query string, args ...interface{}) ([]model.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(courses) == 0 {
		return []model.Course{}, nil
	}

	return courses, nil
}

// CreateCourse inserts a new course document and returns the created record
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (id, educator_id, title, description, price, discount,
		                     thumbnail_url, is_published, course_content,
		                     course_ratings, enrolled_students)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		c.EducatorID, c.Title, c.Description, c.Price, c.Discount,
		c.ThumbnailURL, c.IsPublished, c.Chapters, c.Ratings, c.EnrolledStudents,
	).Scan(&c.CourseID, &c.CreatedAt, &c.UpdatedAt)
}

// GetCourseByID retrieves a full course document by its ID
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE id = $1
	`
	var c model.Course
	err := scanCourse(r.db.QueryRowContext(ctx, query, courseID), &c)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// AddEnrolledStudent appends the user id to enrolled_students. The @> guard
// makes the statement a no-op when the id is already present, so webhook
// replays cannot create duplicates.
func (r *courseRepo) AddEnrolledStudent(ctx context.Context, courseID, userID string) error {
	query := `
		UPDATE courses
		SET enrolled_students = enrolled_students || to_jsonb($2::text),
		    updated_at = NOW()
		WHERE id = $1
		  AND NOT enrolled_students @> to_jsonb($2::text)
	`
	_, err := r.db.ExecContext(ctx, query, courseID, userID)
	return err
}

// UpsertRating rewrites course_ratings in a single statement: any existing
// entry for the user is filtered out, then the new entry is appended. Each
// user's rating is addressed by user_id, never by array position, so two
// users rating at once cannot overwrite each other's entry.
func (r *courseRepo) UpsertRating(ctx context.Context, courseID, userID string, rating int) error {
	query := `
		UPDATE courses
		SET course_ratings = (
		        SELECT COALESCE(jsonb_agg(entry), '[]'::jsonb)
		        FROM jsonb_array_elements(course_ratings) AS entry
		        WHERE entry->>'user_id' <> $2
		    ) || jsonb_build_object('user_id', $2::text, 'rating', $3::int),
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, courseID, userID, rating)
	return err
}
