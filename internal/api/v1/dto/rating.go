package dto

// RatingRequestDTO submits or replaces the caller's rating for a course
type RatingRequestDTO struct {
	CourseID string `json:"course_id" validate:"required"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
}
