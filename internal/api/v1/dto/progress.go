package dto

import "app/internal/model"

// ProgressUpdateDTO marks one lecture complete
type ProgressUpdateDTO struct {
	CourseID  string `json:"course_id" validate:"required"`
	LectureID string `json:"lecture_id" validate:"required"`
}

// ProgressResponseDTO is the user's progress in one course
type ProgressResponseDTO struct {
	CourseID          string           `json:"course_id"`
	LecturesCompleted model.StringList `json:"lectures_completed"`
	Completed         bool             `json:"completed"`
}
