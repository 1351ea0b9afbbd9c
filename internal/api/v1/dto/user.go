package dto

import (
	"time"

	"app/internal/model"
)

// UserResponseDTO is returned by the profile endpoint
type UserResponseDTO struct {
	UserID          string           `json:"user_id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	AvatarURL       string           `json:"avatar_url"`
	Role            string           `json:"role"`
	EnrolledCourses model.StringList `json:"enrolled_courses"`
	CreatedAt       time.Time        `json:"created_at"`
}

// NewUserResponseDTO maps a model user to its API representation
func NewUserResponseDTO(u *model.User) UserResponseDTO {
	return UserResponseDTO{
		UserID:          u.UserID,
		Name:            u.Name,
		Email:           u.Email,
		AvatarURL:       u.AvatarURL,
		Role:            u.Role,
		EnrolledCourses: u.EnrolledCourses,
		CreatedAt:       u.CreatedAt,
	}
}

// IdentityEventDTO is the identity provider webhook envelope
type IdentityEventDTO struct {
	Type string            `json:"type" validate:"required"`
	Data IdentityEventData `json:"data"`
}

// IdentityEventData carries the provider's user record
type IdentityEventData struct {
	ID        string `json:"id" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ImageURL  string `json:"image_url"`
	Emails    []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}
